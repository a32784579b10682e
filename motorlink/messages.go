package motorlink

import (
	"encoding/binary"
	"math"
)

// SendStatus emits the periodic motor status message.
func (l *Dispatcher) SendStatus() error {
	s := l.motor.Status()
	msg := l.tx[:motorStatusLength]
	msg[0] = MsgMotorStatus
	msg[1] = l.motorID
	msg[2] = l.motor.StatusByte()
	msg[3] = s.Microstep
	msg[4] = s.JobID
	binary.LittleEndian.PutUint32(msg[5:], s.PulsesRemaining)
	return l.serial.SendMessage(msg)
}

// SendFeedback emits the encoder feedback message: absolute count, angle
// within the revolution and the filtered angular velocity.
func (l *Dispatcher) SendFeedback() error {
	enc := l.motor.Encoder()
	msg := l.tx[:motorFeedbackLength]
	msg[0] = MsgMotorFeedback
	msg[1] = l.motorID
	binary.LittleEndian.PutUint32(msg[2:], uint32(enc.Count()))
	binary.LittleEndian.PutUint16(msg[6:], uint16(enc.AngleCount()))
	binary.LittleEndian.PutUint32(msg[8:], math.Float32bits(enc.VelocityRadians()))
	return l.serial.SendMessage(msg)
}

// SendFault emits the asynchronous fault notification.
func (l *Dispatcher) SendFault() error {
	msg := l.tx[:motorFaultLength]
	msg[0] = MsgMotorFault
	msg[1] = l.motorID
	return l.serial.SendMessage(msg)
}

// SendResponse answers a rejected or unknown command. The payload echoes
// the command byte so the host can match the response to its request.
func (l *Dispatcher) SendResponse(code byte, cmdEcho byte) error {
	msg := l.tx[:responseLength]
	msg[0] = MsgResponse
	msg[1] = code
	msg[2] = l.motorID
	msg[3] = cmdEcho
	msg[4] = 0
	return l.serial.SendMessage(msg)
}

// SendJobComplete reports a finished job.
func (l *Dispatcher) SendJobComplete(jobID uint8) error {
	msg := l.tx[:jobCompleteLength]
	msg[0] = MsgJobComplete
	msg[1] = l.motorID
	msg[2] = jobID
	return l.serial.SendMessage(msg)
}

// SendJobCancelled reports a cancelled job.
func (l *Dispatcher) SendJobCancelled(jobID uint8) error {
	msg := l.tx[:jobCancelledLength]
	msg[0] = MsgJobCancelled
	msg[1] = l.motorID
	msg[2] = jobID
	return l.serial.SendMessage(msg)
}

// NotifyJobComplete reports the completion signalled by the pulse engine
// and returns the motor to idle. Call when Update returns true.
func (l *Dispatcher) NotifyJobComplete() error {
	err := l.SendJobComplete(l.motor.JobID())
	l.motor.ResetJobID()
	return err
}
