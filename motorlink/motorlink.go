// Package motorlink is the host side of the motor firmware: it decodes
// framed command payloads, arbitrates them against the motor state and
// emits the status, feedback, fault and response messages the host
// expects. The wire contract is the STX framed protocol implemented by
// package atserial; all multi byte fields are little endian.
package motorlink

import (
	"encoding/binary"
	"errors"

	"github.com/LachlanMares/engineering-team-motor/atserial"
	"github.com/LachlanMares/engineering-team-motor/drv8825"
)

// Dispatcher connects one motor to the serial link.
type Dispatcher struct {
	motor   *drv8825.Device
	serial  *atserial.Device
	motorID uint8

	rx [atserial.MaxPayload]byte
	tx [motorFeedbackLength]byte
}

func New(motor *drv8825.Device, serial *atserial.Device, motorID uint8) *Dispatcher {
	return &Dispatcher{
		motor:   motor,
		serial:  serial,
		motorID: motorID,
	}
}

// Poll reads at most one inbound frame and dispatches it. Call once per
// main loop iteration, after the pulse engine and scheduler tasks.
func (l *Dispatcher) Poll() {
	if n := l.serial.Poll(l.rx[:]); n > 0 {
		l.HandleFrame(l.rx[:n])
	}
}

// HandleFrame decodes one command payload and either applies it to the
// motor or answers with a single response frame. Job cancellations are
// reported immediately; job completions are reported later through
// NotifyJobComplete when the pulse engine signals the final pulse.
func (l *Dispatcher) HandleFrame(payload []byte) {
	if len(payload) == 0 {
		return
	}
	cmd := payload[0]

	switch cmd {
	case CmdSendJob, CmdSendJobWithRamping, CmdSendJobAllVariables, CmdSendJobAllVariablesWithRamping:
		command, err := decodeJobCommand(payload)
		if err != nil {
			l.SendResponse(RespBadJobCommand, cmd)
			return
		}
		if err := l.motor.StartJob(command); err != nil {
			l.SendResponse(l.responseCode(err), cmd)
		}

	case CmdPauseJob:
		if err := l.motor.PauseJob(); err != nil {
			l.SendResponse(l.responseCode(err), cmd)
		}

	case CmdResumeJob:
		if err := l.motor.ResumeJob(); err != nil {
			l.SendResponse(l.responseCode(err), cmd)
		}

	case CmdCancelJob:
		jobID := l.motor.JobID()
		if err := l.motor.CancelJob(); err != nil {
			l.SendResponse(l.responseCode(err), cmd)
		} else {
			l.SendJobCancelled(jobID)
		}

	case CmdEnableMotor:
		if err := l.motor.Enable(); err != nil {
			l.SendResponse(l.responseCode(err), cmd)
		}

	case CmdDisableMotor:
		if err := l.motor.Disable(); err != nil {
			l.SendResponse(l.responseCode(err), cmd)
		}

	case CmdSleepMotor:
		if err := l.motor.Sleep(); err != nil {
			l.SendResponse(l.responseCode(err), cmd)
		}

	case CmdWakeMotor:
		if err := l.motor.Wake(); err != nil {
			l.SendResponse(l.responseCode(err), cmd)
		}

	case CmdResetMotor:
		l.motor.Reset()

	default:
		l.SendResponse(RespUnknownCommand, cmd)
	}
}

// decodeJobCommand unpacks any of the four job command layouts into a
// command record.
func decodeJobCommand(payload []byte) (drv8825.Command, error) {
	var cmd drv8825.Command

	switch payload[0] {
	case CmdSendJob:
		if len(payload) != sendJobLength {
			return cmd, errBadLength
		}
		cmd.Direction = payload[1] != 0
		cmd.Microstep = payload[2]
		cmd.JobID = payload[3]
		cmd.Pulses = binary.LittleEndian.Uint32(payload[4:])
		cmd.PulseInterval = binary.LittleEndian.Uint32(payload[8:])
		cmd.PulseOnPeriod = binary.LittleEndian.Uint32(payload[12:])

	case CmdSendJobWithRamping:
		if len(payload) != sendJobWithRampingLength {
			return cmd, errBadLength
		}
		cmd.UseRamping = true
		cmd.Direction = payload[1] != 0
		cmd.Microstep = payload[2]
		cmd.JobID = payload[3]
		cmd.Pulses = binary.LittleEndian.Uint32(payload[4:])
		cmd.PulseInterval = binary.LittleEndian.Uint32(payload[8:])
		cmd.PulseOnPeriod = binary.LittleEndian.Uint32(payload[12:])
		cmd.RampingSteps = binary.LittleEndian.Uint32(payload[16:])
		cmd.RampScaler = payload[20]

	case CmdSendJobAllVariables, CmdSendJobAllVariablesWithRamping:
		if len(payload) != sendJobAllVariablesLength {
			return cmd, errBadLength
		}
		cmd.UseRamping = payload[0] == CmdSendJobAllVariablesWithRamping
		cmd.Direction = payload[1] != 0
		cmd.Microstep = payload[2]
		cmd.JobID = payload[3]
		cmd.RampScaler = payload[4]
		cmd.RampingSteps = binary.LittleEndian.Uint32(payload[5:])
		cmd.Pulses = binary.LittleEndian.Uint32(payload[9:])
		cmd.PulseInterval = binary.LittleEndian.Uint32(payload[13:])
		cmd.PulseOnPeriod = binary.LittleEndian.Uint32(payload[17:])
	}

	return cmd, nil
}

var errBadLength = errors.New("motorlink: wrong payload length")

// responseCode maps a motor arbitration error to its wire code.
func (l *Dispatcher) responseCode(err error) byte {
	switch {
	case errors.Is(err, drv8825.ErrBadJobCommand):
		return RespBadJobCommand
	case errors.Is(err, drv8825.ErrMotorBusy):
		return RespMotorBusy
	case errors.Is(err, drv8825.ErrMotorInFault):
		return RespMotorInFault
	case errors.Is(err, drv8825.ErrMotorInSleep):
		return RespMotorInSleep
	case errors.Is(err, drv8825.ErrMotorPaused):
		return RespMotorPaused
	case errors.Is(err, drv8825.ErrMotorDisabled):
		return RespMotorDisabled
	case errors.Is(err, drv8825.ErrNoActiveJob):
		return RespNoActiveJob
	case errors.Is(err, drv8825.ErrJobAlreadyPaused):
		return RespJobAlreadyPaused
	case errors.Is(err, drv8825.ErrJobAlreadyResumed):
		return RespJobAlreadyResumed
	case errors.Is(err, drv8825.ErrAlreadyEnabled):
		return RespMotorAlreadyEnabled
	case errors.Is(err, drv8825.ErrAlreadyDisabled):
		return RespMotorAlreadyDisabled
	case errors.Is(err, drv8825.ErrAlreadySleeping):
		return RespMotorAlreadySleeping
	case errors.Is(err, drv8825.ErrAlreadyAwake):
		return RespMotorAlreadyAwake
	case errors.Is(err, drv8825.ErrSleepWithActiveJob):
		return RespSleepWithActiveJob
	case errors.Is(err, drv8825.ErrWakeWithActiveJob):
		return RespWakeWithActiveJob
	}
	return RespUnknownCommand
}
