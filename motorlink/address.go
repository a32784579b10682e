package motorlink

// Host to motor command types.
const (
	CmdSendJob                        byte = 0xEF // direction, microstep, job id, pulses, interval, on period
	CmdSendJobWithRamping             byte = 0xEE // CmdSendJob fields plus ramping steps and ramp scaler
	CmdSendJobAllVariables            byte = 0xED // every command record field, ramping off
	CmdSendJobAllVariablesWithRamping byte = 0xEC // every command record field, ramping on
	CmdPauseJob                       byte = 0xEB
	CmdResumeJob                      byte = 0xEA
	CmdCancelJob                      byte = 0xE9
	CmdEnableMotor                    byte = 0xE8
	CmdDisableMotor                   byte = 0xE7
	CmdSleepMotor                     byte = 0xE6
	CmdWakeMotor                      byte = 0xE5
	CmdResetMotor                     byte = 0xE4
)

// Motor to host message ids, always the first payload byte.
const (
	MsgMotorStatus   byte = 0xFF
	MsgMotorFeedback byte = 0xFE
	MsgMotorFault    byte = 0xFD
	MsgResponse      byte = 0xFC
	MsgJobComplete   byte = 0xFA
	MsgJobCancelled  byte = 0xF9
)

// Full payload lengths including the message id byte.
const (
	motorStatusLength   = 9
	motorFeedbackLength = 12
	motorFaultLength    = 2
	responseLength      = 5
	jobCompleteLength   = 3
	jobCancelledLength  = 3
)

// Response codes carried in byte 1 of a MsgResponse payload.
const (
	RespBadJobCommand        byte = 0xDF
	RespMotorBusy            byte = 0xDE
	RespUnknownCommand       byte = 0xDD
	RespMotorInFault         byte = 0xDC
	RespMotorInSleep         byte = 0xDB
	RespMotorPaused          byte = 0xDA
	RespMotorDisabled        byte = 0xD9
	RespNoActiveJob          byte = 0xD8
	RespJobAlreadyPaused     byte = 0xD7
	RespJobAlreadyResumed    byte = 0xD6
	RespMotorAlreadyEnabled  byte = 0xD5
	RespMotorAlreadyDisabled byte = 0xD4
	RespMotorAlreadySleeping byte = 0xD3
	RespMotorAlreadyAwake    byte = 0xD2
	RespSleepWithActiveJob   byte = 0xD1
	RespWakeWithActiveJob    byte = 0xD0
)

// Command payload lengths including the command byte.
const (
	sendJobLength             = 16
	sendJobWithRampingLength  = 21
	sendJobAllVariablesLength = 21
	simpleCommandLength       = 1
)
