package drv8825

import "errors"

// State arbitration errors. Each one maps to a distinct response code on
// the host link.
var (
	ErrBadJobCommand      = errors.New("drv8825: bad job command")
	ErrMotorBusy          = errors.New("drv8825: job already active")
	ErrMotorInFault       = errors.New("drv8825: driver in fault")
	ErrMotorInSleep       = errors.New("drv8825: driver in sleep")
	ErrMotorPaused        = errors.New("drv8825: job paused")
	ErrMotorDisabled      = errors.New("drv8825: driver disabled")
	ErrNoActiveJob        = errors.New("drv8825: no active job")
	ErrJobAlreadyPaused   = errors.New("drv8825: job already paused")
	ErrJobAlreadyResumed  = errors.New("drv8825: job already resumed")
	ErrAlreadyEnabled     = errors.New("drv8825: already enabled")
	ErrAlreadyDisabled    = errors.New("drv8825: already disabled")
	ErrAlreadySleeping    = errors.New("drv8825: already sleeping")
	ErrAlreadyAwake       = errors.New("drv8825: already awake")
	ErrSleepWithActiveJob = errors.New("drv8825: sleep refused, job active")
	ErrWakeWithActiveJob  = errors.New("drv8825: wake refused, job active")
)
