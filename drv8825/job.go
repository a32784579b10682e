package drv8825

// StartJob validates and arms one pulse job. The motor must be idle,
// enabled, awake and fault free; nothing is auto-corrected on its behalf.
// A fault seen here also drops the driver into sleep, disables the
// outputs and pulses reset so the fault source can recover.
func (d *Device) StartJob(cmd Command) error {
	if cmd.JobID == 0 {
		return ErrBadJobCommand
	}

	d.status.Fault = d.FaultStatus()
	if d.status.Fault {
		d.status.Running = false
		d.sleep()
		d.disable()
		d.Reset()
		return ErrMotorInFault
	}

	if d.status.JobID != 0 {
		return ErrMotorBusy
	}
	if d.status.Sleep {
		return ErrMotorInSleep
	}
	if !d.status.Enabled {
		return ErrMotorDisabled
	}
	if d.status.Paused {
		return ErrMotorPaused
	}

	d.status.Running = true
	d.status.Paused = false
	d.status.Direction = cmd.Direction
	d.status.UseRamping = cmd.UseRamping
	d.status.Microstep = cmd.Microstep
	d.status.JobID = cmd.JobID

	d.outputState = false
	d.lastPulseOnMicros = 0
	d.lastPulseOffMicros = 0

	if d.status.Direction {
		d.pins.Direction.High()
	} else {
		d.pins.Direction.Low()
	}
	d.pins.Step.Low()
	d.decodeMicrostep()

	if cmd.PulseInterval >= MinimumPulseInterval && cmd.PulseInterval <= MaximumPulseInterval {
		d.status.PulseInterval = cmd.PulseInterval
	} else {
		d.status.PulseInterval = DefaultPulseInterval
	}
	if cmd.PulseOnPeriod != 0 && cmd.PulseOnPeriod < d.status.PulseInterval {
		d.status.PulseOnPeriod = cmd.PulseOnPeriod
	} else {
		d.status.PulseOnPeriod = d.status.PulseInterval / 2
	}
	d.status.PulsesRemaining = cmd.Pulses

	if d.status.UseRamping {
		d.armRamp(cmd)
	} else {
		d.status.RampUpStop = 0
		d.status.RampDownStart = 0
		d.status.RampUpInterval = 0
		d.status.RampDownInterval = 0
		d.status.RampIntervalStep = 0
		d.status.RampPulseInterval = 0
	}

	return nil
}

// armRamp computes the ramp geometry for the job being armed. The pulse
// interval starts at scaler times the cruise interval, shrinks linearly
// over the ramp steps, cruises, then mirrors back up. A job shorter than
// two ramps splits in half with no cruise phase.
func (d *Device) armRamp(cmd Command) {
	steps := cmd.RampingSteps
	if steps == 0 {
		steps = DefaultRampSteps
	}
	scaler := uint32(cmd.RampScaler)
	if scaler == 0 {
		scaler = DefaultRampScaler
	}

	if 2*steps < d.status.PulsesRemaining {
		d.status.RampUpStop = d.status.PulsesRemaining - steps
		d.status.RampDownStart = steps
	} else {
		d.status.RampUpStop = d.status.PulsesRemaining / 2
		if d.status.RampUpStop > 0 {
			d.status.RampDownStart = d.status.RampUpStop - 1
		} else {
			d.status.RampDownStart = 0
		}
	}

	d.status.RampUpInterval = constrain(d.status.PulseInterval*scaler, d.status.PulseInterval, MaximumPulseInterval)
	d.status.RampPulseInterval = d.status.RampUpInterval
	d.status.RampDownInterval = d.status.PulseInterval
	d.status.RampIntervalStep = (d.status.RampUpInterval - d.status.RampDownInterval) / steps
}

// PauseJob suspends pulse generation. A pulse whose line is high finishes
// its on period before the engine freezes.
func (d *Device) PauseJob() error {
	if !d.status.Running {
		return ErrNoActiveJob
	}
	if d.status.Paused {
		return ErrJobAlreadyPaused
	}
	d.status.Paused = true
	return nil
}

// ResumeJob resumes a paused job. The edge timestamps are cleared so the
// next rising edge fires on the next update rather than after a hold.
func (d *Device) ResumeJob() error {
	if !d.status.Running {
		return ErrNoActiveJob
	}
	if !d.status.Paused {
		return ErrJobAlreadyResumed
	}
	d.status.Paused = false
	d.lastPulseOnMicros = 0
	d.lastPulseOffMicros = 0
	return nil
}

// CancelJob abandons the active job and drops the step line. Read JobID
// before calling if the id is needed for a cancellation report.
func (d *Device) CancelJob() error {
	if !d.status.Running {
		return ErrNoActiveJob
	}
	d.status.Running = false
	d.status.Paused = false
	d.status.PulsesRemaining = 0
	d.status.JobID = 0
	d.outputState = false
	d.pins.Step.Low()
	return nil
}

// ResetJobID clears the job id once the completion report has gone out,
// returning the motor to its idle state.
func (d *Device) ResetJobID() {
	d.status.JobID = 0
}

// Update runs one pass of the pulse engine and the encoder's periodic
// velocity estimator. Call it on every main loop iteration with the
// current microsecond timestamp; interval checks survive counter
// wraparound. It returns true exactly once per job, when the final pulse
// completes.
func (d *Device) Update(now uint32) bool {
	d.encoder.UpdateVelocity(now)

	if !d.status.Enabled || !d.status.Running || d.status.Fault {
		return false
	}

	// A paused engine still finishes the on period of a pulse in flight
	// so the step line never idles high.
	if d.status.Paused && !d.outputState {
		return false
	}

	if d.status.PulsesRemaining == 0 {
		d.status.Running = false
		return true
	}

	if d.outputState {
		if now-d.lastPulseOffMicros >= d.status.PulseOnPeriod {
			d.pins.Step.Low()
			d.outputState = false
			d.status.PulsesRemaining--
			if d.status.PulsesRemaining == 0 {
				d.status.Running = false
				return true
			}
		}
		return false
	}

	interval := d.status.PulseInterval
	if d.status.UseRamping {
		interval = d.status.RampPulseInterval
	}
	if now-d.lastPulseOnMicros >= interval {
		d.pins.Step.High()
		d.lastPulseOnMicros = now
		d.lastPulseOffMicros = now
		d.outputState = true
		if d.status.UseRamping {
			d.advanceRamp()
		}
	}

	return false
}

// advanceRamp recomputes the next rising edge interval from the job's
// position in the ramp profile. Runs once per rising edge.
func (d *Device) advanceRamp() {
	switch {
	case d.status.PulsesRemaining > d.status.RampUpStop:
		d.status.RampUpInterval -= d.status.RampIntervalStep
		d.status.RampPulseInterval = d.status.RampUpInterval

	case d.status.PulsesRemaining < d.status.RampDownStart:
		d.status.RampDownInterval += d.status.RampIntervalStep
		d.status.RampPulseInterval = d.status.RampDownInterval

	default:
		d.status.RampPulseInterval = d.status.PulseInterval
	}
}
