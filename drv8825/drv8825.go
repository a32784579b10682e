// Package drv8825 drives a bipolar stepper motor through a DRV8825 class
// driver IC. The device owns the driver's control lines and a quadrature
// encoder, executes host-armed pulse jobs with an optional trapezoidal
// ramp, and arbitrates lifecycle commands against the current motor state.
//
// Nothing here blocks except Reset, which holds the reset line low for a
// millisecond. Update is meant to run on every pass of a tight main loop;
// it does timestamp arithmetic, pin writes and the encoder's periodic
// velocity update.
package drv8825

import (
	"time"

	"github.com/LachlanMares/engineering-team-motor/quadrature"
)

// Pulse timing limits in microseconds. A commanded interval outside the
// minimum/maximum window is replaced with the default at job arm time.
const (
	MinimumPulseInterval uint32 = 1000
	MaximumPulseInterval uint32 = 1000000
	DefaultPulseInterval uint32 = 2000
	DefaultPulseOnPeriod uint32 = 500

	DefaultRampSteps  uint32 = 50
	DefaultRampScaler uint32 = 4

	// StepsPerRevolution is the motor's native full step count.
	StepsPerRevolution = 200
)

// Pin is an output line. machine.Pin satisfies it.
type Pin interface {
	High()
	Low()
}

// InputPin is a readable line. machine.Pin satisfies it.
type InputPin interface {
	Get() bool
}

// Pins are the DRV8825 control lines. Fault is the driver's nFAULT output,
// active low. Enable is nENBL: low switches the outputs on.
type Pins struct {
	Direction Pin
	Step      Pin
	Sleep     Pin
	Reset     Pin
	M0        Pin
	M1        Pin
	M2        Pin
	Enable    Pin
	Fault     InputPin
}

type Config struct {
	// Encoder configures the attached quadrature encoder.
	Encoder quadrature.Config
}

// Command is one host job request.
type Command struct {
	Direction     bool
	UseRamping    bool
	Microstep     uint8
	JobID         uint8
	RampScaler    uint8
	RampingSteps  uint32
	Pulses        uint32
	PulseInterval uint32
	PulseOnPeriod uint32
}

// Status is a snapshot of the live motor state.
type Status struct {
	Running         bool
	Fault           bool
	Direction       bool
	Enabled         bool
	Sleep           bool
	Paused          bool
	UseRamping      bool
	Microstep       uint8
	JobID           uint8
	PulsesRemaining uint32
	PulseInterval   uint32
	PulseOnPeriod   uint32

	RampUpStop        uint32
	RampDownStart     uint32
	RampUpInterval    uint32
	RampDownInterval  uint32
	RampIntervalStep  uint32
	RampPulseInterval uint32
}

// Device is one motor channel: driver control lines plus its encoder.
type Device struct {
	pins    Pins
	encoder *quadrature.Device
	status  Status

	// Pulse engine locals, reset on job start, resume and cancel.
	outputState        bool
	lastPulseOnMicros  uint32
	lastPulseOffMicros uint32
}

func New(pins Pins) *Device {
	return &Device{
		pins: pins,
		status: Status{
			Microstep:         1,
			PulseInterval:     DefaultPulseInterval,
			PulseOnPeriod:     DefaultPulseOnPeriod,
			RampUpInterval:    DefaultPulseInterval,
			RampDownInterval:  DefaultPulseInterval,
			RampPulseInterval: DefaultPulseInterval,
		},
	}
}

// Configure creates the encoder and establishes the power-on pin posture:
// outputs enabled, device awake and out of reset, step and direction low,
// full step mode.
func (d *Device) Configure(cfg Config) {
	d.encoder = quadrature.New(cfg.Encoder)

	d.pins.Direction.Low()
	d.pins.Step.Low()
	d.pins.Sleep.High()
	d.pins.Reset.High()
	d.pins.M0.Low()
	d.pins.M1.Low()
	d.pins.M2.Low()
	d.pins.Enable.Low()
}

// Encoder returns the attached quadrature encoder.
func (d *Device) Encoder() *quadrature.Device {
	return d.encoder
}

// Enable switches the driver outputs on.
func (d *Device) Enable() error {
	if d.status.Enabled {
		return ErrAlreadyEnabled
	}
	d.enable()
	return nil
}

// Disable switches the driver outputs off.
func (d *Device) Disable() error {
	if !d.status.Enabled {
		return ErrAlreadyDisabled
	}
	d.disable()
	return nil
}

// Sleep puts the driver into its low power state. Refused while a job is
// active.
func (d *Device) Sleep() error {
	if d.status.Sleep {
		return ErrAlreadySleeping
	}
	if d.status.Running {
		return ErrSleepWithActiveJob
	}
	d.sleep()
	return nil
}

// Wake brings the driver out of its low power state. Refused while a job
// is active.
func (d *Device) Wake() error {
	if !d.status.Sleep {
		return ErrAlreadyAwake
	}
	if d.status.Running {
		return ErrWakeWithActiveJob
	}
	d.wake()
	return nil
}

// Reset pulses the driver's reset line. This is the one blocking call in
// the package: the line must be held low for at least a millisecond.
func (d *Device) Reset() {
	d.pins.Reset.Low()
	time.Sleep(time.Millisecond)
	d.pins.Reset.High()
}

// FaultStatus reads the driver's nFAULT line, true when faulted.
func (d *Device) FaultStatus() bool {
	return !d.pins.Fault.Get()
}

// FaultCheck polls the fault line into the status record and reports it.
func (d *Device) FaultCheck() bool {
	d.status.Fault = d.FaultStatus()
	return d.status.Fault
}

// ClearFault re-reads the fault line, dropping the fault bit if the driver
// has recovered.
func (d *Device) ClearFault() bool {
	return d.FaultCheck()
}

// Status returns a copy of the live motor state.
func (d *Device) Status() Status {
	return d.status
}

// JobID returns the active job id, 0 when idle.
func (d *Device) JobID() uint8 {
	return d.status.JobID
}

// Running reports whether a job is executing.
func (d *Device) Running() bool {
	return d.status.Running
}

func (d *Device) enable() {
	d.status.Enabled = true
	d.pins.Enable.Low()
}

func (d *Device) disable() {
	d.status.Enabled = false
	d.pins.Enable.High()
}

func (d *Device) sleep() {
	d.status.Sleep = true
	d.pins.Sleep.Low()
}

func (d *Device) wake() {
	d.status.Sleep = false
	d.pins.Sleep.High()
}
