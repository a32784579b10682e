// Package quadrature decodes an ABZ incremental encoder from pin edge
// events and maintains a free-running count, intra-revolution angle and a
// periodically sampled angular velocity.
//
// EdgeUpdate is safe to call from a pin-change interrupt: it does constant
// work, allocates nothing and writes only atomic cells and ISR-private
// state. UpdateVelocity and the getters are for the main loop.
package quadrature

import (
	"sync/atomic"

	"github.com/orsinium-labs/tinymath"
)

const (
	// DefaultUpdatePeriod is the velocity sampling period in microseconds.
	DefaultUpdatePeriod uint32 = 25000

	// DefaultPulsesPerRevolution is the count per revolution after 4x
	// quadrature decoding (600 line device).
	DefaultPulsesPerRevolution int32 = 2400

	filterLength = 10
)

// Quadrature transition window: bit 3 is the new A state, bit 2 the new B
// state, bits 1:0 the previous A/B states.
//
//	          _______         _______
//	A  ______|       |_______|       |______
//	       _______         _______         __
//	B  ___|       |_______|       |_______|
//	           ___________
//	Z  _______|           |__________________
//
// A leading B counts positive. Windows missing from both tables are either
// no-movement or a double transition; both mean a missed edge and count as
// an error.
const (
	incrementMask uint16 = 1<<0b0001 | 1<<0b0111 | 1<<0b1000 | 1<<0b1110
	decrementMask uint16 = 1<<0b0010 | 1<<0b0100 | 1<<0b1011 | 1<<0b1101
)

type Config struct {
	// UpdatePeriod is the velocity sampling period in microseconds.
	// Defaults to DefaultUpdatePeriod if zero.
	UpdatePeriod uint32

	// PulsesPerRevolution is the decoded count per revolution.
	// Defaults to DefaultPulsesPerRevolution if zero.
	PulsesPerRevolution int32

	// UseFilter enables a moving average filter over the velocity samples.
	UseFilter bool
}

// Device is one decoded encoder channel set.
type Device struct {
	// Shared between the edge ISR and the main loop.
	count      atomic.Int32
	angleCount atomic.Int32
	errors     atomic.Uint32

	// Written only from edge-event context.
	prevState byte
	prevZ     bool
	direction bool

	// Main loop only.
	ppr           int32
	pprFloat      float32
	updatePeriod  uint32
	updateDt      float32
	useFilter     bool
	prevMicros    uint32
	prevCount     int32
	delta         int32
	velocityCount float32
	velocityRad   float32
	filterBuffer  [filterLength]float32
}

// New creates an encoder device. Start must be called before the first
// velocity update to set the sampling phase.
func New(cfg Config) *Device {
	if cfg.UpdatePeriod == 0 {
		cfg.UpdatePeriod = DefaultUpdatePeriod
	}
	if cfg.PulsesPerRevolution == 0 {
		cfg.PulsesPerRevolution = DefaultPulsesPerRevolution
	}
	d := &Device{
		ppr:          cfg.PulsesPerRevolution,
		pprFloat:     float32(cfg.PulsesPerRevolution),
		updatePeriod: cfg.UpdatePeriod,
		updateDt:     float32(cfg.UpdatePeriod) * 1e-6,
		useFilter:    cfg.UseFilter,
		direction:    true,
	}
	return d
}

// Start stamps the velocity sampling reference so the first update period
// is a full one.
func (d *Device) Start(now uint32) {
	d.prevMicros = now
	d.prevCount = d.count.Load()
}

// EdgeUpdate consumes one A/B/Z pin sample taken on any edge of A or B.
// Call from the pin-change interrupt with the current pin levels.
func (d *Device) EdgeUpdate(a, b, z bool) {
	state := (d.prevState >> 2) & 0x03
	if a {
		state |= 1 << 3
	}
	if b {
		state |= 1 << 2
	}

	risingZ := z && !d.prevZ
	d.prevZ = z

	switch {
	case incrementMask&(1<<state) != 0:
		d.count.Add(1)
		d.direction = true
		d.prevState = state
		if risingZ {
			d.angleCount.Store(0)
		} else {
			d.angleCount.Store(d.wrapAngle(d.angleCount.Load() + 1))
		}

	case decrementMask&(1<<state) != 0:
		d.count.Add(-1)
		d.direction = false
		d.prevState = state
		if risingZ {
			d.angleCount.Store(d.ppr - 4)
		} else {
			d.angleCount.Store(d.wrapAngle(d.angleCount.Load() - 1))
		}

	default:
		// No movement or a double transition, either way an edge was missed.
		d.errors.Add(1)
	}
}

// wrapAngle constrains an angle count to one revolution.
func (d *Device) wrapAngle(angle int32) int32 {
	angle %= d.ppr
	if angle < 0 {
		angle += d.ppr
	}
	return angle
}

// UpdateVelocity recomputes the velocity estimate once per update period.
// It reports whether a new sample was produced. Main loop only.
func (d *Device) UpdateVelocity(now uint32) bool {
	if now-d.prevMicros < d.updatePeriod {
		return false
	}

	count := d.count.Load()
	d.delta = count - d.prevCount
	d.velocityCount = float32(d.delta) / d.updateDt

	// Angular displacement over one update period, in radians.
	sample := (float32(d.delta) / d.pprFloat) * (2 * tinymath.Pi)

	if d.useFilter {
		sum := float32(0)
		for i := 1; i < filterLength; i++ {
			d.filterBuffer[i-1] = d.filterBuffer[i]
			sum += d.filterBuffer[i-1]
		}
		d.filterBuffer[filterLength-1] = sample
		d.velocityRad = (sum + sample) / filterLength
	} else {
		d.velocityRad = sample
	}

	d.prevCount = count
	d.prevMicros = now

	return true
}

// Count returns the free-running signed count. Wraps in twos-complement.
func (d *Device) Count() int32 {
	return d.count.Load()
}

// AngleCount returns the intra-revolution count, 0 <= angle < PPR.
func (d *Device) AngleCount() int32 {
	return d.angleCount.Load()
}

// AngleRadians returns the intra-revolution angle in radians.
func (d *Device) AngleRadians() float32 {
	return (float32(d.angleCount.Load()) / d.pprFloat) * (2 * tinymath.Pi)
}

// Direction reports the direction of the last counted edge, true positive.
func (d *Device) Direction() bool {
	return d.direction
}

// Delta returns the count change seen by the last velocity update.
func (d *Device) Delta() int32 {
	return d.delta
}

// Velocity returns the last raw velocity sample in counts per second.
func (d *Device) Velocity() float32 {
	return d.velocityCount
}

// VelocityRadians returns the last angular velocity sample, filtered when
// the filter is enabled.
func (d *Device) VelocityRadians() float32 {
	return d.velocityRad
}

// ErrorCount returns the number of illegal quadrature transitions seen.
func (d *Device) ErrorCount() uint32 {
	return d.errors.Load()
}
