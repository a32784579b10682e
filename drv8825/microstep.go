package drv8825

// decodeMicrostep drives the three mode select lines for the microstep
// resolution in the status record. An unknown resolution falls back to
// full step and the stored value is corrected to 1.
//
// DRV8825 mode table: M0 is the least significant select.
func (d *Device) decodeMicrostep() {
	switch d.status.Microstep {
	case 1:
		d.pins.M0.Low()
		d.pins.M1.Low()
		d.pins.M2.Low()

	case 2:
		d.pins.M0.High()
		d.pins.M1.Low()
		d.pins.M2.Low()

	case 4:
		d.pins.M0.Low()
		d.pins.M1.High()
		d.pins.M2.Low()

	case 8:
		d.pins.M0.High()
		d.pins.M1.High()
		d.pins.M2.Low()

	case 16:
		d.pins.M0.Low()
		d.pins.M1.Low()
		d.pins.M2.High()

	case 32:
		d.pins.M0.High()
		d.pins.M1.Low()
		d.pins.M2.High()

	default:
		d.pins.M0.Low()
		d.pins.M1.Low()
		d.pins.M2.Low()
		d.status.Microstep = 1
	}
}
