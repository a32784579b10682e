// Package atserial frames binary messages for a point-to-point serial
// link. Frames are STX | LEN | payload | ETX where LEN counts the whole
// frame including STX, LEN and ETX, so the payload is LEN-3 bytes.
//
// A frame is accepted whole or not at all: a bad length or a missing ETX
// discards the frame without touching the caller's buffer.
package atserial

import (
	"errors"
	"time"
)

// Framing bytes.
const (
	STX byte = 0x02
	ETX byte = 0x03
	ACK byte = 0x06
	NAK byte = 0x15
)

const (
	// BufferLength bounds the frame length byte; LEN must be below it.
	BufferLength = 256

	headerLength = 2
	footerLength = 1

	// MaxFrameLength is the largest LEN value that passes validation.
	MaxFrameLength = BufferLength - 1

	// MaxPayload is the largest payload a frame can carry.
	MaxPayload = MaxFrameLength - headerLength - footerLength

	// DefaultTimeout is the read timeout applied while completing a
	// frame whose header has been seen.
	DefaultTimeout = 100 * time.Millisecond

	// scanRetries bounds the search for STX in a single poll.
	scanRetries = 10
)

var errPayloadTooLong = errors.New("atserial: payload too long for frame")

// UART is the serial port the framer drives. machine.UART satisfies it.
type UART interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (n int, err error)
}

type Config struct {
	// Timeout is the read timeout for completing a started frame.
	// Defaults to DefaultTimeout if zero.
	Timeout time.Duration
}

// Device frames and unframes messages over a UART.
type Device struct {
	uart    UART
	timeout time.Duration
	frame   [BufferLength]byte
}

func New(uart UART) *Device {
	return &Device{
		uart:    uart,
		timeout: DefaultTimeout,
	}
}

func (d *Device) Configure(cfg Config) {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	d.timeout = cfg.Timeout
}

// Poll scans the receive buffer for one frame and copies its payload into
// buf. It returns the payload length, or 0 when no complete well-formed
// frame was available. Never blocks longer than the read timeout, and only
// when a frame header has already arrived.
func (d *Device) Poll(buf []byte) int {
	dataLength := 0

	for i := 0; i < scanRetries; i++ {
		if d.uart.Buffered() <= headerLength {
			return 0
		}
		in, err := d.uart.ReadByte()
		if err != nil || in != STX {
			continue
		}
		length, err := d.uart.ReadByte()
		if err != nil {
			return 0
		}
		if int(length) > headerLength+footerLength && int(length) < BufferLength {
			// Payload plus the trailing ETX.
			dataLength = int(length) - headerLength
			break
		}
	}
	if dataLength == 0 {
		return 0
	}

	if d.readBytes(d.frame[:dataLength]) != dataLength {
		return 0
	}
	if d.frame[dataLength-1] != ETX {
		return 0
	}

	payload := dataLength - footerLength
	if payload > len(buf) {
		return 0
	}
	copy(buf, d.frame[:payload])

	return payload
}

// readBytes fills buf from the UART, polling until done or the read
// timeout expires. Returns the number of bytes read.
func (d *Device) readBytes(buf []byte) int {
	deadline := time.Now().Add(d.timeout)
	n := 0
	for n < len(buf) {
		if d.uart.Buffered() > 0 {
			b, err := d.uart.ReadByte()
			if err != nil {
				break
			}
			buf[n] = b
			n++
			continue
		}
		if time.Now().After(deadline) {
			break
		}
	}
	return n
}

// SendMessage writes payload as one frame.
func (d *Device) SendMessage(payload []byte) error {
	if len(payload) > MaxPayload {
		return errPayloadTooLong
	}
	packet := d.frame[:len(payload)+headerLength+footerLength]
	packet[0] = STX
	packet[1] = byte(len(packet))
	copy(packet[headerLength:], payload)
	packet[len(packet)-1] = ETX

	_, err := d.uart.Write(packet)
	return err
}
