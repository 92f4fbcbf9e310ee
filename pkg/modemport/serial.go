package modemport

import (
	"fmt"

	"go.bug.st/serial"
)

// SerialPort is the real ModemPort implementation, opening the modem's
// attached serial device with go.bug.st/serial. No example repo in the
// retrieved pack imports a serial driver directly (the closest analogue,
// doismellburning-samoyed's serial_port.go, wraps OS termios/DCB calls by
// hand); this is the one dependency this module adds new rather than
// reusing from the teacher's own stack.
type SerialPort struct {
	path string
	mode *serial.Mode
	port serial.Port
}

// NewSerialPort describes (without opening) a serial modem port at path
// running at baud bits/second.
func NewSerialPort(path string, baud int) *SerialPort {
	return &SerialPort{
		path: path,
		mode: &serial.Mode{
			BaudRate: baud,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		},
	}
}

// Open opens the underlying serial device.
func (s *SerialPort) Open() error {
	p, err := serial.Open(s.path, s.mode)
	if err != nil {
		return fmt.Errorf("modemport: opening %s: %w", s.path, err)
	}
	s.port = p
	return nil
}

// Close closes the underlying serial device.
func (s *SerialPort) Close() error {
	if s.port == nil {
		return nil
	}
	return s.port.Close()
}

// Read implements ModemPort.
func (s *SerialPort) Read(buf []byte) (int, error) {
	return s.port.Read(buf)
}

// Write implements ModemPort.
func (s *SerialPort) Write(buf []byte) (int, error) {
	return s.port.Write(buf)
}
