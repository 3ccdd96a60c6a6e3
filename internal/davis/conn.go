package davis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Conn is the byte transport the protocol layer runs on. The only
// implementation that reaches hardware is SerialConn; tests substitute
// scripted fakes.
type Conn interface {
	Write(p []byte) (int, error)
	// ReadFull reads until n bytes arrived or the deadline passed and
	// returns whatever it got; a short result is the caller's to judge.
	ReadFull(n int, timeout time.Duration) ([]byte, error)
	Flush() error
	Close() error
}

// serialPort is the slice of go.bug.st/serial.Port this package needs.
type serialPort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	ResetInputBuffer() error
	ResetOutputBuffer() error
	SetReadTimeout(t time.Duration) error
	Close() error
}

// SerialConn owns the serial line to the console.
type SerialConn struct {
	device string
	port   serialPort
	log    *zap.SugaredLogger
}

// Open resolves a bare device name against /dev, opens the line for this
// process alone, and configures 19200 baud 8-N-1.
func Open(device string, log *zap.SugaredLogger) (*SerialConn, error) {
	if !strings.HasPrefix(device, "/") {
		device = "/dev/" + device
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		var pe *serial.PortError
		if errors.As(err, &pe) && pe.Code() == serial.PortBusy {
			return nil, fmt.Errorf("%w: %s", ErrDeviceBusy, device)
		}
		return nil, fmt.Errorf("open %s: %w", device, err)
	}

	log.Debugw("serial line open", "device", device, "baud", baudRate)
	return &SerialConn{device: device, port: port, log: log}, nil
}

func (c *SerialConn) Write(p []byte) (int, error) {
	n, err := c.port.Write(p)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", c.device, err)
	}
	return n, nil
}

// ReadFull reads exactly n bytes unless the deadline passes first. The
// timeout covers the whole exchange: each time the line hands back a
// short read the remaining budget is recomputed and the read reissued.
// On deadline it returns the partial buffer with no error.
func (c *SerialConn) ReadFull(n int, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 || timeout > maxReadTimeout {
		return nil, fmt.Errorf("%w: read timeout %v", ErrInvalidArgument, timeout)
	}
	if n <= 0 || n > maxReadLen {
		return nil, fmt.Errorf("%w: read length %d", ErrInvalidArgument, n)
	}

	deadline := time.Now().Add(timeout)
	buf := make([]byte, n)
	got := 0
	for got < n {
		left := time.Until(deadline)
		if left <= 0 {
			break
		}
		if err := c.port.SetReadTimeout(left); err != nil {
			return buf[:got], fmt.Errorf("set read timeout on %s: %w", c.device, err)
		}
		rc, err := c.port.Read(buf[got:])
		if err != nil {
			return buf[:got], fmt.Errorf("read %s: %w", c.device, err)
		}
		got += rc
	}
	return buf[:got], nil
}

// Flush drops whatever is queued on the line in both directions.
func (c *SerialConn) Flush() error {
	if err := c.port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("flush input on %s: %w", c.device, err)
	}
	if err := c.port.ResetOutputBuffer(); err != nil {
		return fmt.Errorf("flush output on %s: %w", c.device, err)
	}
	return nil
}

func (c *SerialConn) Close() error {
	return c.port.Close()
}
