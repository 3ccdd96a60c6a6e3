// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package davis

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/weather_logger/internal/wx"
)

// Station drives one console over an open transport. Methods are
// strictly request/response; nothing here is safe for concurrent use.
type Station struct {
	conn Conn
	log  *zap.SugaredLogger
}

func NewStation(conn Conn, log *zap.SugaredLogger) *Station {
	return &Station{conn: conn, log: log}
}

// Wake brings the console out of its low-power sleep. It retries the
// newline prod up to four times before giving up on the cycle.
func (s *Station) Wake() error {
	for i := 1; i <= wakeAttempts; i++ {
		err := s.wakeOnce()
		if err == nil {
			return nil
		}
		s.log.Debugw("wake attempt failed", "attempt", i, "error", err)
	}
	return fmt.Errorf("%w: no response to %d wake attempts", ErrTimeout, wakeAttempts)
}

// wakeOnce prods the console with a bare newline. An awake console
// echoes a CR/LF pair; the two bytes arrive in either order.
func (s *Station) wakeOnce() error {
	if err := s.conn.Flush(); err != nil {
		return err
	}
	if _, err := s.conn.Write([]byte("\n")); err != nil {
		return err
	}
	resp, err := s.conn.ReadFull(2, wakeTimeout)
	if err != nil {
		return err
	}
	if len(resp) != 2 {
		return fmt.Errorf("got %d of 2 bytes", len(resp))
	}
	if !(resp[0] == '\r' && resp[1] == '\n') && !(resp[0] == '\n' && resp[1] == '\r') {
		return fmt.Errorf("unexpected response % x", resp)
	}
	return nil
}

// sendCommand writes cmd and waits for the console's ACK. Bytes other
// than the ACK are discarded; each read gets one second and at most five
// are issued.
func (s *Station) sendCommand(cmd string) error {
	if _, err := s.conn.Write([]byte(cmd)); err != nil {
		return err
	}
	for i := 0; i < ackAttempts; i++ {
		b, err := s.conn.ReadFull(1, ackTimeout)
		if err != nil {
			return err
		}
		if len(b) == 1 && b[0] == ack {
			return nil
		}
	}
	return fmt.Errorf("%w: no ack for %q", ErrTimeout, cmd)
}

// Identify wakes the console and asks which station model is attached.
func (s *Station) Identify() (byte, error) {
	if err := s.Wake(); err != nil {
		return 0, err
	}
	if err := s.sendCommand(cmdIdent); err != nil {
		return 0, err
	}
	b, err := s.conn.ReadFull(1, identTimeout)
	if err != nil {
		return 0, err
	}
	if len(b) != 1 {
		return 0, fmt.Errorf("%w: no station type byte", ErrTimeout)
	}
	return b[0], nil
}

// TakeSample runs one acquisition cycle: wake, request a LOOP record,
// verify it, decode it. The Sample comes back even when the cycle fails
// so callers can still log the all-invalid row; its timestamp is taken
// at the start of the cycle.
func (s *Station) TakeSample(gw *wx.GustWindow) (*wx.Sample, error) {
	smp := &wx.Sample{Time: time.Now()}

	if err := s.Wake(); err != nil {
		return smp, err
	}
	if err := s.sendCommand(cmdLoop); err != nil {
		return smp, fmt.Errorf("loop request: %w", err)
	}
	frame, err := s.conn.ReadFull(LoopSize, loopTimeout)
	if err != nil {
		return smp, err
	}
	if err := checkLoop(frame); err != nil {
		return smp, err
	}

	decodeLoop(frame, smp, gw)
	s.log.Debugw("loop record decoded",
		"temp_out", smp.TempOut.Valid,
		"wind", smp.Wind.Speed,
		"gust", smp.WindGust.Speed)
	return smp, nil
}
