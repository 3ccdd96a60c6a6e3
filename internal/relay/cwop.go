// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package relay

import (
	"bufio"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/weather_logger/internal/wx"
)

// CWOP accepts at most one report per station every five minutes.
const cwopMinInterval = 5 * time.Minute

// CWOP submits samples to the Citizen Weather Observer Program over
// APRS-IS. Packet format per the wxqa.com FAQ.
type CWOP struct {
	addr     string
	user     string
	location string
	log      *zap.SugaredLogger
	lastSent time.Time
}

// NewCWOP builds the relay. location is the APRS position block, for
// example "4903.50N/07201.75W".
func NewCWOP(addr, user, location string, log *zap.SugaredLogger) *CWOP {
	return &CWOP{addr: addr, user: user, location: location, log: log}
}

func (c *CWOP) Name() string { return "cwop" }

// Send submits one report: read the server banner, log in, send the
// packet, hang up. Samples arriving inside the five-minute window are
// dropped without error.
func (c *CWOP) Send(smp *wx.Sample) error {
	if time.Since(c.lastSent) < cwopMinInterval {
		return nil
	}

	conn, err := net.DialTimeout("tcp", c.addr, 10*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		return err
	}

	r := bufio.NewReader(conn)
	if _, err := r.ReadString('\n'); err != nil {
		return fmt.Errorf("cwop banner: %w", err)
	}

	login := fmt.Sprintf("user %s pass -1 vers %s %s\r\n", c.user, softwareName, softwareVersion)
	if _, err := conn.Write([]byte(login)); err != nil {
		return err
	}
	if _, err := r.ReadString('\n'); err != nil {
		return fmt.Errorf("cwop login: %w", err)
	}

	pkt := c.packet(smp)
	if _, err := conn.Write([]byte(pkt)); err != nil {
		return err
	}

	c.lastSent = time.Now()
	c.log.Debugw("cwop report sent", "packet", strings.TrimSpace(pkt))
	return nil
}

// packet renders one APRS weather report, like
//
//	CW0001>APRS,TCPIP*:@211530z4903.50N/07201.75W_230/005g012t072r...p...P012h57b10131L512wwxlog
//
// Wind always goes out, zeros standing in for calm or unknown. Fields
// the sample could not provide are dotted out or omitted, whichever the
// format allows.
func (c *CWOP) packet(smp *wx.Sample) string {
	var b strings.Builder

	b.WriteString(c.user)
	b.WriteString(">APRS,TCPIP*:@")
	b.WriteString(smp.Time.UTC().Format("021504"))
	b.WriteString("z")
	b.WriteString(c.location)
	fmt.Fprintf(&b, "_%03d/%03dg%03d", smp.Wind.Direction, smp.Wind.Speed, smp.WindGust.Speed)

	if smp.TempOut.Valid {
		t := int(math.Round(smp.TempOut.Value))
		if t < 0 {
			fmt.Fprintf(&b, "t-%02d", -t)
		} else {
			fmt.Fprintf(&b, "t%03d", t)
		}
	} else {
		b.WriteString("t...")
	}

	// Hourly rain buckets are not tracked, only the midnight total.
	b.WriteString("r...p...")
	if smp.RainDay.Valid {
		fmt.Fprintf(&b, "P%03d", int(math.Round(smp.RainDay.Value*100)))
	} else {
		b.WriteString("P...")
	}

	if smp.HumOut.Valid {
		h := int(math.Round(smp.HumOut.Value))
		if h > 99 {
			h = 0 // APRS encodes 100% as 00
		}
		fmt.Fprintf(&b, "h%02d", h)
	}
	if smp.Barometer.Valid {
		// inHg to tenths of millibars.
		fmt.Fprintf(&b, "b%05d", int(math.Round(smp.Barometer.Value*33.86389*10)))
	}
	if smp.Solar.Valid {
		s := int(math.Round(smp.Solar.Value))
		if s > 999 {
			fmt.Fprintf(&b, "l%03d", s-1000)
		} else {
			fmt.Fprintf(&b, "L%03d", s)
		}
	}

	b.WriteString("w" + softwareName)
	b.WriteString("\r\n")
	return b.String()
}
