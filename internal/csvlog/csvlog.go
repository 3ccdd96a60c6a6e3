// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package csvlog appends samples to one CSV file per local day. Rows
// from failed cycles still get written; their measurement columns are
// simply empty, so gaps in the record stay visible.
package csvlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/relabs-tech/weather_logger/internal/wx"
)

// Row format version, bumped when columns change meaning.
const (
	formatMajor = 1
	formatMinor = 0
)

// Writer appends rows under a fixed directory. The zero value is not
// usable; construct with New.
type Writer struct {
	dir string
}

func New(dir string) *Writer {
	return &Writer{dir: dir}
}

// Append writes one row to the day file for the sample's local date,
// creating the file on first use. Columns, in order: format version
// pair, unix time, barometer, wind speed, wind direction, average wind
// speed, indoor and outdoor temperature, dewpoint, indoor and outdoor
// humidity, rain rate, rain for day, month and year, solar radiation.
// The wind direction column is only filled when the speed was readable.
func (w *Writer) Append(smp *wx.Sample) error {
	name := filepath.Join(w.dir, smp.Time.Format("2006.01.02")+".csv")
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open day file: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "%d,%d,%s,", formatMajor, formatMinor, strconv.FormatInt(smp.Time.Unix(), 10))

	field(&b, smp.Barometer)
	field(&b, smp.WindSpeed)
	if smp.WindSpeed.Valid {
		field(&b, smp.WindDir)
	} else {
		b.WriteString(",")
	}
	field(&b, smp.AvgWindSpeed)
	field(&b, smp.TempIn)
	field(&b, smp.TempOut)
	field(&b, smp.Dewpoint)
	field(&b, smp.HumIn)
	field(&b, smp.HumOut)
	field(&b, smp.RainRate)
	field(&b, smp.RainDay)
	field(&b, smp.RainMonth)
	field(&b, smp.RainYear)
	field(&b, smp.Solar)
	b.WriteString("\n")

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("append to day file: %w", err)
	}
	return nil
}

// field writes one comma-terminated column, empty when the measurement
// is invalid.
func field(b *strings.Builder, m wx.Measurement) {
	if m.Valid {
		b.WriteString(m.Text())
	}
	b.WriteString(",")
}
