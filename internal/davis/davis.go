// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package davis speaks the serial protocol of Davis Vantage Pro and
// Vantage Pro2 weather consoles: waking the console, exchanging
// ACK-framed commands, and decoding the binary LOOP telemetry record
// into station-independent measurements.
package davis

import (
	"errors"
	"time"
)

// Protocol failures callers can test for with errors.Is. Everything else
// that goes wrong is an OS or serial stack failure and arrives wrapped
// with its context.
var (
	ErrDeviceBusy         = errors.New("serial device busy")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrTimeout            = errors.New("station did not answer in time")
	ErrChecksum           = errors.New("loop record checksum mismatch")
	ErrBadRecord          = errors.New("malformed loop record")
	ErrUnsupportedStation = errors.New("unsupported station type")
)

const (
	// The console's fixed line speed.
	baudRate = 19200

	// ack is how the console confirms a command.
	ack = 0x06

	// Bounds on a single deadline read.
	maxReadLen     = 256
	maxReadTimeout = 30 * time.Second

	wakeAttempts = 4
	wakeTimeout  = 5 * time.Second
	ackAttempts  = 5
	ackTimeout   = 1 * time.Second

	identTimeout = 5 * time.Second
	loopTimeout  = 10 * time.Second

	cmdIdent = "WRD\x12\x4d\r"
	cmdLoop  = "LOOP 01\n"
)

// Station type codes reported by the WRD command.
const (
	ModelWizardIII  = 0x00
	ModelWizardII   = 0x01
	ModelMonitor    = 0x02
	ModelPerception = 0x03
	ModelGroWeather = 0x04
	ModelEnergyEnv  = 0x05
	ModelHealthEnv  = 0x06
	ModelVantagePro = 0x10
)

// ModelName translates a WRD station type code for log and console output.
func ModelName(code byte) string {
	switch code {
	case ModelWizardIII:
		return "Wizard III"
	case ModelWizardII:
		return "Wizard II"
	case ModelMonitor:
		return "Monitor"
	case ModelPerception:
		return "Perception"
	case ModelGroWeather:
		return "GroWeather"
	case ModelEnergyEnv:
		return "Energy Enviromonitor"
	case ModelHealthEnv:
		return "Health Enviromonitor"
	case ModelVantagePro:
		return "Vantage Pro/Pro2"
	}
	return "unknown"
}
