// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package wx

import (
	"strconv"
	"time"
)

// System tags which unit family a measurement belongs to. Fields like
// wind direction or humidity carry no family at all.
type System string

const (
	None    System = ""
	English System = "english"
	Metric  System = "metric"
)

// Measurement is a single optionally-absent station reading. When Valid
// is false the other fields are meaningless and must not be read.
type Measurement struct {
	Value  float64 `json:"value"`
	Valid  bool    `json:"valid"`
	System System  `json:"system,omitempty"`
	Places int     `json:"places"` // the station's native scaling, not precision
	Unit   string  `json:"unit,omitempty"`
}

// Text renders the value with the station's native number of decimals.
func (m Measurement) Text() string {
	return strconv.FormatFloat(m.Value, 'f', m.Places, 64)
}

// WindVector pairs a wind speed with the direction it blew from.
type WindVector struct {
	Speed     int `json:"speed"`     // mph
	Direction int `json:"direction"` // degrees, 0-360
}

// Sample is everything one acquisition cycle learned, suitable for JSON
// and MQTT. A fresh Sample starts with every measurement invalid; the
// decoder fills in only the fields whose raw values pass their checks,
// and nothing is carried over between cycles.
type Sample struct {
	Time time.Time `json:"time"`

	Wind     WindVector `json:"wind"`      // as of this sample
	WindAvg  WindVector `json:"wind_avg"`  // 10-minute average, direction unknown
	WindGust WindVector `json:"wind_gust"` // strongest in the last 10 minutes

	Barometer       Measurement `json:"barometer"`         // in
	WindSpeed       Measurement `json:"wind_speed"`        // mph
	WindDir         Measurement `json:"wind_dir"`          // deg
	AvgWindSpeed    Measurement `json:"avg_wind_speed"`    // mph
	AvgWindInterval Measurement `json:"avg_wind_interval"` // min
	TempIn          Measurement `json:"temp_in"`           // deg F
	TempOut         Measurement `json:"temp_out"`          // deg F
	HumIn           Measurement `json:"hum_in"`            // %
	HumOut          Measurement `json:"hum_out"`           // %
	Dewpoint        Measurement `json:"dewpoint"`          // deg F, derived
	RainRate        Measurement `json:"rain_rate"`         // in/hr
	RainDay         Measurement `json:"rain_day"`          // in
	RainMonth       Measurement `json:"rain_month"`        // in
	RainYear        Measurement `json:"rain_year"`         // in
	Solar           Measurement `json:"solar"`             // w/m2
}
