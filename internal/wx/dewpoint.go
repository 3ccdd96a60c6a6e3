package wx

import "math"

// Dewpoint derives the dewpoint from temperature and relative humidity
// using the Magnus-form saturation vapor pressure with the Sonntag 1990
// constants, the approximation Davis documents for its own consoles.
// The result stays in the temperature's unit system. Invalid inputs or a
// non-finite intermediate (humidity at zero) yield an invalid reading.
func Dewpoint(temp, hum Measurement) Measurement {
	if !temp.Valid || !hum.Valid {
		return Measurement{}
	}

	t := temp.Value
	if temp.System == English {
		t = (t - 32.0) * 5.0 / 9.0
	}

	e := hum.Value * 0.01 * 6.112 * math.Exp((17.62*t)/(243.12+t))
	dp := (243.12*math.Log(e) - 440.1) / (19.43 - math.Log(e))
	if math.IsNaN(dp) || math.IsInf(dp, 0) {
		return Measurement{}
	}

	if temp.System == English {
		return Measurement{Value: dp*9.0/5.0 + 32.0, Valid: true, System: English, Places: 1, Unit: "deg F"}
	}
	return Measurement{Value: dp, Valid: true, System: Metric, Places: 1, Unit: "deg C"}
}
