package wx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sonntagDewpointC is the reference the implementation must agree with,
// evaluated independently here in Celsius.
func sonntagDewpointC(tempC, rh float64) float64 {
	e := rh * 0.01 * 6.112 * math.Exp((17.62*tempC)/(243.12+tempC))
	return (243.12*math.Log(e) - 440.1) / (19.43 - math.Log(e))
}

func TestDewpointFahrenheit(t *testing.T) {
	temp := Measurement{Value: 70, Valid: true, System: English, Places: 1, Unit: "deg F"}
	hum := Measurement{Value: 50, Valid: true, Places: 0, Unit: "%"}

	got := Dewpoint(temp, hum)
	require.True(t, got.Valid)
	assert.Equal(t, English, got.System)
	assert.Equal(t, 1, got.Places)
	assert.Equal(t, "deg F", got.Unit)

	wantC := sonntagDewpointC((70-32)*5/9, 50)
	assert.InDelta(t, wantC*9/5+32, got.Value, 1e-9)

	// Sanity: 70F at 50% RH sits near 50F.
	assert.InDelta(t, 50.5, got.Value, 0.5)
}

func TestDewpointCelsius(t *testing.T) {
	temp := Measurement{Value: 21.0, Valid: true, System: Metric, Places: 1, Unit: "deg C"}
	hum := Measurement{Value: 65, Valid: true, Places: 0, Unit: "%"}

	got := Dewpoint(temp, hum)
	require.True(t, got.Valid)
	assert.Equal(t, Metric, got.System)
	assert.Equal(t, "deg C", got.Unit)
	assert.InDelta(t, sonntagDewpointC(21.0, 65), got.Value, 1e-9)
}

func TestDewpointSaturatedAirMatchesTemperature(t *testing.T) {
	temp := Measurement{Value: 15.0, Valid: true, System: Metric, Places: 1, Unit: "deg C"}
	hum := Measurement{Value: 100, Valid: true, Places: 0, Unit: "%"}

	got := Dewpoint(temp, hum)
	require.True(t, got.Valid)
	assert.InDelta(t, 15.0, got.Value, 0.1)
}

func TestDewpointInvalidInputs(t *testing.T) {
	valid := Measurement{Value: 70, Valid: true, System: English}
	invalid := Measurement{}

	assert.False(t, Dewpoint(invalid, valid).Valid)
	assert.False(t, Dewpoint(valid, invalid).Valid)
	assert.False(t, Dewpoint(invalid, invalid).Valid)
}

// Zero humidity drives the vapor pressure to zero and the formula off
// the rails; the result must be flagged, not published as a number.
func TestDewpointZeroHumidity(t *testing.T) {
	temp := Measurement{Value: 70, Valid: true, System: English}
	hum := Measurement{Value: 0, Valid: true}

	assert.False(t, Dewpoint(temp, hum).Valid)
}
