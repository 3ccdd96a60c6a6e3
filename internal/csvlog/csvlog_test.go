package csvlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/weather_logger/internal/wx"
)

func m(v float64, places int) wx.Measurement {
	return wx.Measurement{Value: v, Valid: true, Places: places}
}

func fullSample(ts time.Time) *wx.Sample {
	return &wx.Sample{
		Time:         ts,
		Wind:         wx.WindVector{Speed: 5, Direction: 230},
		Barometer:    m(29.921, 3),
		WindSpeed:    m(5, 0),
		WindDir:      m(230, 0),
		AvgWindSpeed: m(7, 0),
		TempIn:       m(72.3, 1),
		TempOut:      m(68.5, 1),
		Dewpoint:     m(52.7, 1),
		HumIn:        m(41, 0),
		HumOut:       m(57, 0),
		RainRate:     m(0.24, 2),
		RainDay:      m(0.12, 2),
		RainMonth:    m(3.45, 2),
		RainYear:     m(22.5, 2),
		Solar:        m(512, 0),
	}
}

func TestAppendWritesDayFile(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)

	ts := time.Date(2026, 3, 7, 14, 30, 0, 0, time.Local)
	require.NoError(t, w.Append(fullSample(ts)))

	data, err := os.ReadFile(filepath.Join(dir, "2026.03.07.csv"))
	require.NoError(t, err)

	want := fmt.Sprintf("1,0,%d,29.921,5,230,7,72.3,68.5,52.7,41,57,0.24,0.12,3.45,22.50,512,\n", ts.Unix())
	assert.Equal(t, want, string(data))
}

func TestAppendEmptyColumnsForInvalid(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)

	ts := time.Date(2026, 3, 7, 2, 0, 0, 0, time.Local)
	require.NoError(t, w.Append(&wx.Sample{Time: ts}))

	data, err := os.ReadFile(filepath.Join(dir, "2026.03.07.csv"))
	require.NoError(t, err)

	want := fmt.Sprintf("1,0,%d,,,,,,,,,,,,,,,\n", ts.Unix())
	assert.Equal(t, want, string(data))
}

// Direction is meaningless without a readable speed, so its column goes
// empty even when the vane reported something.
func TestAppendDirectionNeedsSpeed(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)

	ts := time.Date(2026, 3, 7, 2, 0, 0, 0, time.Local)
	smp := &wx.Sample{Time: ts, WindDir: m(230, 0)}
	require.NoError(t, w.Append(smp))

	data, err := os.ReadFile(filepath.Join(dir, "2026.03.07.csv"))
	require.NoError(t, err)

	want := fmt.Sprintf("1,0,%d,,,,,,,,,,,,,,,\n", ts.Unix())
	assert.Equal(t, want, string(data))
}

func TestAppendAccumulatesRows(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)

	ts := time.Date(2026, 3, 7, 10, 0, 0, 0, time.Local)
	require.NoError(t, w.Append(fullSample(ts)))
	require.NoError(t, w.Append(fullSample(ts.Add(30*time.Second))))

	data, err := os.ReadFile(filepath.Join(dir, "2026.03.07.csv"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))

	// A sample after local midnight starts a new file.
	require.NoError(t, w.Append(fullSample(ts.Add(24*time.Hour))))
	_, err = os.Stat(filepath.Join(dir, "2026.03.08.csv"))
	assert.NoError(t, err)
}
