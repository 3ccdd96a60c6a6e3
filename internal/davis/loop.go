package davis

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/sigurn/crc16"

	"github.com/relabs-tech/weather_logger/internal/wx"
)

// LoopSize is the fixed length of a Vantage LOOP record on the wire.
const LoopSize = 99

// Byte offsets into the LOOP record. Multi-byte fields are little-endian;
// the trailing CRC is the one big-endian exception.
const (
	offBar         = 7  // barometer, thousandths of inHg
	offTempIn      = 9  // indoor temperature, tenths of deg F, signed
	offHumIn       = 11 // indoor humidity, percent
	offTempOut     = 12 // outdoor temperature, tenths of deg F, signed
	offWindSpeed   = 14 // wind speed, mph
	offWindSpeed10 = 15 // 10-minute average wind speed, mph
	offWindDir     = 16 // wind direction, degrees
	offHumOut      = 33 // outdoor humidity, percent
	offRainRate    = 41 // rain rate, hundredths of inch per hour
	offSolar       = 44 // solar radiation, watts per square meter
	offRainDay     = 50 // rain since midnight, hundredths of inch
	offRainMonth   = 52 // rain this month, hundredths of inch
	offRainYear    = 54 // rain this year, hundredths of inch
)

// Sentinels the console stores where a sensor has no data. Temperatures
// additionally have to sit inside (-1500, 1500) tenths to be believed.
const (
	none8    = 0xff
	none16   = 0xffff
	noneTemp = 0x1000
)

var loopSig = []byte("LOO")

var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// checkLoop validates size, signature, and CRC. The console appends the
// CRC big-endian, so running the whole record through the generator must
// come out to zero.
func checkLoop(b []byte) error {
	if len(b) != LoopSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrBadRecord, len(b), LoopSize)
	}
	if !bytes.HasPrefix(b, loopSig) {
		return fmt.Errorf("%w: bad signature %q", ErrBadRecord, b[:3])
	}
	if crc16.Checksum(b, crcTable) != 0 {
		return ErrChecksum
	}
	return nil
}

func get16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off:])
}

func meas(v float64, sys wx.System, places int, unit string) wx.Measurement {
	return wx.Measurement{Value: v, Valid: true, System: sys, Places: places, Unit: unit}
}

// decodeLoop fills smp from a verified record. Every field is gated on
// its own sentinel and range check; a field that fails stays invalid.
// The two derived values come last: the gust window sees the new wind
// reading only when the speed was readable, and the dewpoint follows
// outdoor temperature and humidity.
func decodeLoop(b []byte, smp *wx.Sample, gw *wx.GustWindow) {
	if v := get16(b, offBar); v != none16 {
		smp.Barometer = meas(float64(v)/1000, wx.English, 3, "in")
	}

	if v := b[offWindSpeed]; v != none8 {
		smp.WindSpeed = meas(float64(v), wx.English, 0, "mph")
		smp.Wind.Speed = int(v)
	}
	if v := get16(b, offWindDir); v <= 360 {
		smp.WindDir = meas(float64(v), wx.None, 0, "deg")
		smp.Wind.Direction = int(v)
	}
	if v := b[offWindSpeed10]; v != none8 {
		smp.AvgWindSpeed = meas(float64(v), wx.English, 0, "mph")
		smp.AvgWindInterval = meas(10, wx.None, 0, "min")
		smp.WindAvg.Speed = int(v)
	}
	if smp.WindSpeed.Valid {
		smp.WindGust = gw.Push(smp.Wind)
	}

	if v := int16(get16(b, offTempIn)); v != noneTemp && v > -1500 && v < 1500 {
		smp.TempIn = meas(float64(v)/10, wx.English, 1, "deg F")
	}
	if v := int16(get16(b, offTempOut)); v != noneTemp && v > -1500 && v < 1500 {
		smp.TempOut = meas(float64(v)/10, wx.English, 1, "deg F")
	}
	if v := b[offHumIn]; v != none8 && v <= 100 {
		smp.HumIn = meas(float64(v), wx.None, 0, "%")
	}
	if v := b[offHumOut]; v != none8 && v <= 100 {
		smp.HumOut = meas(float64(v), wx.None, 0, "%")
	}

	if v := get16(b, offRainRate); v != none16 {
		smp.RainRate = meas(float64(v)/100, wx.English, 2, "in/hr")
	}
	if v := get16(b, offSolar); v != none16 {
		smp.Solar = meas(float64(v), wx.Metric, 0, "w/m2")
	}
	if v := get16(b, offRainDay); v != none16 {
		smp.RainDay = meas(float64(v)/100, wx.English, 2, "in")
	}
	if v := get16(b, offRainMonth); v != none16 {
		smp.RainMonth = meas(float64(v)/100, wx.English, 2, "in")
	}
	if v := get16(b, offRainYear); v != none16 {
		smp.RainYear = meas(float64(v)/100, wx.English, 2, "in")
	}

	smp.Dewpoint = wx.Dewpoint(smp.TempOut, smp.HumOut)
}
