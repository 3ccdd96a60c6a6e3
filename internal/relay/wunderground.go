package relay

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/weather_logger/internal/wx"
)

// Upload protocol: https://support.weather.com/s/article/PWS-Upload-Protocol
const wundergroundURL = "https://rtupdate.wunderground.com/weatherstation/updateweatherstation.php"

// Wunderground uploads samples to Weather Underground's rapid-fire
// endpoint.
type Wunderground struct {
	station  string
	password string
	rtfreq   int
	url      string
	client   *http.Client
	log      *zap.SugaredLogger
}

func NewWunderground(station, password string, rtfreq int, log *zap.SugaredLogger) *Wunderground {
	return &Wunderground{
		station:  station,
		password: password,
		rtfreq:   rtfreq,
		url:      wundergroundURL,
		client:   &http.Client{Timeout: 3 * time.Second},
		log:      log,
	}
}

func (w *Wunderground) Name() string { return "wunderground" }

// Send uploads one sample. Wind is always reported, direction only when
// there was motion; everything else goes out only when valid. The
// service answers "success" in the body, anything else is a rejection.
func (w *Wunderground) Send(smp *wx.Sample) error {
	q := url.Values{}
	q.Set("action", "updateraw")
	q.Set("realtime", "1")
	q.Set("rtfreq", strconv.Itoa(w.rtfreq))
	q.Set("ID", w.station)
	q.Set("PASSWORD", w.password)
	q.Set("dateutc", smp.Time.UTC().Format("2006-01-02 15:04:05"))
	q.Set("softwaretype", softwareName+" v"+softwareVersion)

	q.Set("windspeedmph", strconv.Itoa(smp.Wind.Speed))
	if smp.Wind.Speed != 0 {
		q.Set("winddir", strconv.Itoa(smp.Wind.Direction))
	}
	q.Set("windgustmph", strconv.Itoa(smp.WindGust.Speed))
	if smp.WindGust.Speed != 0 {
		q.Set("windgustdir", strconv.Itoa(smp.WindGust.Direction))
	}
	if smp.TempOut.Valid {
		q.Set("tempf", smp.TempOut.Text())
	}
	if smp.HumOut.Valid {
		q.Set("humidity", smp.HumOut.Text())
	}
	if smp.Dewpoint.Valid {
		q.Set("dewptf", smp.Dewpoint.Text())
	}
	if smp.Barometer.Valid {
		q.Set("baromin", smp.Barometer.Text())
	}
	if smp.RainRate.Valid {
		q.Set("rainin", smp.RainRate.Text())
	}
	if smp.RainDay.Valid {
		q.Set("dailyrainin", smp.RainDay.Text())
	}
	if smp.Solar.Valid {
		q.Set("solarradiation", smp.Solar.Text())
	}

	resp, err := w.client.Get(w.url + "?" + q.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wunderground: status %s", resp.Status)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(body)), "success") {
		return fmt.Errorf("wunderground: %q", strings.TrimSpace(string(body)))
	}

	w.log.Debugw("wunderground upload ok", "station", w.station)
	return nil
}
