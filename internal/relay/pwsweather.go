package relay

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/weather_logger/internal/wx"
)

const pwsWeatherURL = "https://pwsupdate.pwsweather.com/api/v1/submitwx"

// PWSWeather uploads samples to the PWSweather.com network. The
// parameter names match Weather Underground's protocol, which the
// service adopted.
type PWSWeather struct {
	station  string
	password string
	url      string
	client   *http.Client
	log      *zap.SugaredLogger
}

func NewPWSWeather(station, password string, log *zap.SugaredLogger) *PWSWeather {
	return &PWSWeather{
		station:  station,
		password: password,
		url:      pwsWeatherURL,
		client:   &http.Client{Timeout: 3 * time.Second},
		log:      log,
	}
}

func (p *PWSWeather) Name() string { return "pwsweather" }

func (p *PWSWeather) Send(smp *wx.Sample) error {
	q := url.Values{}
	q.Set("action", "updateraw")
	q.Set("ID", p.station)
	q.Set("PASSWORD", p.password)
	q.Set("dateutc", smp.Time.UTC().Format("2006-01-02 15:04:05"))
	q.Set("softwaretype", softwareName+" v"+softwareVersion)

	q.Set("windspeedmph", strconv.Itoa(smp.Wind.Speed))
	if smp.Wind.Speed != 0 {
		q.Set("winddir", strconv.Itoa(smp.Wind.Direction))
	}
	q.Set("windgustmph", strconv.Itoa(smp.WindGust.Speed))
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

	resp, err := p.client.Get(p.url + "?" + q.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 256))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pwsweather: status %s", resp.Status)
	}

	p.log.Debugw("pwsweather upload ok", "station", p.station)
	return nil
}
