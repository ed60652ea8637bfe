// internal/feeds/client.go
package feeds

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/SunWolf77/SUPT-Dashboard/internal/config"
	"github.com/SunWolf77/SUPT-Dashboard/internal/data"
	"github.com/SunWolf77/SUPT-Dashboard/internal/metrics"
)

const maxFeedBody = 8 << 20 // none of the feeds legitimately exceed a few MB

// FallbackKp is reported when the Kp feed is unreachable.
const FallbackKp = 1.0

// FallbackSolarWind is the continuity reading used when every plasma endpoint
// fails. Matches the values the live feeds idle around during quiet conditions.
var FallbackSolarWind = data.SolarWind{Speed: 400, Density: 5.0, Temperature: 0, PsiS: 0.5}

// Client fetches the NOAA/SWPC and USGS feeds. Fetch failures are logged and
// counted, never returned as errors: callers always receive a usable (possibly
// empty or fallback) result, per the evaluator's input contract.
type Client struct {
	http *http.Client
	cfg  *config.Config
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http: &http.Client{Timeout: cfg.Feeds.Timeout},
		cfg:  cfg,
	}
}

// Plasma fetches the solar-wind plasma feed, trying each configured endpoint
// in order. It returns the ΔΦ drift series (per-sample speed) and the latest
// full reading. If every endpoint fails the drift series is empty, the
// reading is FallbackSolarWind, and ok is false.
func (c *Client) Plasma(ctx context.Context) (drift data.Series, latest data.SolarWind, ok bool) {
	for _, endpoint := range c.cfg.Feeds.PlasmaURLs {
		body, err := c.get(ctx, "plasma", endpoint)
		if err != nil {
			log.Printf("plasma fetch failed for %s: %v", endpoint, err)
			continue
		}
		drift, latest, err = data.ParsePlasma(body)
		if err != nil {
			log.Printf("plasma parse failed for %s: %v", endpoint, err)
			continue
		}
		return drift, latest, true
	}
	log.Printf("all plasma endpoints unavailable, using fallback reading")
	return nil, FallbackSolarWind, false
}

// KpIndex fetches the latest planetary Kp index, or FallbackKp on failure.
func (c *Client) KpIndex(ctx context.Context) float64 {
	body, err := c.get(ctx, "kp", c.cfg.Feeds.KpURL)
	if err != nil {
		log.Printf("kp fetch failed: %v, defaulting to %.1f", err, FallbackKp)
		return FallbackKp
	}
	kp, err := data.ParseKpIndex(body)
	if err != nil {
		log.Printf("kp parse failed: %v, defaulting to %.1f", err, FallbackKp)
		return FallbackKp
	}
	return kp
}

// Quakes fetches recent earthquakes from the USGS catalog. On failure it
// returns an empty slice; the dashboard renders "no seismic data" rather
// than a synthetic dataset.
func (c *Client) Quakes(ctx context.Context) []data.QuakeEvent {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -c.cfg.Feeds.QuakeDays)

	q := url.Values{}
	q.Set("format", "geojson")
	q.Set("starttime", start.Format("2006-01-02"))
	q.Set("endtime", end.Format("2006-01-02"))
	q.Set("minmagnitude", fmt.Sprintf("%g", c.cfg.Feeds.MinMag))

	body, err := c.get(ctx, "usgs", c.cfg.Feeds.USGSURL+"?"+q.Encode())
	if err != nil {
		log.Printf("usgs fetch failed: %v", err)
		return nil
	}
	events, err := data.ParseQuakes(body)
	if err != nil {
		log.Printf("usgs parse failed: %v", err)
		return nil
	}
	return events
}

func (c *Client) get(ctx context.Context, feed, endpoint string) ([]byte, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.FeedFetches.WithLabelValues(feed, outcome).Inc()
		metrics.FetchDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBody))
	if err != nil {
		return nil, err
	}
	outcome = "success"
	return body, nil
}
