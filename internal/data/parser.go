// internal/data/parser.go
package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// PsiScale normalizes solar-wind speed (km/s) into the ψₛ coupling factor.
const PsiScale = 800.0

// ErrEmptyFeed is returned when a feed body decodes but carries no usable rows.
var ErrEmptyFeed = errors.New("feed returned no usable rows")

// swpcTimeLayouts covers the timestamp formats seen across SWPC products.
var swpcTimeLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParsePlasma decodes a SWPC solar-wind plasma body: a JSON array of string
// arrays whose first row is the header [time_tag, density, speed, temperature].
// It returns the drift series (per-sample speed, ascending by time) and the
// latest complete reading. Rows with "n/a", non-numeric or non-finite cells
// are dropped rather than propagated.
func ParsePlasma(raw []byte) (Series, SolarWind, error) {
	var rows [][]string
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, SolarWind{}, fmt.Errorf("plasma feed: %w", err)
	}
	if len(rows) < 2 {
		return nil, SolarWind{}, fmt.Errorf("plasma feed: %w", ErrEmptyFeed)
	}

	var (
		drift  Series
		latest SolarWind
	)
	for _, row := range rows[1:] {
		if len(row) < 4 {
			continue
		}
		ts, ok := parseSWPCTime(row[0])
		if !ok {
			continue
		}
		density, okD := parseCell(row[1])
		speed, okS := parseCell(row[2])
		temp, okT := parseCell(row[3])
		if !okS {
			continue
		}
		drift = append(drift, Sample{Timestamp: ts, Value: speed})
		if okD && okT {
			latest = SolarWind{
				Timestamp:   ts,
				Speed:       speed,
				Density:     density,
				Temperature: temp,
				PsiS:        clamp01(speed / PsiScale),
			}
		}
	}
	if len(drift) == 0 {
		return nil, SolarWind{}, fmt.Errorf("plasma feed: %w", ErrEmptyFeed)
	}
	return drift, latest, nil
}

// ParseKpIndex decodes the NOAA planetary K-index body (same tabular shape as
// the plasma product) and returns the most recent Kp value.
func ParseKpIndex(raw []byte) (float64, error) {
	var rows [][]string
	if err := json.Unmarshal(raw, &rows); err != nil {
		return 0, fmt.Errorf("kp feed: %w", err)
	}
	for i := len(rows) - 1; i >= 1; i-- {
		if len(rows[i]) < 2 {
			continue
		}
		if kp, ok := parseCell(rows[i][1]); ok {
			return kp, nil
		}
	}
	return 0, fmt.Errorf("kp feed: %w", ErrEmptyFeed)
}

// usgsResponse mirrors the subset of the USGS GeoJSON catalog we read.
type usgsResponse struct {
	Features []struct {
		Properties struct {
			Time  int64    `json:"time"` // milliseconds since epoch
			Mag   *float64 `json:"mag"`
			Place string   `json:"place"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // lon, lat, depth km
		} `json:"geometry"`
	} `json:"features"`
}

// ParseQuakes decodes a USGS earthquake catalog body into events, oldest
// first. Features with a missing or non-finite magnitude or depth are dropped.
func ParseQuakes(raw []byte) ([]QuakeEvent, error) {
	var resp usgsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("usgs feed: %w", err)
	}

	events := make([]QuakeEvent, 0, len(resp.Features))
	for _, f := range resp.Features {
		if f.Properties.Mag == nil || !isFinite(*f.Properties.Mag) {
			continue
		}
		if len(f.Geometry.Coordinates) < 3 || !isFinite(f.Geometry.Coordinates[2]) {
			continue
		}
		events = append(events, QuakeEvent{
			Time:      time.UnixMilli(f.Properties.Time).UTC(),
			Magnitude: *f.Properties.Mag,
			DepthKM:   f.Geometry.Coordinates[2],
			Place:     f.Properties.Place,
		})
	}

	// USGS returns newest first; the dashboard wants ascending time.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

func parseSWPCTime(cell string) (time.Time, bool) {
	for _, layout := range swpcTimeLayouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseCell converts one tabular cell to a finite float. SWPC uses "n/a" for
// gaps in instrument coverage.
func parseCell(cell string) (float64, bool) {
	if cell == "" || cell == "n/a" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
