// internal/data/models.go
package data

import "time"

// Sample is a single timestamped reading from a feed. Immutable once fetched.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Series is a sequence of samples ordered by timestamp ascending.
type Series []Sample

// Latest returns the newest sample and true, or a zero sample and false
// when the series is empty.
func (s Series) Latest() (Sample, bool) {
	if len(s) == 0 {
		return Sample{}, false
	}
	return s[len(s)-1], true
}

// SolarWind is the most recent DSCOVR/SWPC plasma reading.
// PsiS is the ψₛ coupling factor: speed normalized to 800 km/s, clamped to [0, 1].
type SolarWind struct {
	Timestamp   time.Time `json:"timestamp"`
	Speed       float64   `json:"speed"`       // km/s
	Density     float64   `json:"density"`     // protons/cm³
	Temperature float64   `json:"temperature"` // K
	PsiS        float64   `json:"psi_s"`
}

// QuakeEvent is one earthquake from the USGS catalog.
type QuakeEvent struct {
	Time      time.Time `json:"time"`
	Magnitude float64   `json:"magnitude"`
	DepthKM   float64   `json:"depth_km"`
	Place     string    `json:"place"`
}

// Snapshot is the complete result of one refresh cycle. Each cycle builds a
// fresh Snapshot from the fetch results; nothing is mutated in place.
type Snapshot struct {
	At          time.Time    `json:"at"`
	Solar       SolarWind    `json:"solar"`
	SolarLive   bool         `json:"solar_live"` // false when the fallback reading is in use
	Kp          float64      `json:"kp"`
	Drift       Series       `json:"drift"`
	Stress      Series       `json:"stress"`
	Quakes      []QuakeEvent `json:"quakes"`
	EII         float64      `json:"eii"`
	Phase       string       `json:"phase"`
	AlertActive bool         `json:"alert_active"`
	Threshold   float64      `json:"threshold"`
}

// Alert is the banner payload pushed to connected dashboard clients.
type Alert struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  string    `json:"severity"` // e.g. "WARN", "CRITICAL"
	Message   string    `json:"message"`
	Metric    string    `json:"metric"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
}
