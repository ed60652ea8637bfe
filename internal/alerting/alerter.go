// internal/alerting/alerter.go
package alerting

import (
	"fmt"
	"log"

	"github.com/SunWolf77/SUPT-Dashboard/internal/data"
)

// Broadcaster delivers alert payloads to connected dashboard clients.
type Broadcaster interface {
	BroadcastAlert(alert interface{})
}

// Alerter turns an alerting snapshot into the banner pushed to the dashboard.
// The alert state itself is recomputed every cycle by the evaluator; the
// alerter only renders and delivers it.
type Alerter struct {
	broadcaster Broadcaster
}

func NewAlerter(b Broadcaster) *Alerter {
	return &Alerter{broadcaster: b}
}

// Process inspects a refresh snapshot and, when its alert state is active,
// broadcasts the banner. Returns the alert that was sent, or nil.
func (a *Alerter) Process(snap *data.Snapshot) *data.Alert {
	if snap == nil || !snap.AlertActive {
		return nil
	}

	latest, ok := snap.Stress.Latest()
	if !ok {
		// AlertActive without a stress sample should not happen; the
		// evaluator never alerts on an empty series.
		return nil
	}

	alert := &data.Alert{
		Timestamp: snap.At,
		Severity:  "WARN",
		Metric:    "stress_k",
		Value:     latest.Value,
		Threshold: snap.Threshold,
		Message: fmt.Sprintf("Stress k(ΔΦ) %.3f dropped below ZFCM threshold %.1f",
			latest.Value, snap.Threshold),
	}

	log.Printf("ALERT: %s", alert.Message)
	if a.broadcaster != nil {
		a.broadcaster.BroadcastAlert(alert)
	}
	return alert
}
