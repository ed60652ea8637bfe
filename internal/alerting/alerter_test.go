package alerting

import (
	"strings"
	"testing"
	"time"

	"github.com/SunWolf77/SUPT-Dashboard/internal/data"
)

type captureBroadcaster struct {
	alerts []interface{}
}

func (c *captureBroadcaster) BroadcastAlert(alert interface{}) {
	c.alerts = append(c.alerts, alert)
}

func TestProcessBroadcastsActiveAlert(t *testing.T) {
	b := &captureBroadcaster{}
	a := NewAlerter(b)

	now := time.Now()
	snap := &data.Snapshot{
		At:          now,
		Stress:      data.Series{{Timestamp: now, Value: -1.42}},
		AlertActive: true,
		Threshold:   -1.0,
	}

	alert := a.Process(snap)
	if alert == nil {
		t.Fatal("expected an alert for an active snapshot")
	}
	if len(b.alerts) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(b.alerts))
	}
	if alert.Value != -1.42 || alert.Threshold != -1.0 {
		t.Fatalf("unexpected alert payload: %+v", alert)
	}
	if !strings.Contains(alert.Message, "-1.0") {
		t.Fatalf("banner must carry the threshold value, got %q", alert.Message)
	}
}

func TestProcessSkipsInactiveSnapshot(t *testing.T) {
	b := &captureBroadcaster{}
	a := NewAlerter(b)

	snap := &data.Snapshot{
		At:          time.Now(),
		Stress:      data.Series{{Timestamp: time.Now(), Value: -0.2}},
		AlertActive: false,
		Threshold:   -1.0,
	}
	if alert := a.Process(snap); alert != nil {
		t.Fatalf("expected no alert, got %+v", alert)
	}
	if len(b.alerts) != 0 {
		t.Fatalf("expected no broadcasts, got %d", len(b.alerts))
	}
}

func TestProcessHandlesNilAndEmptyStress(t *testing.T) {
	a := NewAlerter(&captureBroadcaster{})

	if alert := a.Process(nil); alert != nil {
		t.Fatal("nil snapshot must not alert")
	}
	snap := &data.Snapshot{AlertActive: true, Threshold: -1.0}
	if alert := a.Process(snap); alert != nil {
		t.Fatal("empty stress series must not alert")
	}
}
