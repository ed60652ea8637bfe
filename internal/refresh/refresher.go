// internal/refresh/refresher.go
package refresh

import (
	"context"
	"log"
	"time"

	"github.com/SunWolf77/SUPT-Dashboard/internal/alerting"
	"github.com/SunWolf77/SUPT-Dashboard/internal/data"
	"github.com/SunWolf77/SUPT-Dashboard/internal/metrics"
	"github.com/SunWolf77/SUPT-Dashboard/internal/storage"
	"github.com/SunWolf77/SUPT-Dashboard/internal/stress"
)

// FeedSource provides the three upstream feeds. Implementations never fail:
// they return empty or fallback values on fetch errors.
type FeedSource interface {
	Plasma(ctx context.Context) (data.Series, data.SolarWind, bool)
	KpIndex(ctx context.Context) float64
	Quakes(ctx context.Context) []data.QuakeEvent
}

// SnapshotBroadcaster pushes refresh snapshots to connected clients.
type SnapshotBroadcaster interface {
	BroadcastSnapshot(snap interface{})
}

// Refresher runs the fetch → compute → publish cycle. Each cycle runs to
// completion before the next begins; the snapshot ring is the only state
// carried between cycles.
type Refresher struct {
	feeds       FeedSource
	eval        *stress.Evaluator
	store       *storage.SnapshotStore
	broadcaster SnapshotBroadcaster
	alerter     *alerting.Alerter
	interval    time.Duration
	trigger     chan chan *data.Snapshot
}

func NewRefresher(src FeedSource, eval *stress.Evaluator, store *storage.SnapshotStore,
	b SnapshotBroadcaster, alerter *alerting.Alerter, interval time.Duration) *Refresher {
	return &Refresher{
		feeds:       src,
		eval:        eval,
		store:       store,
		broadcaster: b,
		alerter:     alerter,
		interval:    interval,
		trigger:     make(chan chan *data.Snapshot),
	}
}

// Run executes one cycle immediately, then one per interval until the context
// is cancelled. Manual triggers run between ticks, never concurrently.
func (r *Refresher) Run(ctx context.Context) {
	r.Cycle(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Cycle(ctx)
		case reply := <-r.trigger:
			reply <- r.Cycle(ctx)
		}
	}
}

// TriggerNow requests an immediate cycle from the Run loop and waits for its
// snapshot. Returns nil if the refresher is shutting down.
func (r *Refresher) TriggerNow(ctx context.Context) *data.Snapshot {
	reply := make(chan *data.Snapshot, 1)
	select {
	case r.trigger <- reply:
		return <-reply
	case <-ctx.Done():
		return nil
	}
}

// Cycle performs one synchronous fetch-compute-publish pass and returns the
// resulting snapshot. It never fails: feed errors surface as empty series and
// the evaluator is total over them.
func (r *Refresher) Cycle(ctx context.Context) *data.Snapshot {
	start := time.Now()

	drift, solar, solarLive := r.feeds.Plasma(ctx)
	kp := r.feeds.KpIndex(ctx)
	quakes := r.feeds.Quakes(ctx)

	stressSeries := r.eval.EvaluateSeries(drift)
	eii := r.eval.EII(quakes, solar.PsiS, kp)

	snap := &data.Snapshot{
		At:          time.Now().UTC(),
		Solar:       solar,
		SolarLive:   solarLive,
		Kp:          kp,
		Drift:       drift,
		Stress:      stressSeries,
		Quakes:      quakes,
		EII:         eii,
		Phase:       r.eval.Phase(eii),
		AlertActive: r.eval.AlertState(stressSeries),
		Threshold:   r.eval.Threshold(),
	}

	r.store.Add(snap)
	r.publish(snap)

	outcome := "partial"
	if solarLive {
		outcome = "success"
	}
	metrics.RefreshCycles.WithLabelValues(outcome).Inc()
	log.Printf("refresh cycle done in %s: drift=%d stress=%d quakes=%d kp=%.2f eii=%.3f phase=%q alert=%v",
		time.Since(start).Round(time.Millisecond), len(drift), len(stressSeries),
		len(quakes), kp, eii, snap.Phase, snap.AlertActive)
	return snap
}

func (r *Refresher) publish(snap *data.Snapshot) {
	metrics.LatestEII.Set(snap.EII)
	metrics.LatestKp.Set(snap.Kp)
	if latest, ok := snap.Stress.Latest(); ok {
		metrics.LatestStress.Set(latest.Value)
	}
	if snap.AlertActive {
		metrics.AlertActive.Set(1)
	} else {
		metrics.AlertActive.Set(0)
	}

	if r.broadcaster != nil {
		r.broadcaster.BroadcastSnapshot(snap)
	}
	if r.alerter != nil {
		r.alerter.Process(snap)
	}
}
