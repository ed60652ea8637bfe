// internal/stress/evaluator.go
package stress

import (
	"math"

	"github.com/SunWolf77/SUPT-Dashboard/internal/config"
	"github.com/SunWolf77/SUPT-Dashboard/internal/data"
)

// Phase labels for the RPAM state derived from the instability index.
const (
	PhaseActive     = "ACTIVE – Collapse Window Initiated"
	PhaseElevated   = "ELEVATED – Pressure Coupling"
	PhaseMonitoring = "MONITORING"
)

// Evaluator computes the k(ΔΦ) stress series from the solar-wind drift
// series and classifies the latest value against the ZFCM threshold.
// All methods are pure; the evaluator holds no state between refreshes.
type Evaluator struct {
	threshold  float64
	driftScale float64
	shallowKM  float64
}

func NewEvaluator(cfg *config.Config) *Evaluator {
	return &Evaluator{
		threshold:  cfg.Stress.Threshold,
		driftScale: cfg.Stress.DriftScale,
		shallowKM:  cfg.Stress.ShallowDepthKM,
	}
}

// Threshold returns the fixed alert threshold.
func (e *Evaluator) Threshold() float64 { return e.threshold }

// Transform maps one drift value to its stress value:
// k(ΔΦ) = log10(v / driftScale). Deterministic; non-finite for v <= 0.
func (e *Evaluator) Transform(v float64) float64 {
	return math.Log10(v / e.driftScale)
}

// EvaluateSeries produces the stress series parallel to the drift input:
// same timestamps, value = Transform(value). Samples whose input or
// transformed value is not finite are excluded. An empty input yields an
// empty output; this never fails.
func (e *Evaluator) EvaluateSeries(drift data.Series) data.Series {
	out := make(data.Series, 0, len(drift))
	for _, s := range drift {
		if !isFinite(s.Value) {
			continue
		}
		k := e.Transform(s.Value)
		if !isFinite(k) {
			continue
		}
		out = append(out, data.Sample{Timestamp: s.Timestamp, Value: k})
	}
	return out
}

// AlertState reports whether the latest stress value is below the threshold.
// An empty series never alerts. A value exactly at the threshold does not alert.
func (e *Evaluator) AlertState(stress data.Series) bool {
	latest, ok := stress.Latest()
	if !ok {
		return false
	}
	return latest.Value < e.threshold
}

// EII computes the Energetic Instability Index from the recent quake set,
// the ψₛ coupling factor and the planetary Kp index:
//
//	clamp((magMean*0.25 + shallowRatio*0.35 + ψₛ*0.25 + kp*0.15) / 2, 0, 1)
//
// An empty quake set yields 0.
func (e *Evaluator) EII(quakes []data.QuakeEvent, psiS, kp float64) float64 {
	if len(quakes) == 0 {
		return 0
	}
	var magSum float64
	var shallow int
	for _, q := range quakes {
		magSum += q.Magnitude
		if q.DepthKM < e.shallowKM {
			shallow++
		}
	}
	magMean := magSum / float64(len(quakes))
	shallowRatio := float64(shallow) / float64(len(quakes))
	eii := (magMean*0.25 + shallowRatio*0.35 + psiS*0.25 + kp*0.15) / 2
	if eii < 0 {
		return 0
	}
	if eii > 1 {
		return 1
	}
	return eii
}

// Phase maps an instability index to its RPAM phase label.
func (e *Evaluator) Phase(eii float64) string {
	switch {
	case eii >= 0.85:
		return PhaseActive
	case eii >= 0.6:
		return PhaseElevated
	default:
		return PhaseMonitoring
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
