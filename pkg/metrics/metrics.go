// Package metrics records wizard navigation outcomes with Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-intake/pkg/navigator"
	"github.com/goliatone/go-intake/pkg/validation"
)

// Outcome label values for intake_step_submissions_total.
const (
	OutcomeAdvanced = "advanced"
	OutcomeBlocked  = "blocked"
)

// Recorder implements navigator.Recorder with Prometheus counters.
type Recorder struct {
	submissions *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
	backs       *prometheus.CounterVec
}

var _ navigator.Recorder = (*Recorder)(nil)

// NewRecorder creates the counters and registers them with reg. A nil reg
// leaves the counters unregistered, which is convenient in tests.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "step_submissions_total",
			Help:      "Next actions per step, by outcome.",
		}, []string{"step", "outcome"}),
		fieldErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "field_errors_total",
			Help:      "Field validation failures reported on Next.",
		}, []string{"step", "field"}),
		backs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "step_back_total",
			Help:      "Back actions per step.",
		}, []string{"step"}),
	}
	if reg == nil {
		return r, nil
	}
	for _, c := range []prometheus.Collector{r.submissions, r.fieldErrors, r.backs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Submitted counts one Next action and every failing field.
func (r *Recorder) Submitted(step string, errs validation.Errors) {
	if len(errs) == 0 {
		r.submissions.WithLabelValues(step, OutcomeAdvanced).Inc()
		return
	}
	r.submissions.WithLabelValues(step, OutcomeBlocked).Inc()
	for field := range errs {
		r.fieldErrors.WithLabelValues(step, field).Inc()
	}
}

// WentBack counts one Back action.
func (r *Recorder) WentBack(step string) {
	r.backs.WithLabelValues(step).Inc()
}
