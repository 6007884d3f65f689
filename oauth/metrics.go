package oauth

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Flow steps and outcomes used as metric labels.
const (
	stepAuthorize  = "authorization_url"
	stepCredential = "credential"
	stepProfile    = "profile"

	outcomeSuccess    = "success"
	outcomeCredential = "credential_error"
	outcomeTransport  = "http_error"
	outcomeConfig     = "config_error"
	outcomeAbsent     = "absent"
	outcomeOther      = "error"
)

// Metrics collects Prometheus metrics for handshakes. A nil *Metrics
// records nothing.
type Metrics struct {
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beaver_social",
			Name:      "oauth_steps_total",
			Help:      "OAuth handshake steps by provider, step and outcome.",
		}, []string{"provider", "step", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "beaver_social",
			Name:      "oauth_step_duration_seconds",
			Help:      "Latency of OAuth handshake steps.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "step"}),
	}
	for _, c := range []prometheus.Collector{m.steps, m.duration} {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

func (m *Metrics) observe(provider, step, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(provider, step, outcome).Inc()
	m.duration.WithLabelValues(provider, step).Observe(d.Seconds())
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, ErrCredential):
		return outcomeCredential
	case errors.Is(err, ErrTransport):
		return outcomeTransport
	case errors.Is(err, ErrNotInitialized), errors.Is(err, ErrInvalidConfig):
		return outcomeConfig
	}
	return outcomeOther
}
