// Package metrics holds the Prometheus collectors for DocMan client calls.
package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder counts and times service calls. A nil Recorder records nothing.
type Recorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New builds the client collectors and registers them on reg. Registering
// twice on the same registry reuses the collectors already there. A nil reg
// leaves them unexported.
func New(reg prometheus.Registerer) (*Recorder, error) {
	factory := promauto.With(nil)

	r := &Recorder{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docman_client_requests_total",
				Help: "DocMan API calls by resource, method and response status.",
			},
			[]string{"resource", "method", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docman_client_request_duration_seconds",
				Help:    "Latency of DocMan API calls in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource", "method"},
		),
	}

	if reg == nil {
		return r, nil
	}

	if err := reg.Register(r.requests); err != nil {
		existing, ok := alreadyRegistered[*prometheus.CounterVec](err)
		if !ok {
			return nil, fmt.Errorf("register requests counter: %w", err)
		}
		r.requests = existing
	}
	if err := reg.Register(r.duration); err != nil {
		existing, ok := alreadyRegistered[*prometheus.HistogramVec](err)
		if !ok {
			return nil, fmt.Errorf("register duration histogram: %w", err)
		}
		r.duration = existing
	}

	return r, nil
}

func alreadyRegistered[C prometheus.Collector](err error) (C, bool) {
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		existing, ok := are.ExistingCollector.(C)
		return existing, ok
	}
	var zero C
	return zero, false
}

// Observe records one call. Status 0 means the request never got a response.
func (r *Recorder) Observe(resource, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}

	label := strconv.Itoa(status)
	if status == 0 {
		label = "transport_error"
	}

	r.requests.WithLabelValues(resource, method, label).Inc()
	r.duration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
}
