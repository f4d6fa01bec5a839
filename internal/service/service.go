// Package service wraps the DocMan route contracts with logging, metrics and
// call events. Wrappers never alter what the route returns.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"go-docman-client/internal/event"
	"go-docman-client/internal/metrics"
	"go-docman-client/internal/route"
	"go-docman-client/pkg/model"
)

// Observer is shared by all wrappers built from one registration.
type Observer struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	bus     event.Bus
	now     func() time.Time
}

// NewObserver accepts nil for any collaborator it should skip.
func NewObserver(logger *slog.Logger, recorder *metrics.Recorder, bus event.Bus) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{
		logger:  logger.With(slog.String("component", "docman_service")),
		metrics: recorder,
		bus:     bus,
		now:     time.Now,
	}
}

// observe runs call and reports its outcome. The envelope and error are
// returned exactly as the route produced them.
func observe[T any](ctx context.Context, o *Observer, resource, method string, call func() (*model.Response[T], error)) (*model.Response[T], error) {
	started := o.now()
	resp, err := call()
	elapsed := o.now().Sub(started)

	var status int
	var requestID string
	if resp != nil {
		status = resp.StatusCode
		requestID = resp.Headers.Get(route.RequestIDHeader)
	}

	o.metrics.Observe(resource, method, status, elapsed)

	e := event.Event{
		ID:        uuid.NewString(),
		Type:      event.TypeCallSucceeded,
		Timestamp: started,
		Payload: event.Call{
			Resource:   resource,
			Method:     method,
			StatusCode: status,
			RequestID:  requestID,
			Duration:   elapsed,
		},
	}

	if err != nil {
		o.logger.ErrorContext(ctx, "docman call failed",
			"resource", resource,
			"method", method,
			"status", status,
			"request_id", requestID,
			"error", err.Error(),
		)
		e.Type = event.TypeCallFailed
		e.Payload.Error = err.Error()
	} else {
		o.logger.DebugContext(ctx, "docman call",
			"resource", resource,
			"method", method,
			"status", status,
			"request_id", requestID,
			"duration_ms", elapsed.Milliseconds(),
		)
	}

	if o.bus != nil {
		o.bus.Publish(e)
	}

	return resp, err
}
