package route

import (
	"context"
	"net/http"
	"time"

	"go-docman-client/pkg/model"
)

const heartbeatResource = "Heartbeat"

type Heartbeat struct {
	c *Client
}

func NewHeartbeat(c *Client) *Heartbeat {
	return &Heartbeat{c: c}
}

func (r *Heartbeat) GetServerTime(ctx context.Context) (*model.Response[time.Time], error) {
	return Do[time.Time](ctx, r.c, Request{
		Resource: heartbeatResource, Operation: "GetServerTime",
		Method: http.MethodGet, Path: "/heartbeat/time",
	})
}

// GetConnectionStringName reports which database connection the API is serving from.
func (r *Heartbeat) GetConnectionStringName(ctx context.Context) (*model.Response[string], error) {
	return Do[string](ctx, r.c, Request{
		Resource: heartbeatResource, Operation: "GetConnectionStringName",
		Method: http.MethodGet, Path: "/heartbeat/connection",
	})
}
