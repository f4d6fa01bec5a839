package service

import (
	"context"
	"time"

	"go-docman-client/pkg/model"
)

const heartbeatResource = "Heartbeat"

type HeartbeatRoutes interface {
	GetServerTime(ctx context.Context) (*model.Response[time.Time], error)
	GetConnectionStringName(ctx context.Context) (*model.Response[string], error)
}

type HeartbeatService struct {
	routes HeartbeatRoutes
	obs    *Observer
}

func NewHeartbeatService(routes HeartbeatRoutes, obs *Observer) *HeartbeatService {
	return &HeartbeatService{routes: routes, obs: obs}
}

func (s *HeartbeatService) GetServerTime(ctx context.Context) (*model.Response[time.Time], error) {
	return observe(ctx, s.obs, heartbeatResource, "GetServerTime", func() (*model.Response[time.Time], error) {
		return s.routes.GetServerTime(ctx)
	})
}

func (s *HeartbeatService) GetConnectionStringName(ctx context.Context) (*model.Response[string], error) {
	return observe(ctx, s.obs, heartbeatResource, "GetConnectionStringName", func() (*model.Response[string], error) {
		return s.routes.GetConnectionStringName(ctx)
	})
}
