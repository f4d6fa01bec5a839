package service

import (
	"context"

	"go-docman-client/pkg/model"
)

const (
	fileViewAuditResource           = "FileViewAudit"
	originalFileDeleteAuditResource = "OriginalFileDeleteAudit"
)

type FileViewAuditRoutes interface {
	Insert(ctx context.Context, audit model.FileViewAudit) (*model.Response[model.NoContent], error)
}

type FileViewAuditService struct {
	routes FileViewAuditRoutes
	obs    *Observer
}

func NewFileViewAuditService(routes FileViewAuditRoutes, obs *Observer) *FileViewAuditService {
	return &FileViewAuditService{routes: routes, obs: obs}
}

func (s *FileViewAuditService) Insert(ctx context.Context, audit model.FileViewAudit) (*model.Response[model.NoContent], error) {
	return observe(ctx, s.obs, fileViewAuditResource, "Insert", func() (*model.Response[model.NoContent], error) {
		return s.routes.Insert(ctx, audit)
	})
}

type OriginalFileDeleteAuditRoutes interface {
	Insert(ctx context.Context, audit model.OriginalFileDeleteAudit) (*model.Response[model.NoContent], error)
	PhysicalDelete(ctx context.Context, fhClaimNumber string, fileName string) (*model.Response[model.NoContent], error)
}

type OriginalFileDeleteAuditService struct {
	routes OriginalFileDeleteAuditRoutes
	obs    *Observer
}

func NewOriginalFileDeleteAuditService(routes OriginalFileDeleteAuditRoutes, obs *Observer) *OriginalFileDeleteAuditService {
	return &OriginalFileDeleteAuditService{routes: routes, obs: obs}
}

func (s *OriginalFileDeleteAuditService) Insert(ctx context.Context, audit model.OriginalFileDeleteAudit) (*model.Response[model.NoContent], error) {
	return observe(ctx, s.obs, originalFileDeleteAuditResource, "Insert", func() (*model.Response[model.NoContent], error) {
		return s.routes.Insert(ctx, audit)
	})
}

// PhysicalDelete is administrative; the audit trail has no other mutation.
func (s *OriginalFileDeleteAuditService) PhysicalDelete(ctx context.Context, fhClaimNumber string, fileName string) (*model.Response[model.NoContent], error) {
	return observe(ctx, s.obs, originalFileDeleteAuditResource, "PhysicalDelete", func() (*model.Response[model.NoContent], error) {
		return s.routes.PhysicalDelete(ctx, fhClaimNumber, fileName)
	})
}
