package service

import (
	"context"

	"github.com/google/uuid"

	"go-docman-client/pkg/model"
)

const fileResource = "File"

// FileRoutes is the subset of the file route contract the wrapper forwards to.
type FileRoutes interface {
	List(ctx context.Context, includeDeleted *bool, folderID *uuid.UUID) (*model.Response[[]model.File], error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Response[model.File], error)
	GetByFolderID(ctx context.Context, folderID uuid.UUID) (*model.Response[[]model.File], error)
	GetByNameAndClaimNumber(ctx context.Context, name string, fhClaimNumber string) (*model.Response[model.File], error)
	GetVirtualPath(ctx context.Context, id uuid.UUID) (*model.Response[string], error)
	Insert(ctx context.Context, file model.File) (*model.Response[uuid.UUID], error)
	BatchInsert(ctx context.Context, files []model.File) (*model.Response[[]uuid.UUID], error)
	Update(ctx context.Context, file model.File) (*model.Response[model.NoContent], error)
	Delete(ctx context.Context, id uuid.UUID, modifiedBy string) (*model.Response[model.NoContent], error)
	PhysicalDelete(ctx context.Context, id uuid.UUID) (*model.Response[model.NoContent], error)
}

type FileService struct {
	routes FileRoutes
	obs    *Observer
}

func NewFileService(routes FileRoutes, obs *Observer) *FileService {
	return &FileService{routes: routes, obs: obs}
}

func (s *FileService) List(ctx context.Context, includeDeleted *bool, folderID *uuid.UUID) (*model.Response[[]model.File], error) {
	return observe(ctx, s.obs, fileResource, "List", func() (*model.Response[[]model.File], error) {
		return s.routes.List(ctx, includeDeleted, folderID)
	})
}

func (s *FileService) GetByID(ctx context.Context, id uuid.UUID) (*model.Response[model.File], error) {
	return observe(ctx, s.obs, fileResource, "GetByID", func() (*model.Response[model.File], error) {
		return s.routes.GetByID(ctx, id)
	})
}

func (s *FileService) GetByFolderID(ctx context.Context, folderID uuid.UUID) (*model.Response[[]model.File], error) {
	return observe(ctx, s.obs, fileResource, "GetByFolderID", func() (*model.Response[[]model.File], error) {
		return s.routes.GetByFolderID(ctx, folderID)
	})
}

func (s *FileService) GetByNameAndClaimNumber(ctx context.Context, name string, fhClaimNumber string) (*model.Response[model.File], error) {
	return observe(ctx, s.obs, fileResource, "GetByNameAndClaimNumber", func() (*model.Response[model.File], error) {
		return s.routes.GetByNameAndClaimNumber(ctx, name, fhClaimNumber)
	})
}

func (s *FileService) GetVirtualPath(ctx context.Context, id uuid.UUID) (*model.Response[string], error) {
	return observe(ctx, s.obs, fileResource, "GetVirtualPath", func() (*model.Response[string], error) {
		return s.routes.GetVirtualPath(ctx, id)
	})
}

func (s *FileService) Insert(ctx context.Context, file model.File) (*model.Response[uuid.UUID], error) {
	return observe(ctx, s.obs, fileResource, "Insert", func() (*model.Response[uuid.UUID], error) {
		return s.routes.Insert(ctx, file)
	})
}

func (s *FileService) BatchInsert(ctx context.Context, files []model.File) (*model.Response[[]uuid.UUID], error) {
	return observe(ctx, s.obs, fileResource, "BatchInsert", func() (*model.Response[[]uuid.UUID], error) {
		return s.routes.BatchInsert(ctx, files)
	})
}

func (s *FileService) Update(ctx context.Context, file model.File) (*model.Response[model.NoContent], error) {
	return observe(ctx, s.obs, fileResource, "Update", func() (*model.Response[model.NoContent], error) {
		return s.routes.Update(ctx, file)
	})
}

// Delete is a soft delete.
func (s *FileService) Delete(ctx context.Context, id uuid.UUID, modifiedBy string) (*model.Response[model.NoContent], error) {
	return observe(ctx, s.obs, fileResource, "Delete", func() (*model.Response[model.NoContent], error) {
		return s.routes.Delete(ctx, id, modifiedBy)
	})
}

func (s *FileService) PhysicalDelete(ctx context.Context, id uuid.UUID) (*model.Response[model.NoContent], error) {
	return observe(ctx, s.obs, fileResource, "PhysicalDelete", func() (*model.Response[model.NoContent], error) {
		return s.routes.PhysicalDelete(ctx, id)
	})
}
