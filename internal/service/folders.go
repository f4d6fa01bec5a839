package service

import (
	"context"

	"github.com/google/uuid"

	"go-docman-client/pkg/model"
)

const folderResource = "Folder"

type FolderRoutes interface {
	List(ctx context.Context, includeDeleted *bool) (*model.Response[[]model.Folder], error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Response[model.Folder], error)
	GetByClaimNumber(ctx context.Context, fhClaimNumber string) (*model.Response[[]model.Folder], error)
	GetByParentID(ctx context.Context, parentID uuid.UUID) (*model.Response[[]model.Folder], error)
	Insert(ctx context.Context, folder model.Folder) (*model.Response[uuid.UUID], error)
	Update(ctx context.Context, folder model.Folder) (*model.Response[model.NoContent], error)
	Delete(ctx context.Context, id uuid.UUID, modifiedBy string) (*model.Response[model.NoContent], error)
	PhysicalDelete(ctx context.Context, id uuid.UUID) (*model.Response[model.NoContent], error)
}

type FolderService struct {
	routes FolderRoutes
	obs    *Observer
}

func NewFolderService(routes FolderRoutes, obs *Observer) *FolderService {
	return &FolderService{routes: routes, obs: obs}
}

func (s *FolderService) List(ctx context.Context, includeDeleted *bool) (*model.Response[[]model.Folder], error) {
	return observe(ctx, s.obs, folderResource, "List", func() (*model.Response[[]model.Folder], error) {
		return s.routes.List(ctx, includeDeleted)
	})
}

func (s *FolderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Response[model.Folder], error) {
	return observe(ctx, s.obs, folderResource, "GetByID", func() (*model.Response[model.Folder], error) {
		return s.routes.GetByID(ctx, id)
	})
}

func (s *FolderService) GetByClaimNumber(ctx context.Context, fhClaimNumber string) (*model.Response[[]model.Folder], error) {
	return observe(ctx, s.obs, folderResource, "GetByClaimNumber", func() (*model.Response[[]model.Folder], error) {
		return s.routes.GetByClaimNumber(ctx, fhClaimNumber)
	})
}

func (s *FolderService) GetByParentID(ctx context.Context, parentID uuid.UUID) (*model.Response[[]model.Folder], error) {
	return observe(ctx, s.obs, folderResource, "GetByParentID", func() (*model.Response[[]model.Folder], error) {
		return s.routes.GetByParentID(ctx, parentID)
	})
}

func (s *FolderService) Insert(ctx context.Context, folder model.Folder) (*model.Response[uuid.UUID], error) {
	return observe(ctx, s.obs, folderResource, "Insert", func() (*model.Response[uuid.UUID], error) {
		return s.routes.Insert(ctx, folder)
	})
}

func (s *FolderService) Update(ctx context.Context, folder model.Folder) (*model.Response[model.NoContent], error) {
	return observe(ctx, s.obs, folderResource, "Update", func() (*model.Response[model.NoContent], error) {
		return s.routes.Update(ctx, folder)
	})
}

func (s *FolderService) Delete(ctx context.Context, id uuid.UUID, modifiedBy string) (*model.Response[model.NoContent], error) {
	return observe(ctx, s.obs, folderResource, "Delete", func() (*model.Response[model.NoContent], error) {
		return s.routes.Delete(ctx, id, modifiedBy)
	})
}

func (s *FolderService) PhysicalDelete(ctx context.Context, id uuid.UUID) (*model.Response[model.NoContent], error) {
	return observe(ctx, s.obs, folderResource, "PhysicalDelete", func() (*model.Response[model.NoContent], error) {
		return s.routes.PhysicalDelete(ctx, id)
	})
}
