// Package docman is the entry point of the DocMan API client. Register
// resolves configuration, loads the client certificate and returns the five
// resource services sharing one mutual-TLS connection pool.
package docman

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-docman-client/internal/service"
	"go-docman-client/pkg/model"
)

type FileService interface {
	List(ctx context.Context, includeDeleted *bool, folderID *uuid.UUID) (*model.Response[[]model.File], error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Response[model.File], error)
	GetByFolderID(ctx context.Context, folderID uuid.UUID) (*model.Response[[]model.File], error)
	GetByNameAndClaimNumber(ctx context.Context, name string, fhClaimNumber string) (*model.Response[model.File], error)
	GetVirtualPath(ctx context.Context, id uuid.UUID) (*model.Response[string], error)
	Insert(ctx context.Context, file model.File) (*model.Response[uuid.UUID], error)
	BatchInsert(ctx context.Context, files []model.File) (*model.Response[[]uuid.UUID], error)
	Update(ctx context.Context, file model.File) (*model.Response[model.NoContent], error)
	// Delete flags the file as deleted; List with includeDeleted still returns it.
	Delete(ctx context.Context, id uuid.UUID, modifiedBy string) (*model.Response[model.NoContent], error)
	PhysicalDelete(ctx context.Context, id uuid.UUID) (*model.Response[model.NoContent], error)
}

type FolderService interface {
	List(ctx context.Context, includeDeleted *bool) (*model.Response[[]model.Folder], error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Response[model.Folder], error)
	GetByClaimNumber(ctx context.Context, fhClaimNumber string) (*model.Response[[]model.Folder], error)
	GetByParentID(ctx context.Context, parentID uuid.UUID) (*model.Response[[]model.Folder], error)
	Insert(ctx context.Context, folder model.Folder) (*model.Response[uuid.UUID], error)
	Update(ctx context.Context, folder model.Folder) (*model.Response[model.NoContent], error)
	Delete(ctx context.Context, id uuid.UUID, modifiedBy string) (*model.Response[model.NoContent], error)
	PhysicalDelete(ctx context.Context, id uuid.UUID) (*model.Response[model.NoContent], error)
}

// FileViewAuditService is insert-only.
type FileViewAuditService interface {
	Insert(ctx context.Context, audit model.FileViewAudit) (*model.Response[model.NoContent], error)
}

type OriginalFileDeleteAuditService interface {
	Insert(ctx context.Context, audit model.OriginalFileDeleteAudit) (*model.Response[model.NoContent], error)
	PhysicalDelete(ctx context.Context, fhClaimNumber string, fileName string) (*model.Response[model.NoContent], error)
}

type HeartbeatService interface {
	GetServerTime(ctx context.Context) (*model.Response[time.Time], error)
	GetConnectionStringName(ctx context.Context) (*model.Response[string], error)
}

var (
	_ FileService                    = (*service.FileService)(nil)
	_ FolderService                  = (*service.FolderService)(nil)
	_ FileViewAuditService           = (*service.FileViewAuditService)(nil)
	_ OriginalFileDeleteAuditService = (*service.OriginalFileDeleteAuditService)(nil)
	_ HeartbeatService               = (*service.HeartbeatService)(nil)
)
