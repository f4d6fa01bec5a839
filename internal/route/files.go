package route

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"go-docman-client/pkg/model"
)

const fileResource = "File"

// Files is the route contract for /files.
type Files struct {
	c *Client
}

func NewFiles(c *Client) *Files {
	return &Files{c: c}
}

// List returns files, optionally including soft-deleted ones or narrowed to a folder.
func (r *Files) List(ctx context.Context, includeDeleted *bool, folderID *uuid.UUID) (*model.Response[[]model.File], error) {
	query := url.Values{}
	if includeDeleted != nil {
		query.Set("includeDeleted", strconv.FormatBool(*includeDeleted))
	}
	if folderID != nil {
		query.Set("folderId", folderID.String())
	}

	return Do[[]model.File](ctx, r.c, Request{
		Resource: fileResource, Operation: "List",
		Method: http.MethodGet, Path: "/files", Query: query,
	})
}

func (r *Files) GetByID(ctx context.Context, id uuid.UUID) (*model.Response[model.File], error) {
	return Do[model.File](ctx, r.c, Request{
		Resource: fileResource, Operation: "GetByID",
		Method: http.MethodGet, Path: path("files", id.String()),
	})
}

func (r *Files) GetByFolderID(ctx context.Context, folderID uuid.UUID) (*model.Response[[]model.File], error) {
	return Do[[]model.File](ctx, r.c, Request{
		Resource: fileResource, Operation: "GetByFolderID",
		Method: http.MethodGet, Path: path("files", "folder", folderID.String()),
	})
}

func (r *Files) GetByNameAndClaimNumber(ctx context.Context, name string, fhClaimNumber string) (*model.Response[model.File], error) {
	return Do[model.File](ctx, r.c, Request{
		Resource: fileResource, Operation: "GetByNameAndClaimNumber",
		Method: http.MethodGet, Path: path("files", "claim", fhClaimNumber, "name", name),
	})
}

// GetVirtualPath returns the folder path of a file as the API renders it.
func (r *Files) GetVirtualPath(ctx context.Context, id uuid.UUID) (*model.Response[string], error) {
	return Do[string](ctx, r.c, Request{
		Resource: fileResource, Operation: "GetVirtualPath",
		Method: http.MethodGet, Path: path("files", id.String(), "virtual-path"),
	})
}

// Insert creates a file and returns the id assigned by the API.
func (r *Files) Insert(ctx context.Context, file model.File) (*model.Response[uuid.UUID], error) {
	return Do[uuid.UUID](ctx, r.c, Request{
		Resource: fileResource, Operation: "Insert",
		Method: http.MethodPost, Path: "/files", Body: file,
	})
}

// BatchInsert creates files in one request; ids are returned in input order.
func (r *Files) BatchInsert(ctx context.Context, files []model.File) (*model.Response[[]uuid.UUID], error) {
	return Do[[]uuid.UUID](ctx, r.c, Request{
		Resource: fileResource, Operation: "BatchInsert",
		Method: http.MethodPost, Path: "/files/batch", Body: files,
	})
}

func (r *Files) Update(ctx context.Context, file model.File) (*model.Response[model.NoContent], error) {
	return Do[model.NoContent](ctx, r.c, Request{
		Resource: fileResource, Operation: "Update",
		Method: http.MethodPut, Path: path("files", file.ID.String()), Body: file,
	})
}

// Delete flags the file as deleted. It stays visible to List with includeDeleted.
func (r *Files) Delete(ctx context.Context, id uuid.UUID, modifiedBy string) (*model.Response[model.NoContent], error) {
	return Do[model.NoContent](ctx, r.c, Request{
		Resource: fileResource, Operation: "Delete",
		Method: http.MethodDelete, Path: path("files", id.String()),
		Query: url.Values{"modifiedBy": {modifiedBy}},
	})
}

// PhysicalDelete removes the file row.
func (r *Files) PhysicalDelete(ctx context.Context, id uuid.UUID) (*model.Response[model.NoContent], error) {
	return Do[model.NoContent](ctx, r.c, Request{
		Resource: fileResource, Operation: "PhysicalDelete",
		Method: http.MethodDelete, Path: path("files", id.String(), "physical"),
	})
}
