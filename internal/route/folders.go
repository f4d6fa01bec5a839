package route

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"go-docman-client/pkg/model"
)

const folderResource = "Folder"

// Folders is the route contract for /folders.
type Folders struct {
	c *Client
}

func NewFolders(c *Client) *Folders {
	return &Folders{c: c}
}

func (r *Folders) List(ctx context.Context, includeDeleted *bool) (*model.Response[[]model.Folder], error) {
	query := url.Values{}
	if includeDeleted != nil {
		query.Set("includeDeleted", strconv.FormatBool(*includeDeleted))
	}

	return Do[[]model.Folder](ctx, r.c, Request{
		Resource: folderResource, Operation: "List",
		Method: http.MethodGet, Path: "/folders", Query: query,
	})
}

func (r *Folders) GetByID(ctx context.Context, id uuid.UUID) (*model.Response[model.Folder], error) {
	return Do[model.Folder](ctx, r.c, Request{
		Resource: folderResource, Operation: "GetByID",
		Method: http.MethodGet, Path: path("folders", id.String()),
	})
}

// GetByClaimNumber returns the folders holding files of a claim.
func (r *Folders) GetByClaimNumber(ctx context.Context, fhClaimNumber string) (*model.Response[[]model.Folder], error) {
	return Do[[]model.Folder](ctx, r.c, Request{
		Resource: folderResource, Operation: "GetByClaimNumber",
		Method: http.MethodGet, Path: path("folders", "claim", fhClaimNumber),
	})
}

func (r *Folders) GetByParentID(ctx context.Context, parentID uuid.UUID) (*model.Response[[]model.Folder], error) {
	return Do[[]model.Folder](ctx, r.c, Request{
		Resource: folderResource, Operation: "GetByParentID",
		Method: http.MethodGet, Path: path("folders", parentID.String(), "children"),
	})
}

func (r *Folders) Insert(ctx context.Context, folder model.Folder) (*model.Response[uuid.UUID], error) {
	return Do[uuid.UUID](ctx, r.c, Request{
		Resource: folderResource, Operation: "Insert",
		Method: http.MethodPost, Path: "/folders", Body: folder,
	})
}

func (r *Folders) Update(ctx context.Context, folder model.Folder) (*model.Response[model.NoContent], error) {
	return Do[model.NoContent](ctx, r.c, Request{
		Resource: folderResource, Operation: "Update",
		Method: http.MethodPut, Path: path("folders", folder.ID.String()), Body: folder,
	})
}

func (r *Folders) Delete(ctx context.Context, id uuid.UUID, modifiedBy string) (*model.Response[model.NoContent], error) {
	return Do[model.NoContent](ctx, r.c, Request{
		Resource: folderResource, Operation: "Delete",
		Method: http.MethodDelete, Path: path("folders", id.String()),
		Query: url.Values{"modifiedBy": {modifiedBy}},
	})
}

func (r *Folders) PhysicalDelete(ctx context.Context, id uuid.UUID) (*model.Response[model.NoContent], error) {
	return Do[model.NoContent](ctx, r.c, Request{
		Resource: folderResource, Operation: "PhysicalDelete",
		Method: http.MethodDelete, Path: path("folders", id.String(), "physical"),
	})
}
