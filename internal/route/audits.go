package route

import (
	"context"
	"net/http"
	"net/url"

	"go-docman-client/pkg/model"
)

const (
	fileViewAuditResource           = "FileViewAudit"
	originalFileDeleteAuditResource = "OriginalFileDeleteAudit"
)

// FileViewAudits is insert-only.
type FileViewAudits struct {
	c *Client
}

func NewFileViewAudits(c *Client) *FileViewAudits {
	return &FileViewAudits{c: c}
}

func (r *FileViewAudits) Insert(ctx context.Context, audit model.FileViewAudit) (*model.Response[model.NoContent], error) {
	return Do[model.NoContent](ctx, r.c, Request{
		Resource: fileViewAuditResource, Operation: "Insert",
		Method: http.MethodPost, Path: "/file-view-audits", Body: audit,
	})
}

type OriginalFileDeleteAudits struct {
	c *Client
}

func NewOriginalFileDeleteAudits(c *Client) *OriginalFileDeleteAudits {
	return &OriginalFileDeleteAudits{c: c}
}

func (r *OriginalFileDeleteAudits) Insert(ctx context.Context, audit model.OriginalFileDeleteAudit) (*model.Response[model.NoContent], error) {
	return Do[model.NoContent](ctx, r.c, Request{
		Resource: originalFileDeleteAuditResource, Operation: "Insert",
		Method: http.MethodPost, Path: "/original-file-delete-audits", Body: audit,
	})
}

// PhysicalDelete is the administrative removal of the audit rows for one file of a claim.
func (r *OriginalFileDeleteAudits) PhysicalDelete(ctx context.Context, fhClaimNumber string, fileName string) (*model.Response[model.NoContent], error) {
	return Do[model.NoContent](ctx, r.c, Request{
		Resource: originalFileDeleteAuditResource, Operation: "PhysicalDelete",
		Method: http.MethodDelete, Path: "/original-file-delete-audits/physical",
		Query: url.Values{"fhClaimNumber": {fhClaimNumber}, "fileName": {fileName}},
	})
}
