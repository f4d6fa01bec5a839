package route

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-docman-client/internal/apitest"
	"go-docman-client/pkg/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler, rps float64) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Options{
		BaseURL:      srv.URL + "/",
		BasePath:     "/api/v1",
		HTTPClient:   srv.Client(),
		RateLimitRPS: rps,
		Logger:       quietLogger(),
	})
}

func TestNewJoinsBaseURLAndPath(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		basePath string
		want     string
	}{
		{name: "trailing slash", baseURL: "https://docman.local/", basePath: "/api/v1", want: "https://docman.local/api/v1/files"},
		{name: "no base path", baseURL: "https://docman.local", basePath: "", want: "https://docman.local/files"},
		{name: "bare base path", baseURL: "https://docman.local", basePath: "api/v1/", want: "https://docman.local/api/v1/files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Options{BaseURL: tt.baseURL, BasePath: tt.basePath})
			assert.Equal(t, tt.want, c.url(Request{Path: "/files"}))
		})
	}
}

func TestPathEscapesSegments(t *testing.T) {
	assert.Equal(t, "/files/claim/C%2F1/name/a%20b.pdf", path("files", "claim", "C/1", "name", "a b.pdf"))
}

func TestDoSendsRequestID(t *testing.T) {
	var seen string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusNoContent)
	}), 0)

	resp, err := Do[model.NoContent](context.Background(), c, Request{Method: http.MethodDelete, Path: "/files/x"})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, resp.Headers.Get(RequestIDHeader))
}

func TestDoMapsErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		code     string
	}{
		{name: "not found", status: http.StatusNotFound, sentinel: model.ErrNotFound, code: "NOT_FOUND"},
		{name: "bad request", status: http.StatusBadRequest, sentinel: model.ErrInvalidInput, code: "BAD_REQUEST"},
		{name: "conflict", status: http.StatusConflict, sentinel: model.ErrConflict, code: "CONFLICT"},
		{name: "server error", status: http.StatusInternalServerError, sentinel: model.ErrUnexpectedStatus, code: "UNEXPECTED_STATUS"},
		{
			name:     "api error body wins",
			status:   http.StatusBadRequest,
			body:     `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"name too long","details":"name"}}`,
			sentinel: model.ErrInvalidInput,
			code:     "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}), 0)

			resp, err := Do[model.File](context.Background(), c, Request{
				Resource: "File", Operation: "GetByID",
				Method: http.MethodGet, Path: "/files/1",
			})
			require.Error(t, err)
			require.NotNil(t, resp)

			assert.False(t, resp.IsSuccess)
			assert.Equal(t, tt.status, resp.StatusCode)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "File", resp.Error.Resource)
			assert.Equal(t, "GetByID", resp.Error.Operation)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, model.ErrUnexpectedStatus)
			assert.Equal(t, resp.Err(), err)
		})
	}
}

func TestDoDecodeFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id": 12`)
	}), 0)

	resp, err := Do[model.File](context.Background(), c, Request{Method: http.MethodGet, Path: "/files/1"})
	assert.ErrorIs(t, err, model.ErrDecode)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, resp.IsSuccess)
}

func TestDoTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := New(Options{BaseURL: baseURL, Logger: quietLogger()})

	resp, err := Do[model.File](context.Background(), c, Request{Method: http.MethodGet, Path: "/files/1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransport)
	assert.False(t, resp.IsSuccess)
	assert.Zero(t, resp.StatusCode)
	assert.Equal(t, "TRANSPORT_ERROR", resp.Error.Code)
	assert.NotEmpty(t, resp.Headers.Get(RequestIDHeader))
}

func TestDoUnencodableBody(t *testing.T) {
	c := New(Options{BaseURL: "http://127.0.0.1:1", Logger: quietLogger()})

	_, err := Do[model.NoContent](context.Background(), c, Request{
		Method: http.MethodPost, Path: "/files", Body: make(chan int),
	})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestDoRateLimit(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), 1)

	_, err := Do[model.NoContent](context.Background(), c, Request{Method: http.MethodGet, Path: "/heartbeat/time"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = Do[model.NoContent](ctx, c, Request{Method: http.MethodGet, Path: "/heartbeat/time"})
	assert.ErrorIs(t, err, model.ErrTransport)
}

func TestDoHonoursCancellation(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do[model.NoContent](ctx, c, Request{Method: http.MethodGet, Path: "/heartbeat/time"})
	assert.ErrorIs(t, err, model.ErrTransport)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRoutesAgainstAPI(t *testing.T) {
	store := apitest.NewStore("DocManConnection")
	c := newTestClient(t, apitest.NewHandler(store, "/api/v1"), 0)
	ctx := context.Background()

	files := NewFiles(c)
	folders := NewFolders(c)
	viewAudits := NewFileViewAudits(c)
	deleteAudits := NewOriginalFileDeleteAudits(c)
	heartbeat := NewHeartbeat(c)

	root, err := folders.Insert(ctx, model.Folder{Name: "Claims", ModifiedBy: "tester"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, root.StatusCode)

	child, err := folders.Insert(ctx, model.Folder{Name: "C-100", ParentFolderID: &root.Payload, ModifiedBy: "tester"})
	require.NoError(t, err)

	inserted, err := files.Insert(ctx, model.File{
		FhClaimNumber: "C-100",
		Name:          "scan.pdf",
		FileType:      "pdf",
		FolderID:      &child.Payload,
		ModifiedBy:    "tester",
	})
	require.NoError(t, err)
	fileID := inserted.Payload

	t.Run("files", func(t *testing.T) {
		got, err := files.GetByID(ctx, fileID)
		require.NoError(t, err)
		assert.Equal(t, "scan.pdf", got.Payload.Name)

		byName, err := files.GetByNameAndClaimNumber(ctx, "scan.pdf", "C-100")
		require.NoError(t, err)
		assert.Equal(t, fileID, byName.Payload.ID)

		inFolder, err := files.GetByFolderID(ctx, child.Payload)
		require.NoError(t, err)
		assert.Len(t, inFolder.Payload, 1)

		vp, err := files.GetVirtualPath(ctx, fileID)
		require.NoError(t, err)
		assert.Equal(t, "/Claims/C-100/scan.pdf", vp.Payload)

		many, err := files.BatchInsert(ctx, []model.File{
			{FhClaimNumber: "C-200", Name: "a.pdf", FileType: "pdf", ModifiedBy: "tester"},
			{FhClaimNumber: "C-200", Name: "b.pdf", FileType: "pdf", ModifiedBy: "tester"},
		})
		require.NoError(t, err)
		assert.Len(t, many.Payload, 2)

		updated := got.Payload
		updated.KeyVersion = 3
		upd, err := files.Update(ctx, updated)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, upd.StatusCode)

		_, err = files.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("names that need escaping", func(t *testing.T) {
		cases := []struct {
			claim string
			name  string
		}{
			{"C-400", "Smith, John.pdf"},
			{"C-400", "a;b.pdf"},
			{"C-400", "100%.pdf"},
			{"C-400", "scans/page 1.pdf"},
			{"C/401 x", "plain.pdf"},
		}

		for _, tc := range cases {
			created, err := files.Insert(ctx, model.File{
				FhClaimNumber: tc.claim,
				Name:          tc.name,
				FileType:      "pdf",
				FolderID:      &child.Payload,
				ModifiedBy:    "tester",
			})
			require.NoError(t, err, tc.name)

			got, err := files.GetByNameAndClaimNumber(ctx, tc.name, tc.claim)
			require.NoError(t, err, tc.name)
			assert.Equal(t, created.Payload, got.Payload.ID, tc.name)
			assert.Equal(t, tc.name, got.Payload.Name)
		}

		byClaim, err := folders.GetByClaimNumber(ctx, "C/401 x")
		require.NoError(t, err)
		require.Len(t, byClaim.Payload, 1)
		assert.Equal(t, child.Payload, byClaim.Payload[0].ID)
	})

	t.Run("soft delete keeps the record listable", func(t *testing.T) {
		_, err := files.Delete(ctx, insertOne(t, files, "C-300"), "reviewer")
		require.NoError(t, err)

		includeDeleted := true
		all, err := files.List(ctx, &includeDeleted, nil)
		require.NoError(t, err)

		var deleted int
		for _, f := range all.Payload {
			if f.Deleted {
				deleted++
				assert.Equal(t, "reviewer", f.ModifiedBy)
			}
		}
		assert.Equal(t, 1, deleted)

		live, err := files.List(ctx, nil, nil)
		require.NoError(t, err)
		assert.Len(t, live.Payload, len(all.Payload)-1)
	})

	t.Run("folders", func(t *testing.T) {
		got, err := folders.GetByID(ctx, root.Payload)
		require.NoError(t, err)
		assert.Equal(t, "Claims", got.Payload.Name)

		children, err := folders.GetByParentID(ctx, root.Payload)
		require.NoError(t, err)
		require.Len(t, children.Payload, 1)
		assert.Equal(t, child.Payload, children.Payload[0].ID)

		byClaim, err := folders.GetByClaimNumber(ctx, "C-100")
		require.NoError(t, err)
		assert.Len(t, byClaim.Payload, 1)

		all, err := folders.List(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all.Payload, 2)

		renamed := got.Payload
		renamed.Name = "Claims Archive"
		_, err = folders.Update(ctx, renamed)
		require.NoError(t, err)

		_, err = folders.PhysicalDelete(ctx, root.Payload)
		assert.ErrorIs(t, err, model.ErrConflict)

		spare, err := folders.Insert(ctx, model.Folder{Name: "Spare", ModifiedBy: "tester"})
		require.NoError(t, err)
		_, err = folders.Delete(ctx, spare.Payload, "reviewer")
		require.NoError(t, err)
		_, err = folders.PhysicalDelete(ctx, spare.Payload)
		require.NoError(t, err)
	})

	t.Run("physical delete removes the file", func(t *testing.T) {
		_, err := files.PhysicalDelete(ctx, fileID)
		require.NoError(t, err)

		_, err = files.GetByID(ctx, fileID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("audits", func(t *testing.T) {
		_, err := viewAudits.Insert(ctx, model.FileViewAudit{ViewedBy: "viewer"})
		require.NoError(t, err)
		assert.Len(t, store.FileViewAudits(), 1)

		_, err = deleteAudits.Insert(ctx, model.OriginalFileDeleteAudit{FhClaimNumber: "C-100", FileName: "scan.pdf", DeletedBy: "admin"})
		require.NoError(t, err)
		_, err = deleteAudits.PhysicalDelete(ctx, "C-100", "scan.pdf")
		require.NoError(t, err)
		assert.Empty(t, store.OriginalFileDeleteAudits())

		_, err = viewAudits.Insert(ctx, model.FileViewAudit{})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("heartbeat", func(t *testing.T) {
		name, err := heartbeat.GetConnectionStringName(ctx)
		require.NoError(t, err)
		assert.Equal(t, "DocManConnection", name.Payload)

		now, err := heartbeat.GetServerTime(ctx)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), now.Payload, time.Minute)
	})
}

// insertOne batch-inserts a single throwaway file for claim and returns its id.
func insertOne(t *testing.T, files *Files, claim string) uuid.UUID {
	t.Helper()

	resp, err := files.BatchInsert(context.Background(), []model.File{
		{FhClaimNumber: claim, Name: "tmp.pdf", FileType: "pdf", ModifiedBy: "tester"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Payload, 1)
	return resp.Payload[0]
}
