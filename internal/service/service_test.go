package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-docman-client/internal/apitest"
	"go-docman-client/internal/event"
	"go-docman-client/internal/metrics"
	"go-docman-client/internal/route"
	"go-docman-client/pkg/apierror"
	"go-docman-client/pkg/model"
)

func capture(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		out = append(out, entry)
	}
	return out
}

func failedEnvelope[T any](status int, requestID string) (*model.Response[T], error) {
	apiErr := apierror.New("NOT_FOUND", "File not found", "", status).
		WithCause(model.ErrNotFound).
		WithOperation("File", "GetByID")

	resp := &model.Response[T]{StatusCode: status, Error: apiErr, Headers: http.Header{}}
	resp.Headers.Set(route.RequestIDHeader, requestID)
	return resp, apiErr
}

func TestFileService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success passes the envelope through", func(t *testing.T) {
		var buf bytes.Buffer
		routes := new(MockFileRoutes)
		svc := NewFileService(routes, NewObserver(capture(&buf), nil, nil))

		want := &model.Response[model.File]{IsSuccess: true, StatusCode: http.StatusOK, Payload: model.File{ID: id, Name: "a.pdf"}}
		routes.On("GetByID", ctx, id).Return(want, nil)

		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Same(t, want, got)

		logs := entries(t, &buf)
		require.Len(t, logs, 1)
		assert.Equal(t, "DEBUG", logs[0]["level"])
		routes.AssertExpectations(t)
	})

	t.Run("failure is logged and returned unchanged", func(t *testing.T) {
		var buf bytes.Buffer
		routes := new(MockFileRoutes)
		svc := NewFileService(routes, NewObserver(capture(&buf), nil, nil))

		want, wantErr := failedEnvelope[model.File](http.StatusNotFound, "req-1")
		routes.On("GetByID", ctx, id).Return(want, wantErr)

		got, err := svc.GetByID(ctx, id)
		assert.Same(t, want, got)
		assert.Equal(t, wantErr, err)
		assert.ErrorIs(t, err, model.ErrNotFound)

		logs := entries(t, &buf)
		require.Len(t, logs, 1)
		assert.Equal(t, "ERROR", logs[0]["level"])
		assert.Equal(t, "File", logs[0]["resource"])
		assert.Equal(t, "GetByID", logs[0]["method"])
		assert.Equal(t, float64(http.StatusNotFound), logs[0]["status"])
		assert.Equal(t, "req-1", logs[0]["request_id"])
		assert.Contains(t, logs[0]["error"], "File not found")
	})

	t.Run("nil envelope is not replaced", func(t *testing.T) {
		routes := new(MockFileRoutes)
		svc := NewFileService(routes, NewObserver(capture(new(bytes.Buffer)), nil, nil))

		boom := errors.New("boom")
		routes.On("GetByID", ctx, id).Return(nil, boom)

		got, err := svc.GetByID(ctx, id)
		assert.Nil(t, got)
		assert.Same(t, boom, err)
	})
}

func TestObserverMetricsAndEvents(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	bus := event.NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	recorder, err := metrics.New(reg)
	require.NoError(t, err)

	routes := new(MockHeartbeatRoutes)
	svc := NewHeartbeatService(routes, NewObserver(capture(new(bytes.Buffer)), recorder, bus))

	routes.On("GetConnectionStringName", ctx).Return(&model.Response[string]{IsSuccess: true, StatusCode: http.StatusOK, Payload: "DocMan"}, nil)
	failed, failedErr := failedEnvelope[time.Time](http.StatusServiceUnavailable, "req-2")
	routes.On("GetServerTime", ctx).Return(failed, failedErr)

	_, err = svc.GetConnectionStringName(ctx)
	require.NoError(t, err)
	_, err = svc.GetServerTime(ctx)
	require.Error(t, err)

	count, err := testutil.GatherAndCount(reg, "docman_client_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	first := <-events
	assert.Equal(t, event.TypeCallSucceeded, first.Type)
	assert.Equal(t, "GetConnectionStringName", first.Payload.Method)

	second := <-events
	assert.Equal(t, event.TypeCallFailed, second.Type)
	assert.Equal(t, http.StatusServiceUnavailable, second.Payload.StatusCode)
	assert.Equal(t, "req-2", second.Payload.RequestID)
	assert.NotEmpty(t, second.Payload.Error)
}

func TestServicesAgainstAPI(t *testing.T) {
	store := apitest.NewStore("DocManConnection")
	srv := httptest.NewServer(apitest.NewHandler(store, "/api/v1"))
	defer srv.Close()

	var buf bytes.Buffer
	client := route.New(route.Options{BaseURL: srv.URL, BasePath: "/api/v1", HTTPClient: srv.Client(), Logger: capture(new(bytes.Buffer))})
	obs := NewObserver(capture(&buf), nil, nil)

	files := NewFileService(route.NewFiles(client), obs)
	folders := NewFolderService(route.NewFolders(client), obs)
	viewAudits := NewFileViewAuditService(route.NewFileViewAudits(client), obs)
	deleteAudits := NewOriginalFileDeleteAuditService(route.NewOriginalFileDeleteAudits(client), obs)
	ctx := context.Background()

	folder, err := folders.Insert(ctx, model.Folder{Name: "Claims", ModifiedBy: "tester"})
	require.NoError(t, err)

	t.Run("insert then get round trips", func(t *testing.T) {
		in := model.File{
			FhClaimNumber: "CLM-0001",
			Name:          "estimate.pdf",
			FileType:      "pdf",
			FolderID:      &folder.Payload,
			KeyVersion:    1,
			ModifiedBy:    "adjuster",
		}

		inserted, err := files.Insert(ctx, in)
		require.NoError(t, err)
		require.True(t, inserted.IsSuccess)
		assert.NotEqual(t, uuid.Nil, inserted.Payload)

		got, err := files.GetByID(ctx, inserted.Payload)
		require.NoError(t, err)
		require.True(t, got.IsSuccess)

		in.ID = inserted.Payload
		assert.Equal(t, in, got.Payload)
	})

	t.Run("soft delete stays visible with deleted, physical delete removes", func(t *testing.T) {
		inserted, err := files.Insert(ctx, model.File{FhClaimNumber: "CLM-0002", Name: "photo.jpg", FileType: "jpg", ModifiedBy: "adjuster"})
		require.NoError(t, err)
		id := inserted.Payload

		_, err = files.Delete(ctx, id, "supervisor")
		require.NoError(t, err)

		includeDeleted := true
		listed, err := files.List(ctx, &includeDeleted, nil)
		require.NoError(t, err)
		assert.True(t, containsFile(listed.Payload, id))

		live, err := files.List(ctx, nil, nil)
		require.NoError(t, err)
		assert.False(t, containsFile(live.Payload, id))

		_, err = files.PhysicalDelete(ctx, id)
		require.NoError(t, err)

		listed, err = files.List(ctx, &includeDeleted, nil)
		require.NoError(t, err)
		assert.False(t, containsFile(listed.Payload, id))
	})

	t.Run("folder soft delete", func(t *testing.T) {
		spare, err := folders.Insert(ctx, model.Folder{Name: "Spare", ModifiedBy: "tester"})
		require.NoError(t, err)

		_, err = folders.Delete(ctx, spare.Payload, "supervisor")
		require.NoError(t, err)

		includeDeleted := true
		all, err := folders.List(ctx, &includeDeleted)
		require.NoError(t, err)
		assert.Len(t, all.Payload, 2)

		got, err := folders.GetByID(ctx, spare.Payload)
		require.NoError(t, err)
		assert.True(t, got.Payload.Deleted)
		assert.True(t, apitest.EndOfTime.Equal(got.Payload.ValidTo))
	})

	t.Run("audits", func(t *testing.T) {
		_, err := viewAudits.Insert(ctx, model.FileViewAudit{ViewedBy: "adjuster"})
		require.NoError(t, err)

		_, err = deleteAudits.Insert(ctx, model.OriginalFileDeleteAudit{FhClaimNumber: "CLM-0002", FileName: "photo.jpg", DeletedBy: "supervisor"})
		require.NoError(t, err)

		_, err = deleteAudits.PhysicalDelete(ctx, "CLM-0002", "photo.jpg")
		require.NoError(t, err)
	})

	t.Run("server rejection is logged", func(t *testing.T) {
		buf.Reset()

		resp, err := files.Insert(ctx, model.File{FhClaimNumber: "CLM-0000000000000001", Name: "x.pdf", FileType: "pdf", ModifiedBy: "adjuster"})
		require.Error(t, err)
		assert.False(t, resp.IsSuccess)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		logs := entries(t, &buf)
		require.Len(t, logs, 1)
		assert.Equal(t, "ERROR", logs[0]["level"])
		assert.Equal(t, "Insert", logs[0]["method"])
	})
}

func containsFile(files []model.File, id uuid.UUID) bool {
	for _, f := range files {
		if f.ID == id {
			return true
		}
	}
	return false
}
