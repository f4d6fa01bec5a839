// Package apitest is an in-memory stand-in for the DocMan API. It serves the
// same routes over HTTP so the client can be exercised end to end, including
// over mutual TLS.
package apitest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"go-docman-client/internal/middleware"
	"go-docman-client/pkg/apierror"
	"go-docman-client/pkg/model"
)

type server struct {
	store *Store
}

type handlerConfig struct {
	rateLimitRPM int
	timeout      time.Duration
}

// Option tunes the handler returned by NewHandler.
type Option func(*handlerConfig)

// WithRateLimit caps each client certificate at rpm requests per minute.
func WithRateLimit(rpm int) Option {
	return func(c *handlerConfig) { c.rateLimitRPM = rpm }
}

// WithTimeout bounds the time spent on a single request.
func WithTimeout(d time.Duration) Option {
	return func(c *handlerConfig) { c.timeout = d }
}

// NewHandler returns the DocMan API routes backed by store, mounted under basePath.
func NewHandler(store *Store, basePath string, opts ...Option) http.Handler {
	cfg := handlerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &server{store: store}

	r := chi.NewRouter()
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.NewRateLimiter(cfg.rateLimitRPM).Handler)
	r.Use(middleware.Timeout(cfg.timeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/"+strings.Trim(basePath, "/"), func(api chi.Router) {
		api.Route("/files", func(files chi.Router) {
			files.Get("/", s.listFiles)
			files.Post("/", s.insertFile)
			files.Post("/batch", s.batchInsertFiles)
			files.Get("/folder/{folderID}", s.filesByFolder)
			files.Get("/claim/{claim}/name/{name}", s.fileByNameAndClaim)
			files.Get("/{id}", s.getFile)
			files.Get("/{id}/virtual-path", s.virtualPath)
			files.Put("/{id}", s.updateFile)
			files.Delete("/{id}", s.deleteFile)
			files.Delete("/{id}/physical", s.physicalDeleteFile)
		})

		api.Route("/folders", func(folders chi.Router) {
			folders.Get("/", s.listFolders)
			folders.Post("/", s.insertFolder)
			folders.Get("/claim/{claim}", s.foldersByClaim)
			folders.Get("/{id}", s.getFolder)
			folders.Get("/{id}/children", s.childFolders)
			folders.Put("/{id}", s.updateFolder)
			folders.Delete("/{id}", s.deleteFolder)
			folders.Delete("/{id}/physical", s.physicalDeleteFolder)
		})

		api.Post("/file-view-audits", s.insertFileViewAudit)
		api.Post("/original-file-delete-audits", s.insertOriginalFileDeleteAudit)
		api.Delete("/original-file-delete-audits/physical", s.physicalDeleteOriginalFileDeleteAudit)

		api.Get("/heartbeat/time", func(w http.ResponseWriter, _ *http.Request) {
			writeSuccess(w, http.StatusOK, s.store.Now())
		})
		api.Get("/heartbeat/connection", func(w http.ResponseWriter, _ *http.Request) {
			writeSuccess(w, http.StatusOK, s.store.ConnectionName())
		})
	})

	return r
}

// NewMutualTLSServer starts handler behind a loopback TLS listener that
// requires a client certificate issued by ca.
func NewMutualTLSServer(handler http.Handler, ca *Authority) (*httptest.Server, error) {
	tlsConfig, err := ca.ServerTLSConfig("127.0.0.1", "localhost")
	if err != nil {
		return nil, fmt.Errorf("server tls config: %w", err)
	}

	srv := httptest.NewUnstartedServer(handler)
	srv.TLS = tlsConfig
	srv.StartTLS()
	return srv, nil
}

func (s *server) listFiles(w http.ResponseWriter, r *http.Request) {
	includeDeleted, err := parseBool(r.URL.Query().Get("includeDeleted"))
	if err != nil {
		writeError(w, err)
		return
	}

	var folderID *uuid.UUID
	if raw := r.URL.Query().Get("folderId"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		folderID = &id
	}

	writeSuccess(w, http.StatusOK, s.store.ListFiles(includeDeleted, folderID))
}

func (s *server) getFile(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	f, err := s.store.File(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, f)
}

func (s *server) filesByFolder(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "folderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, s.store.ListFiles(false, &id))
}

func (s *server) fileByNameAndClaim(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		writeError(w, err)
		return
	}
	claim, err := pathParam(r, "claim")
	if err != nil {
		writeError(w, err)
		return
	}

	f, err := s.store.FileByNameAndClaim(name, claim)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, f)
}

func (s *server) virtualPath(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := s.store.VirtualPath(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, p)
}

func (s *server) insertFile(w http.ResponseWriter, r *http.Request) {
	var f model.File
	if err := decodeBody(r, &f); err != nil {
		writeError(w, err)
		return
	}

	ids, err := s.store.InsertFiles([]model.File{f})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, ids[0])
}

func (s *server) batchInsertFiles(w http.ResponseWriter, r *http.Request) {
	var files []model.File
	if err := decodeBody(r, &files); err != nil {
		writeError(w, err)
		return
	}
	if len(files) == 0 {
		writeError(w, badRequest("At least one file is required", ""))
		return
	}

	ids, err := s.store.InsertFiles(files)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, ids)
}

func (s *server) updateFile(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var f model.File
	if err := decodeBody(r, &f); err != nil {
		writeError(w, err)
		return
	}
	if f.ID != uuid.Nil && f.ID != id {
		writeError(w, badRequest("Body id does not match route id", f.ID.String()))
		return
	}
	f.ID = id

	if err := s.store.UpdateFile(f); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) deleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.SoftDeleteFile(id, r.URL.Query().Get("modifiedBy")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) physicalDeleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.PhysicalDeleteFile(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) listFolders(w http.ResponseWriter, r *http.Request) {
	includeDeleted, err := parseBool(r.URL.Query().Get("includeDeleted"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, s.store.ListFolders(includeDeleted, nil))
}

func (s *server) getFolder(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	f, err := s.store.Folder(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, f)
}

func (s *server) foldersByClaim(w http.ResponseWriter, r *http.Request) {
	claim, err := pathParam(r, "claim")
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, s.store.FoldersByClaim(claim))
}

func (s *server) childFolders(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, s.store.ListFolders(false, func(f model.Folder) bool {
		return f.ParentFolderID != nil && *f.ParentFolderID == id
	}))
}

func (s *server) insertFolder(w http.ResponseWriter, r *http.Request) {
	var f model.Folder
	if err := decodeBody(r, &f); err != nil {
		writeError(w, err)
		return
	}

	id, err := s.store.InsertFolder(f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, id)
}

func (s *server) updateFolder(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var f model.Folder
	if err := decodeBody(r, &f); err != nil {
		writeError(w, err)
		return
	}
	if f.ID != uuid.Nil && f.ID != id {
		writeError(w, badRequest("Body id does not match route id", f.ID.String()))
		return
	}
	f.ID = id

	if err := s.store.UpdateFolder(f); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) deleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.SoftDeleteFolder(id, r.URL.Query().Get("modifiedBy")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) physicalDeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.PhysicalDeleteFolder(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) insertFileViewAudit(w http.ResponseWriter, r *http.Request) {
	var a model.FileViewAudit
	if err := decodeBody(r, &a); err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.InsertFileViewAudit(a); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *server) insertOriginalFileDeleteAudit(w http.ResponseWriter, r *http.Request) {
	var a model.OriginalFileDeleteAudit
	if err := decodeBody(r, &a); err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.InsertOriginalFileDeleteAudit(a); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *server) physicalDeleteOriginalFileDeleteAudit(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	claim := strings.TrimSpace(query.Get("fhClaimNumber"))
	fileName := strings.TrimSpace(query.Get("fileName"))
	if claim == "" || fileName == "" {
		writeError(w, badRequest("fhClaimNumber and fileName are required", ""))
		return
	}

	if err := s.store.PhysicalDeleteOriginalFileDeleteAudit(claim, fileName); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathParam returns a decoded route parameter. chi matches on RawPath when
// the request carries one, so escaped segments arrive still encoded; without
// RawPath the parameter comes from the already decoded Path.
func pathParam(r *http.Request, key string) (string, error) {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw, nil
	}
	v, err := url.PathUnescape(raw)
	if err != nil {
		return "", badRequest("Invalid path parameter", key+"="+raw)
	}
	return v, nil
}

func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest("Invalid id", raw)
	}
	return id, nil
}

func parseBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, badRequest("Invalid boolean", raw)
	}
	return v, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return badRequest("Invalid JSON body", err.Error())
	}
	return nil
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
