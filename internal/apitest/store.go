package apitest

import (
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-docman-client/pkg/apierror"
	"go-docman-client/pkg/model"
)

// EndOfTime is the ValidTo of the current version of a folder.
var EndOfTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// Store is the in-memory state behind the DocMan API double.
type Store struct {
	mu             sync.RWMutex
	files          map[uuid.UUID]model.File
	folders        map[uuid.UUID]model.Folder
	folderHistory  map[uuid.UUID][]model.Folder
	viewAudits     []model.FileViewAudit
	deleteAudits   []model.OriginalFileDeleteAudit
	connectionName string
	now            func() time.Time
}

func NewStore(connectionName string) *Store {
	return &Store{
		files:          map[uuid.UUID]model.File{},
		folders:        map[uuid.UUID]model.Folder{},
		folderHistory:  map[uuid.UUID][]model.Folder{},
		connectionName: connectionName,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func notFound(message string, id string) error {
	return apierror.New("NOT_FOUND", message, id, http.StatusNotFound)
}

func badRequest(message string, details string) error {
	return apierror.New("BAD_REQUEST", message, details, http.StatusBadRequest)
}

func conflict(message string, details string) error {
	return apierror.New("CONFLICT", message, details, http.StatusConflict)
}

func (s *Store) ListFiles(includeDeleted bool, folderID *uuid.UUID) []model.File {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.File, 0, len(s.files))
	for _, f := range s.files {
		if f.Deleted && !includeDeleted {
			continue
		}
		if folderID != nil && (f.FolderID == nil || *f.FolderID != *folderID) {
			continue
		}
		out = append(out, f)
	}

	sortFiles(out)
	return out
}

func (s *Store) File(id uuid.UUID) (model.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok {
		return model.File{}, notFound("File not found", id.String())
	}
	return f, nil
}

func (s *Store) FileByNameAndClaim(name string, claim string) (model.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.files {
		if !f.Deleted && f.Name == name && f.FhClaimNumber == claim {
			return f, nil
		}
	}
	return model.File{}, notFound("File not found", claim+"/"+name)
}

// VirtualPath renders the folder chain of a file as a slash-separated path.
func (s *Store) VirtualPath(id uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok {
		return "", notFound("File not found", id.String())
	}

	segments := []string{f.Name}
	seen := map[uuid.UUID]bool{}
	for next := f.FolderID; next != nil; {
		folder, ok := s.folders[*next]
		if !ok || seen[folder.ID] {
			break
		}
		seen[folder.ID] = true
		segments = append([]string{folder.Name}, segments...)
		next = folder.ParentFolderID
	}

	return "/" + path.Join(segments...), nil
}

func (s *Store) InsertFiles(files []model.File) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := map[string]bool{}
	pendingIDs := map[uuid.UUID]bool{}
	for i := range files {
		if err := s.checkFileLocked(files[i], uuid.Nil); err != nil {
			return nil, err
		}
		key := files[i].FhClaimNumber + "/" + files[i].Name
		if pending[key] {
			return nil, conflict("File already exists", key)
		}
		pending[key] = true

		if id := files[i].ID; id != uuid.Nil {
			if pendingIDs[id] {
				return nil, conflict("File already exists", id.String())
			}
			pendingIDs[id] = true
		}
	}

	ids := make([]uuid.UUID, 0, len(files))
	for _, f := range files {
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		s.files[f.ID] = f
		ids = append(ids, f.ID)
	}

	return ids, nil
}

func (s *Store) UpdateFile(f model.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[f.ID]; !ok {
		return notFound("File not found", f.ID.String())
	}
	if err := s.checkFileLocked(f, f.ID); err != nil {
		return err
	}

	s.files[f.ID] = f
	return nil
}

func (s *Store) checkFileLocked(f model.File, self uuid.UUID) error {
	if err := f.Validate(); err != nil {
		return badRequest("Invalid file", err.Error())
	}
	if f.ID != uuid.Nil && f.ID != self {
		if _, exists := s.files[f.ID]; exists {
			return conflict("File already exists", f.ID.String())
		}
	}
	if f.FolderID != nil {
		if _, ok := s.folders[*f.FolderID]; !ok {
			return badRequest("Folder does not exist", f.FolderID.String())
		}
	}
	for _, existing := range s.files {
		if existing.ID != self && !existing.Deleted && existing.Name == f.Name && existing.FhClaimNumber == f.FhClaimNumber {
			return conflict("File already exists", f.FhClaimNumber+"/"+f.Name)
		}
	}
	return nil
}

func (s *Store) SoftDeleteFile(id uuid.UUID, modifiedBy string) error {
	if strings.TrimSpace(modifiedBy) == "" {
		return badRequest("modifiedBy is required", "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return notFound("File not found", id.String())
	}
	f.Deleted = true
	f.ModifiedBy = modifiedBy
	s.files[id] = f
	return nil
}

func (s *Store) PhysicalDeleteFile(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return notFound("File not found", id.String())
	}
	delete(s.files, id)
	return nil
}

func (s *Store) ListFolders(includeDeleted bool, match func(model.Folder) bool) []model.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Folder, 0, len(s.folders))
	for _, f := range s.folders {
		if f.Deleted && !includeDeleted {
			continue
		}
		if match != nil && !match(f) {
			continue
		}
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (s *Store) Folder(id uuid.UUID) (model.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.folders[id]
	if !ok {
		return model.Folder{}, notFound("Folder not found", id.String())
	}
	return f, nil
}

// FoldersByClaim returns folders holding live files of the claim.
func (s *Store) FoldersByClaim(claim string) []model.Folder {
	s.mu.RLock()
	ids := map[uuid.UUID]bool{}
	for _, f := range s.files {
		if !f.Deleted && f.FhClaimNumber == claim && f.FolderID != nil {
			ids[*f.FolderID] = true
		}
	}
	s.mu.RUnlock()

	return s.ListFolders(false, func(f model.Folder) bool { return ids[f.ID] })
}

// FolderHistory returns superseded versions of a folder, oldest first.
func (s *Store) FolderHistory(id uuid.UUID) []model.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.Folder(nil), s.folderHistory[id]...)
}

func (s *Store) InsertFolder(f model.Folder) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkFolderLocked(f); err != nil {
		return uuid.Nil, err
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	} else if _, exists := s.folders[f.ID]; exists {
		return uuid.Nil, conflict("Folder already exists", f.ID.String())
	}

	f.ValidFrom = s.now()
	f.ValidTo = EndOfTime
	s.folders[f.ID] = f
	return f.ID, nil
}

func (s *Store) UpdateFolder(f model.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.folders[f.ID]
	if !ok {
		return notFound("Folder not found", f.ID.String())
	}
	if err := s.checkFolderLocked(f); err != nil {
		return err
	}
	if f.ParentFolderID != nil && *f.ParentFolderID == f.ID {
		return badRequest("Folder cannot be its own parent", f.ID.String())
	}

	s.supersedeLocked(current)
	f.ValidFrom = s.now()
	f.ValidTo = EndOfTime
	s.folders[f.ID] = f
	return nil
}

func (s *Store) checkFolderLocked(f model.Folder) error {
	if err := f.Validate(); err != nil {
		return badRequest("Invalid folder", err.Error())
	}
	if f.ParentFolderID != nil {
		if _, ok := s.folders[*f.ParentFolderID]; !ok {
			return badRequest("Parent folder does not exist", f.ParentFolderID.String())
		}
	}
	return nil
}

func (s *Store) supersedeLocked(current model.Folder) {
	current.ValidTo = s.now()
	s.folderHistory[current.ID] = append(s.folderHistory[current.ID], current)
}

func (s *Store) SoftDeleteFolder(id uuid.UUID, modifiedBy string) error {
	if strings.TrimSpace(modifiedBy) == "" {
		return badRequest("modifiedBy is required", "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok {
		return notFound("Folder not found", id.String())
	}

	s.supersedeLocked(f)
	f.Deleted = true
	f.ModifiedBy = modifiedBy
	f.ValidFrom = s.now()
	f.ValidTo = EndOfTime
	s.folders[id] = f
	return nil
}

// PhysicalDeleteFolder refuses to orphan files or child folders.
func (s *Store) PhysicalDeleteFolder(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[id]; !ok {
		return notFound("Folder not found", id.String())
	}
	for _, f := range s.folders {
		if f.ParentFolderID != nil && *f.ParentFolderID == id {
			return conflict("Folder has child folders", id.String())
		}
	}
	for _, f := range s.files {
		if f.FolderID != nil && *f.FolderID == id {
			return conflict("Folder still holds files", id.String())
		}
	}

	delete(s.folders, id)
	delete(s.folderHistory, id)
	return nil
}

func (s *Store) InsertFileViewAudit(a model.FileViewAudit) error {
	if err := a.Validate(); err != nil {
		return badRequest("Invalid file view audit", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if a.FileID != nil {
		if _, ok := s.files[*a.FileID]; !ok {
			return badRequest("File does not exist", a.FileID.String())
		}
	}
	s.viewAudits = append(s.viewAudits, a)
	return nil
}

func (s *Store) FileViewAudits() []model.FileViewAudit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.FileViewAudit(nil), s.viewAudits...)
}

func (s *Store) InsertOriginalFileDeleteAudit(a model.OriginalFileDeleteAudit) error {
	if err := a.Validate(); err != nil {
		return badRequest("Invalid original file delete audit", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteAudits = append(s.deleteAudits, a)
	return nil
}

func (s *Store) PhysicalDeleteOriginalFileDeleteAudit(claim string, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.deleteAudits[:0]
	removed := 0
	for _, a := range s.deleteAudits {
		if a.FhClaimNumber == claim && a.FileName == fileName {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	s.deleteAudits = kept

	if removed == 0 {
		return notFound("Original file delete audit not found", claim+"/"+fileName)
	}
	return nil
}

func (s *Store) OriginalFileDeleteAudits() []model.OriginalFileDeleteAudit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.OriginalFileDeleteAudit(nil), s.deleteAudits...)
}

func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) ConnectionName() string {
	return s.connectionName
}

func sortFiles(files []model.File) {
	sort.Slice(files, func(i, j int) bool {
		if files[i].FhClaimNumber != files[j].FhClaimNumber {
			return files[i].FhClaimNumber < files[j].FhClaimNumber
		}
		if files[i].Name != files[j].Name {
			return files[i].Name < files[j].Name
		}
		return files[i].ID.String() < files[j].ID.String()
	})
}
