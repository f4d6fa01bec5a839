package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Folder is a node of the virtual folder tree. ParentFolderID is nil at the root.
// ValidFrom and ValidTo come from the API's temporal history and are ignored on write.
type Folder struct {
	ID             uuid.UUID  `json:"id"`
	ParentFolderID *uuid.UUID `json:"parentFolderId,omitempty"`
	Name           string     `json:"name"`
	Deleted        bool       `json:"deleted"`
	ModifiedBy     string     `json:"modifiedBy"`
	ValidFrom      time.Time  `json:"validFrom"`
	ValidTo        time.Time  `json:"validTo"`
}

func (f Folder) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.RuneLength(0, MaxNameLength)),
		validation.Field(&f.ModifiedBy, validation.Required, validation.RuneLength(0, MaxUserLength)),
	)
}
