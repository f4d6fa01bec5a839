package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// FileViewAudit records that a user opened a file. It is insert-only.
type FileViewAudit struct {
	FileID   *uuid.UUID `json:"fileId,omitempty"`
	ViewedBy string     `json:"viewedBy"`
}

func (a FileViewAudit) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ViewedBy, validation.Required, validation.RuneLength(0, MaxUserLength)),
	)
}

// OriginalFileDeleteAudit records the removal of an original upload.
// It is never updated; only an administrative physical delete removes it.
type OriginalFileDeleteAudit struct {
	FhClaimNumber string `json:"fhClaimNumber"`
	FileName      string `json:"fileName"`
	DeletedBy     string `json:"deletedBy"`
}

func (a OriginalFileDeleteAudit) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.FhClaimNumber, validation.Required, validation.RuneLength(0, MaxClaimNumberLength)),
		validation.Field(&a.FileName, validation.Required, validation.RuneLength(0, MaxNameLength)),
		validation.Field(&a.DeletedBy, validation.Required, validation.RuneLength(0, MaxUserLength)),
	)
}
