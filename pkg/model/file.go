package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	MaxClaimNumberLength = 15
	MaxNameLength        = 100
	MaxFileTypeLength    = 10
	MaxUserLength        = 100
)

// File is a document record stored by the DocMan API.
// ID is left as uuid.Nil on insert; the API assigns it.
type File struct {
	ID            uuid.UUID  `json:"id"`
	FhClaimNumber string     `json:"fhClaimNumber"`
	Name          string     `json:"name"`
	FileType      string     `json:"fileType"`
	FolderID      *uuid.UUID `json:"folderId,omitempty"`
	KeyVersion    int        `json:"keyVersion"`
	Deleted       bool       `json:"deleted"`
	ModifiedBy    string     `json:"modifiedBy"`
}

func (f File) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FhClaimNumber, validation.Required, validation.RuneLength(0, MaxClaimNumberLength)),
		validation.Field(&f.Name, validation.Required, validation.RuneLength(0, MaxNameLength)),
		validation.Field(&f.FileType, validation.Required, validation.RuneLength(0, MaxFileTypeLength)),
		validation.Field(&f.KeyVersion, validation.Min(0)),
		validation.Field(&f.ModifiedBy, validation.Required, validation.RuneLength(0, MaxUserLength)),
	)
}
