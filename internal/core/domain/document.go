package domain

import (
	"errors"
	"time"
)

// DocumentType categorizes uploaded files.
type DocumentType string

const (
	DocContract       DocumentType = "contract"
	DocPetition       DocumentType = "petition"
	DocDecision       DocumentType = "decision"
	DocEvidence       DocumentType = "evidence"
	DocCorrespondence DocumentType = "correspondence"
	DocInvoice        DocumentType = "invoice"
	DocOther          DocumentType = "other"
)

var ErrDocumentNotFound = errors.New("document not found")
var ErrFileTypeNotAllowed = errors.New("file type not allowed")
var ErrFileTooLarge = errors.New("file too large")

// Document is the metadata record of a stored file. The file content itself
// lives in the file store under StoredName; OriginalName is what the uploader
// called it and what downloads are served as.
type Document struct {
	ID              int64        `json:"id" bson:"_id"`
	StoredName      string       `json:"-" bson:"stored_name"`
	OriginalName    string       `json:"filename" bson:"original_name"`
	Size            int64        `json:"file_size" bson:"size"`
	MimeType        string       `json:"mime_type" bson:"mime_type"`
	Type            DocumentType `json:"document_type" bson:"document_type"`
	Description     string       `json:"description,omitempty" bson:"description,omitempty"`
	VisibleToClient bool         `json:"is_visible_to_client" bson:"visible_to_client"`
	UploaderID      int64        `json:"uploader_id" bson:"uploader_id"`
	CaseID          int64        `json:"case_id,omitempty" bson:"case_id,omitempty"`
	UploadedAt      time.Time    `json:"uploaded_at" bson:"uploaded_at"`
}
