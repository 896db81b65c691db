package ports

import (
	"context"
	"io"

	"github.com/koptay/client-portal/internal/core/domain"
)

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	CaseID int64
	Type   domain.DocumentType
}

// DocumentRepository defines persistence for document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, d *domain.Document) (*domain.Document, error)
	FindByID(ctx context.Context, id int64) (*domain.Document, error)
	Delete(ctx context.Context, id int64) error
	// List returns documents matching the filter. When ownerID is non-zero
	// only documents the given client may see are returned: their own
	// uploads plus client-visible documents on their cases.
	List(ctx context.Context, filter DocumentFilter, ownerID int64) ([]domain.Document, error)
	CountAll(ctx context.Context) (int64, error)
}

// FileStore persists document content, keyed by stored name.
type FileStore interface {
	Save(ctx context.Context, storedName string, content []byte) error
	Open(ctx context.Context, storedName string) (io.ReadCloser, error)
	Remove(ctx context.Context, storedName string) error
}

// UploadDocumentInput carries an upload request; Content is the full file.
type UploadDocumentInput struct {
	Filename        string
	Content         []byte
	Type            domain.DocumentType
	Description     string
	VisibleToClient bool
	CaseID          int64
}

// DocumentService owns upload, listing, download and deletion of documents.
type DocumentService interface {
	Upload(ctx context.Context, actor Actor, input UploadDocumentInput) (*domain.Document, error)
	Get(ctx context.Context, actor Actor, id int64) (*domain.Document, error)
	List(ctx context.Context, actor Actor, filter DocumentFilter) ([]domain.Document, error)
	// Download returns the metadata and a reader over the stored content.
	// The caller closes the reader.
	Download(ctx context.Context, actor Actor, id int64) (*domain.Document, io.ReadCloser, error)
	Delete(ctx context.Context, actor Actor, id int64) error
}
