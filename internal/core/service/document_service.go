package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/koptay/client-portal/internal/api/metrics"
	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

// MaxDocumentSize caps uploads at 10 MiB, matching the UI's limit.
const MaxDocumentSize = 10 << 20

var allowedExtensions = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {}, ".jpg": {}, ".jpeg": {},
	".png": {}, ".xlsx": {}, ".xls": {}, ".txt": {},
}

// DocumentService owns document upload, listing, download and deletion.
// Content goes to the file store under a generated name; only metadata is
// kept in the repository.
type DocumentService struct {
	repo     ports.DocumentRepository
	cases    ports.CaseRepository
	store    ports.FileStore
	notifier ports.Notifier
	audit    ports.AuditRecorder
	logger   zerolog.Logger
}

func NewDocumentService(repo ports.DocumentRepository, cases ports.CaseRepository, store ports.FileStore, notifier ports.Notifier, audit ports.AuditRecorder, logger zerolog.Logger) *DocumentService {
	return &DocumentService{repo: repo, cases: cases, store: store, notifier: notifier, audit: audit, logger: logger}
}

func (s *DocumentService) Upload(ctx context.Context, actor ports.Actor, input ports.UploadDocumentInput) (*domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(input.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, domain.ErrFileTypeNotAllowed
	}
	if len(input.Content) > MaxDocumentSize {
		return nil, domain.ErrFileTooLarge
	}

	var boundCase *domain.Case
	if input.CaseID != 0 {
		c, err := s.cases.FindByID(ctx, input.CaseID)
		if err != nil {
			return nil, err
		}
		if !actor.Staff() && c.ClientID != actor.UserID {
			return nil, domain.ErrForbidden
		}
		boundCase = c
	}

	storedName := uuid.NewString() + ext
	if err := s.store.Save(ctx, storedName, input.Content); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	docType := input.Type
	if docType == "" {
		docType = domain.DocOther
	}
	doc := &domain.Document{
		StoredName:      storedName,
		OriginalName:    input.Filename,
		Size:            int64(len(input.Content)),
		MimeType:        mimeTypeFor(ext),
		Type:            docType,
		Description:     input.Description,
		VisibleToClient: input.VisibleToClient,
		UploaderID:      actor.UserID,
		CaseID:          input.CaseID,
		UploadedAt:      time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Metadata write failed; don't leave the orphaned file behind.
		if rmErr := s.store.Remove(ctx, storedName); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("stored_name", storedName).Msg("failed to remove orphaned upload")
		}
		return nil, err
	}

	metrics.DocumentsUploadedTotal.WithLabelValues(string(created.Type)).Inc()
	s.notifyUpload(ctx, actor, created, boundCase)
	s.audit.Record(ctx, actor, ports.AuditInput{
		Action:       domain.AuditCreate,
		ResourceType: "document",
		ResourceID:   created.ID,
		Description:  fmt.Sprintf("uploaded %s", created.OriginalName),
	})
	s.logger.Info().Int64("document_id", created.ID).Str("filename", created.OriginalName).Int64("case_id", created.CaseID).Msg("document uploaded")

	return created, nil
}

func (s *DocumentService) notifyUpload(ctx context.Context, actor ports.Actor, doc *domain.Document, boundCase *domain.Case) {
	switch {
	case boundCase != nil && actor.Staff() && doc.VisibleToClient:
		s.notifier.Notify(ports.NotificationInput{
			UserID:        boundCase.ClientID,
			Title:         "Yeni Evrak Yüklendi",
			Message:       fmt.Sprintf("%s numaralı dosyanıza yeni bir evrak yüklendi: %s", boundCase.CaseNumber, doc.OriginalName),
			Type:          domain.NotifyDocumentUpload,
			Priority:      domain.PriorityMedium,
			RelatedEntity: "document",
			RelatedID:     doc.ID,
			CaseID:        boundCase.ID,
		})
	case boundCase != nil && !actor.Staff():
		s.notifier.NotifyStaff(ctx, ports.NotificationInput{
			Title:         "Müvekkil Evrak Yükledi",
			Message:       fmt.Sprintf("%s, %s numaralı dosyaya evrak yükledi: %s", actor.FullName, boundCase.CaseNumber, doc.OriginalName),
			Type:          domain.NotifyDocumentUpload,
			Priority:      domain.PriorityMedium,
			RelatedEntity: "document",
			RelatedID:     doc.ID,
			CaseID:        boundCase.ID,
		})
	case boundCase == nil && !actor.Staff():
		s.notifier.NotifyStaff(ctx, ports.NotificationInput{
			Title:         "Müvekkil Evrak Yükledi",
			Message:       fmt.Sprintf("%s sisteme yeni bir evrak yükledi: %s", actor.FullName, doc.OriginalName),
			Type:          domain.NotifyDocumentUpload,
			Priority:      domain.PriorityMedium,
			RelatedEntity: "document",
			RelatedID:     doc.ID,
		})
	}
}

func (s *DocumentService) Get(ctx context.Context, actor ports.Actor, id int64) (*domain.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, actor, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, actor ports.Actor, filter ports.DocumentFilter) ([]domain.Document, error) {
	ownerID := int64(0)
	if !actor.Staff() {
		ownerID = actor.UserID
	}
	return s.repo.List(ctx, filter, ownerID)
}

func (s *DocumentService) Download(ctx context.Context, actor ports.Actor, id int64) (*domain.Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, doc.StoredName)
	if err != nil {
		return nil, nil, fmt.Errorf("open document content: %w", err)
	}
	s.audit.Record(ctx, actor, ports.AuditInput{
		Action:       domain.AuditDownload,
		ResourceType: "document",
		ResourceID:   doc.ID,
		Description:  fmt.Sprintf("downloaded %s", doc.OriginalName),
	})
	return doc, rc, nil
}

func (s *DocumentService) Delete(ctx context.Context, actor ports.Actor, id int64) error {
	if !actor.Staff() {
		return domain.ErrForbidden
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, doc.StoredName); err != nil {
		// Metadata is gone; the stray file is harmless but worth a warning.
		s.logger.Warn().Err(err).Str("stored_name", doc.StoredName).Msg("failed to remove stored file")
	}
	s.audit.Record(ctx, actor, ports.AuditInput{
		Action:       domain.AuditDelete,
		ResourceType: "document",
		ResourceID:   doc.ID,
		Description:  fmt.Sprintf("deleted %s", doc.OriginalName),
	})
	return nil
}

// checkAccess applies the document visibility rules for clients: own uploads
// always, case documents only when the case is theirs and the document is
// marked client-visible.
func (s *DocumentService) checkAccess(ctx context.Context, actor ports.Actor, doc *domain.Document) error {
	if actor.Staff() {
		return nil
	}
	if doc.UploaderID == actor.UserID && doc.VisibleToClient {
		return nil
	}
	if doc.CaseID != 0 && doc.VisibleToClient {
		c, err := s.cases.FindByID(ctx, doc.CaseID)
		if err == nil && c.ClientID == actor.UserID {
			return nil
		}
	}
	return domain.ErrForbidden
}

func mimeTypeFor(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
