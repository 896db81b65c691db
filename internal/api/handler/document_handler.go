package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
	"github.com/koptay/client-portal/internal/core/service"
)

// DocumentHandler handles HTTP requests for document operations. Uploads are
// multipart; downloads stream the stored content.
type DocumentHandler struct {
	service ports.DocumentService
}

func NewDocumentHandler(service ports.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Upload handles POST /v1/documents.
//
// @Summary      Upload a document
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file                 formData  file    true   "File content (max 10 MiB)"
// @Param        document_type        formData  string  false  "Document category"
// @Param        description          formData  string  false  "Description"
// @Param        case_id              formData  int     false  "Case to attach the document to"
// @Param        is_visible_to_client formData  bool    false  "Client visibility"
// @Success      201  {object}  domain.Document
// @Failure      400  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Router       /v1/documents [post]
func (h *DocumentHandler) Upload(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	if fh.Size > service.MaxDocumentSize {
		return domain.ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, service.MaxDocumentSize+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	caseID, _ := strconv.ParseInt(c.FormValue("case_id"), 10, 64)
	visible, _ := strconv.ParseBool(c.FormValue("is_visible_to_client"))

	created, err := h.service.Upload(c.Request().Context(), actor, ports.UploadDocumentInput{
		Filename:        fh.Filename,
		Content:         content,
		Type:            domain.DocumentType(c.FormValue("document_type")),
		Description:     c.FormValue("description"),
		VisibleToClient: visible,
		CaseID:          caseID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// List handles GET /v1/documents.
//
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        case_id        query     int     false  "Filter by case"
// @Param        document_type  query     string  false  "Filter by category"
// @Success      200  {array}  domain.Document
// @Router       /v1/documents [get]
func (h *DocumentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	filter := ports.DocumentFilter{
		Type: domain.DocumentType(c.QueryParam("document_type")),
	}
	filter.CaseID, _ = strconv.ParseInt(c.QueryParam("case_id"), 10, 64)

	docs, err := h.service.List(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// Get handles GET /v1/documents/:id.
//
// @Summary      Get document metadata
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/documents/{id} [get]
func (h *DocumentHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	doc, err := h.service.Get(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Download handles GET /v1/documents/:id/download. The response is served
// under the uploader's original filename.
//
// @Summary      Download document content
// @Tags         documents
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id  path  int  true  "Document ID"
// @Success      200  {file}    binary
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/documents/{id}/download [get]
func (h *DocumentHandler) Download(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	doc, rc, err := h.service.Download(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, doc.OriginalName))
	return c.Stream(http.StatusOK, doc.MimeType, rc)
}

// Delete handles DELETE /v1/documents/:id. Staff only.
//
// @Summary      Delete a document
// @Tags         documents
// @Security     BearerAuth
// @Param        id  path  int  true  "Document ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/documents/{id} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
