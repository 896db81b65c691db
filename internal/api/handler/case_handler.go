package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

// CaseHandler handles HTTP requests for case file operations.
type CaseHandler struct {
	service ports.CaseService
}

func NewCaseHandler(service ports.CaseService) *CaseHandler {
	return &CaseHandler{service: service}
}

// Create handles POST /v1/cases.
//
// @Summary      Open a new case file
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCaseRequest  true  "Case details"
// @Success      201   {object}  domain.Case
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/cases [post]
func (h *CaseHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createCaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	created, err := h.service.Create(c.Request().Context(), actor, ports.CreateCaseInput{
		CaseNumber:      req.CaseNumber,
		Title:           req.Title,
		Description:     req.Description,
		Type:            domain.CaseType(req.CaseType),
		CourtName:       req.CourtName,
		FileNumber:      req.FileNumber,
		ClientID:        req.ClientID,
		NextHearingDate: req.NextHearingDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// List handles GET /v1/cases. Clients get their own cases only.
//
// @Summary      List case files
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        case_type  query     string  false  "Filter by case type"
// @Param        client_id  query     int     false  "Filter by client (staff only)"
// @Param        skip       query     int     false  "Pagination offset"
// @Param        limit      query     int     false  "Page size"
// @Success      200        {object}  caseListResponse
// @Router       /v1/cases [get]
func (h *CaseHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	filter := ports.CaseFilter{
		Status: domain.CaseStatus(c.QueryParam("status")),
		Type:   domain.CaseType(c.QueryParam("case_type")),
	}
	filter.ClientID, _ = strconv.ParseInt(c.QueryParam("client_id"), 10, 64)
	filter.Skip, _ = strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	items, total, err := h.service.List(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.Case{}
	}
	return c.JSON(http.StatusOK, caseListResponse{Items: items, Total: total})
}

// Get handles GET /v1/cases/:id.
//
// @Summary      Get a case file
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Case ID"
// @Success      200  {object}  domain.Case
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/cases/{id} [get]
func (h *CaseHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	found, err := h.service.Get(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, found)
}

// Update handles PUT /v1/cases/:id. Staff only.
//
// @Summary      Update a case file
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Case ID"
// @Param        body  body      updateCaseRequest  true  "Fields to update"
// @Success      200   {object}  domain.Case
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/cases/{id} [put]
func (h *CaseHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateCaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	input := ports.UpdateCaseInput{
		Title:           req.Title,
		Description:     req.Description,
		CourtName:       req.CourtName,
		FileNumber:      req.FileNumber,
		NextHearingDate: req.NextHearingDate,
		Stages:          req.Stages,
	}
	if req.Status != nil {
		status := domain.CaseStatus(*req.Status)
		input.Status = &status
	}

	updated, err := h.service.Update(c.Request().Context(), actor, id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/cases/:id. Admin only.
//
// @Summary      Delete a case file
// @Tags         cases
// @Security     BearerAuth
// @Param        id  path  int  true  "Case ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/cases/{id} [delete]
func (h *CaseHandler) Delete(c echo.Context) error {
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

// Timeline handles GET /v1/cases/:id/timeline.
//
// @Summary      Case timeline
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Case ID"
// @Success      200  {array}   domain.TimelineEvent
// @Failure      403  {object}  map[string]string
// @Router       /v1/cases/{id}/timeline [get]
func (h *CaseHandler) Timeline(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	events, err := h.service.Timeline(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	if events == nil {
		events = []domain.TimelineEvent{}
	}
	return c.JSON(http.StatusOK, events)
}

// AddTimelineEvent handles POST /v1/cases/:id/timeline. Staff only.
//
// @Summary      Add a timeline event
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                         true  "Case ID"
// @Param        body  body      createTimelineEventRequest  true  "Event details"
// @Success      201   {object}  domain.TimelineEvent
// @Failure      403   {object}  map[string]string
// @Router       /v1/cases/{id}/timeline [post]
func (h *CaseHandler) AddTimelineEvent(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req createTimelineEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ev, err := h.service.AddTimelineEvent(c.Request().Context(), actor, id, ports.CreateTimelineEventInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ev)
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
