package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

// PaymentHandler handles HTTP requests for payment operations.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type createPaymentRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	ClientID    int64   `json:"client_id" validate:"required"`
	CaseID      int64   `json:"case_id"`
	Method      string  `json:"method" validate:"omitempty,oneof=credit_card bank_transfer cash"`
}

type updatePaymentRequest struct {
	Amount      *float64 `json:"amount" validate:"omitempty,gt=0"`
	Description *string  `json:"description"`
	Status      *string  `json:"status" validate:"omitempty,oneof=pending completed failed refunded"`
	Method      *string  `json:"method" validate:"omitempty,oneof=credit_card bank_transfer cash"`
}

// Create handles POST /v1/payments. Staff only.
//
// @Summary      Issue a payment request
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPaymentRequest  true  "Payment details"
// @Success      201   {object}  domain.Payment
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	created, err := h.service.Create(c.Request().Context(), actor, ports.CreatePaymentInput{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		ClientID:    req.ClientID,
		CaseID:      req.CaseID,
		Method:      domain.PaymentMethod(req.Method),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// List handles GET /v1/payments. Staff see everything; clients their own.
//
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        client_id  query     int     false  "Filter by client (staff only)"
// @Success      200        {array}   domain.Payment
// @Router       /v1/payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	status := domain.PaymentStatus(c.QueryParam("status"))

	var payments []domain.Payment
	if actor.Staff() {
		filter := ports.PaymentFilter{Status: status}
		filter.ClientID, _ = strconv.ParseInt(c.QueryParam("client_id"), 10, 64)
		payments, err = h.service.ListAll(c.Request().Context(), actor, filter)
	} else {
		payments, err = h.service.ListOwn(c.Request().Context(), actor, status)
	}
	if err != nil {
		return err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return c.JSON(http.StatusOK, payments)
}

// Get handles GET /v1/payments/:id.
//
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Payment ID"
// @Success      200  {object}  domain.Payment
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	p, err := h.service.Get(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Update handles PUT /v1/payments/:id. Staff only.
//
// @Summary      Update a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Payment ID"
// @Param        body  body      updatePaymentRequest  true  "Fields to update"
// @Success      200   {object}  domain.Payment
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/payments/{id} [put]
func (h *PaymentHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	input := ports.UpdatePaymentInput{
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.PaymentStatus(*req.Status)
		input.Status = &status
	}
	if req.Method != nil {
		method := domain.PaymentMethod(*req.Method)
		input.Method = &method
	}

	updated, err := h.service.Update(c.Request().Context(), actor, id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/payments/:id. Staff only.
//
// @Summary      Delete a payment
// @Tags         payments
// @Security     BearerAuth
// @Param        id  path  int  true  "Payment ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/payments/{id} [delete]
func (h *PaymentHandler) Delete(c echo.Context) error {
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
