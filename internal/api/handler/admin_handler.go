package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

// AdminHandler serves the management surface: client accounts and statistics.
// All routes are behind the staff RBAC middleware.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type createClientRequest struct {
	FullName        string `json:"full_name" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone"`
	UserType        string `json:"user_type" validate:"omitempty,oneof=individual corporate"`
	NationalID      string `json:"tc_kimlik" validate:"omitempty,len=11,numeric"`
	TaxNumber       string `json:"tax_number" validate:"omitempty,len=10,numeric"`
	CompanyName     string `json:"company_name"`
	Address         string `json:"address"`
	BankAccountInfo string `json:"bank_account_info"`
}

type createClientResponse struct {
	User *domain.User `json:"user"`
	// TempPassword is shown to staff exactly once; it is never stored in
	// the clear.
	TempPassword string `json:"temp_password"`
}

// ListClients handles GET /v1/admin/clients.
//
// @Summary      List client accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search     query     string  false  "Match name, email, TC kimlik, tax number or company"
// @Param        user_type  query     string  false  "individual or corporate"
// @Param        skip       query     int     false  "Pagination offset"
// @Param        limit      query     int     false  "Page size"
// @Success      200        {array}   domain.User
// @Failure      403        {object}  map[string]string
// @Router       /v1/admin/clients [get]
func (h *AdminHandler) ListClients(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	filter := ports.ClientFilter{
		Search: c.QueryParam("search"),
		Role:   domain.Role(c.QueryParam("user_type")),
	}
	filter.Skip, _ = strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	clients, err := h.service.ListClients(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	if clients == nil {
		clients = []domain.User{}
	}
	return c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /v1/admin/clients/:id.
//
// @Summary      Get a client account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Client ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /v1/admin/clients/{id} [get]
func (h *AdminHandler) GetClient(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	client, err := h.service.GetClient(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// CreateClient handles POST /v1/admin/clients. The response carries the
// generated temporary password; the account must change it on first login.
//
// @Summary      Create a client account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  createClientResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/admin/clients [post]
func (h *AdminHandler) CreateClient(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	created, err := h.service.CreateClient(c.Request().Context(), actor, ports.CreateClientInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		Role:            domain.Role(req.UserType),
		NationalID:      req.NationalID,
		TaxNumber:       req.TaxNumber,
		CompanyName:     req.CompanyName,
		Address:         req.Address,
		BankAccountInfo: req.BankAccountInfo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createClientResponse{
		User:         created.User,
		TempPassword: created.TempPassword,
	})
}

// Statistics handles GET /v1/admin/statistics.
//
// @Summary      Firm-wide statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.Statistics
// @Failure      403  {object}  map[string]string
// @Router       /v1/admin/statistics [get]
func (h *AdminHandler) Statistics(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Statistics(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
