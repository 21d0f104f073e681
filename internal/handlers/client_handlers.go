package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"relancer/internal/common"
	"relancer/internal/services"

	"github.com/labstack/echo/v4"
)

// ClientHandlers handles HTTP requests for clients
type ClientHandlers struct {
	clientService services.ClientService
}

func NewClientHandlers(clientService services.ClientService) *ClientHandlers {
	return &ClientHandlers{clientService: clientService}
}

// ListClients handles GET /clients
func (h *ClientHandlers) ListClients(c echo.Context) error {
	ctx := c.Request().Context()

	activeOnly := true
	if raw := c.QueryParam("active_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return common.SendValidationError(c, "active_only", "must be a boolean")
		}
		activeOnly = parsed
	}
	limit, offset := parsePagination(c)

	clients, err := h.clientService.List(ctx, activeOnly, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list clients: "+err.Error())
	}
	return c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /clients/:id
func (h *ClientHandlers) GetClient(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	client, err := h.clientService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			return common.SendNotFoundError(c, "client")
		}
		return common.SendServerError(c, "Failed to get client: "+err.Error())
	}
	return c.JSON(http.StatusOK, client)
}

// CreateClient handles POST /clients
func (h *ClientHandlers) CreateClient(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	client, err := h.clientService.Create(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, client)
}

// UpdateClient handles PUT /clients/:id
func (h *ClientHandlers) UpdateClient(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req services.UpdateClientRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	client, err := h.clientService.Update(ctx, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			return common.SendNotFoundError(c, "client")
		case errors.Is(err, services.ErrDuplicateEmail):
			return common.SendConflictError(c, err.Error())
		default:
			return common.SendServerError(c, "Failed to update client: "+err.Error())
		}
	}
	return c.JSON(http.StatusOK, client)
}

// DeactivateClient handles DELETE /clients/:id (soft delete)
func (h *ClientHandlers) DeactivateClient(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.clientService.Deactivate(ctx, id); err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			return common.SendNotFoundError(c, "client")
		}
		return common.SendServerError(c, "Failed to deactivate client: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "client deactivated"})
}

// PurgeClient handles DELETE /clients/:id/purge, the explicit cascade.
func (h *ClientHandlers) PurgeClient(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.clientService.Purge(ctx, id); err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			return common.SendNotFoundError(c, "client")
		case errors.Is(err, services.ErrClientHasSentReminders):
			return common.SendConflictError(c, err.Error())
		default:
			return common.SendServerError(c, "Failed to purge client: "+err.Error())
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "client deleted"})
}

func parsePagination(c echo.Context) (limit, offset int) {
	limit = 100
	offset = 0
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
