package handlers

import (
	"errors"
	"net/http"

	"relancer/internal/common"
	"relancer/internal/models"
	"relancer/internal/services"

	"github.com/labstack/echo/v4"
)

// ReminderHandlers handles HTTP requests for reminders
type ReminderHandlers struct {
	reminderService services.ReminderService
}

func NewReminderHandlers(reminderService services.ReminderService) *ReminderHandlers {
	return &ReminderHandlers{reminderService: reminderService}
}

type dispatchResponse struct {
	Reminder *models.Reminder `json:"reminder"`
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
}

// ListReminders handles GET /reminders with optional status and
// invoice_id filters.
func (h *ReminderHandlers) ListReminders(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := parsePagination(c)

	if raw := c.QueryParam("invoice_id"); raw != "" {
		invoiceID, err := common.ValidateUUID(raw, "invoice_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		reminders, err := h.reminderService.ListByInvoice(ctx, invoiceID)
		if err != nil {
			return common.SendServerError(c, "Failed to list reminders: "+err.Error())
		}
		return c.JSON(http.StatusOK, reminders)
	}

	if raw := c.QueryParam("status"); raw != "" {
		status := models.ReminderStatus(raw)
		switch status {
		case models.ReminderStatusPending, models.ReminderStatusSent, models.ReminderStatusFailed, models.ReminderStatusCancelled:
		default:
			return common.SendValidationError(c, "status", "unknown reminder status")
		}
		reminders, err := h.reminderService.ListByStatus(ctx, status, limit, offset)
		if err != nil {
			return common.SendServerError(c, "Failed to list reminders: "+err.Error())
		}
		return c.JSON(http.StatusOK, reminders)
	}

	reminders, err := h.reminderService.List(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list reminders: "+err.Error())
	}
	return c.JSON(http.StatusOK, reminders)
}

// GetReminder handles GET /reminders/:id
func (h *ReminderHandlers) GetReminder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	reminder, err := h.reminderService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrReminderNotFound) {
			return common.SendNotFoundError(c, "reminder")
		}
		return common.SendServerError(c, "Failed to get reminder: "+err.Error())
	}
	return c.JSON(http.StatusOK, reminder)
}

// SendReminder handles POST /reminders/:id/send. Only pending
// reminders can be sent manually.
func (h *ReminderHandlers) SendReminder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	reminder, result, err := h.reminderService.SendNow(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReminderNotFound):
			return common.SendNotFoundError(c, "reminder")
		case errors.Is(err, services.ErrReminderNotPending):
			return common.SendConflictError(c, err.Error())
		default:
			return common.SendServerError(c, "Failed to send reminder: "+err.Error())
		}
	}
	return c.JSON(http.StatusOK, dispatchResponse{Reminder: reminder, Success: result.Success, Message: result.Message})
}

// RetryReminder handles POST /reminders/:id/retry. Only failed
// reminders are eligible for retry.
func (h *ReminderHandlers) RetryReminder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	reminder, result, err := h.reminderService.Retry(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReminderNotFound):
			return common.SendNotFoundError(c, "reminder")
		case errors.Is(err, services.ErrReminderNotFailed):
			return common.SendConflictError(c, err.Error())
		default:
			return common.SendServerError(c, "Failed to retry reminder: "+err.Error())
		}
	}
	return c.JSON(http.StatusOK, dispatchResponse{Reminder: reminder, Success: result.Success, Message: result.Message})
}
