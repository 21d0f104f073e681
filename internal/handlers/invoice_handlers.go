package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"relancer/internal/common"
	"relancer/internal/models"
	"relancer/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	invoiceService services.InvoiceService
}

func NewInvoiceHandlers(invoiceService services.InvoiceService) *InvoiceHandlers {
	return &InvoiceHandlers{invoiceService: invoiceService}
}

type createInvoiceRequest struct {
	ClientID      string          `json:"client_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	IssueDate     string          `json:"issue_date"`
	DueDate       string          `json:"due_date"`
	Description   *string         `json:"description"`
}

type updateInvoiceRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Currency    *string          `json:"currency"`
	IssueDate   *string          `json:"issue_date"`
	DueDate     *string          `json:"due_date"`
	Status      *string          `json:"status"`
	Description *string          `json:"description"`
}

// ListInvoices handles GET /invoices with optional status, client_id
// and overdue_only filters.
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := parsePagination(c)

	if raw := c.QueryParam("overdue_only"); raw != "" {
		overdueOnly, err := strconv.ParseBool(raw)
		if err != nil {
			return common.SendValidationError(c, "overdue_only", "must be a boolean")
		}
		if overdueOnly {
			invoices, err := h.invoiceService.ListOverdue(ctx, time.Now(), limit, offset)
			if err != nil {
				return common.SendServerError(c, "Failed to list invoices: "+err.Error())
			}
			return c.JSON(http.StatusOK, invoices)
		}
	}

	if raw := c.QueryParam("status"); raw != "" {
		invoices, err := h.invoiceService.ListByStatus(ctx, models.InvoiceStatus(raw), limit, offset)
		if err != nil {
			return common.SendServerError(c, "Failed to list invoices: "+err.Error())
		}
		return c.JSON(http.StatusOK, invoices)
	}

	if raw := c.QueryParam("client_id"); raw != "" {
		clientID, err := common.ValidateUUID(raw, "client_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		invoices, err := h.invoiceService.ListByClient(ctx, clientID, limit, offset)
		if err != nil {
			return common.SendServerError(c, "Failed to list invoices: "+err.Error())
		}
		return c.JSON(http.StatusOK, invoices)
	}

	invoices, err := h.invoiceService.List(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices: "+err.Error())
	}
	return c.JSON(http.StatusOK, invoices)
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to get invoice: "+err.Error())
	}
	return c.JSON(http.StatusOK, invoice)
}

// CreateInvoice handles POST /invoices. Creation plans the reminder
// schedule against the current default sequence.
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	clientID, err := common.ValidateUUID(req.ClientID, "client_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	issueDate, err := time.Parse(dateLayout, req.IssueDate)
	if err != nil {
		return common.SendValidationError(c, "issue_date", "must be formatted YYYY-MM-DD")
	}
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return common.SendValidationError(c, "due_date", "must be formatted YYYY-MM-DD")
	}

	invoice, err := h.invoiceService.Create(ctx, &services.CreateInvoiceRequest{
		ClientID:      clientID,
		InvoiceNumber: req.InvoiceNumber,
		Amount:        req.Amount,
		Currency:      req.Currency,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Description:   req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			return common.SendNotFoundError(c, "client")
		case errors.Is(err, services.ErrDuplicateInvoiceNumber):
			return common.SendConflictError(c, err.Error())
		case errors.Is(err, services.ErrAmountNotPositive):
			return common.SendValidationError(c, "amount", err.Error())
		default:
			return common.SendClientError(c, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, invoice)
}

// UpdateInvoice handles PUT /invoices/:id
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req updateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	update := &services.UpdateInvoiceRequest{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
	}
	if req.IssueDate != nil {
		parsed, err := time.Parse(dateLayout, *req.IssueDate)
		if err != nil {
			return common.SendValidationError(c, "issue_date", "must be formatted YYYY-MM-DD")
		}
		update.IssueDate = &parsed
	}
	if req.DueDate != nil {
		parsed, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return common.SendValidationError(c, "due_date", "must be formatted YYYY-MM-DD")
		}
		update.DueDate = &parsed
	}
	if req.Status != nil {
		status := models.InvoiceStatus(*req.Status)
		switch status {
		case models.InvoiceStatusPending, models.InvoiceStatusPaid, models.InvoiceStatusOverdue, models.InvoiceStatusCancelled:
			update.Status = &status
		default:
			return common.SendValidationError(c, "status", "unknown invoice status")
		}
	}

	invoice, err := h.invoiceService.Update(ctx, id, update)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvoiceNotFound):
			return common.SendNotFoundError(c, "invoice")
		case errors.Is(err, services.ErrAmountNotPositive):
			return common.SendValidationError(c, "amount", err.Error())
		default:
			return common.SendServerError(c, "Failed to update invoice: "+err.Error())
		}
	}
	return c.JSON(http.StatusOK, invoice)
}

// MarkInvoicePaid handles POST /invoices/:id/mark-paid
func (h *InvoiceHandlers) MarkInvoicePaid(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.MarkPaid(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to mark invoice paid: "+err.Error())
	}
	return c.JSON(http.StatusOK, invoice)
}
