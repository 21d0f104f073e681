package handlers

import (
	"errors"
	"net/http"

	"relancer/internal/common"
	"relancer/internal/services"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// SequenceHandlers handles HTTP requests for reminder sequences
type SequenceHandlers struct {
	sequenceService services.SequenceService
}

func NewSequenceHandlers(sequenceService services.SequenceService) *SequenceHandlers {
	return &SequenceHandlers{sequenceService: sequenceService}
}

// ListSequences handles GET /sequences
func (h *SequenceHandlers) ListSequences(c echo.Context) error {
	ctx := c.Request().Context()

	sequences, err := h.sequenceService.List(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to list sequences: "+err.Error())
	}
	return c.JSON(http.StatusOK, sequences)
}

// GetSequence handles GET /sequences/:id
func (h *SequenceHandlers) GetSequence(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	sequence, err := h.sequenceService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "sequence")
		}
		return common.SendServerError(c, "Failed to get sequence: "+err.Error())
	}
	return c.JSON(http.StatusOK, sequence)
}

// GetDefaultSequence handles GET /sequences/default
func (h *SequenceHandlers) GetDefaultSequence(c echo.Context) error {
	ctx := c.Request().Context()

	sequence, err := h.sequenceService.GetDefault(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to get default sequence: "+err.Error())
	}
	if sequence == nil {
		return common.SendNotFoundError(c, "default sequence")
	}
	return c.JSON(http.StatusOK, sequence)
}

// CreateSequence handles POST /sequences. A sequence created with
// is_default set becomes the new default for future planning.
func (h *SequenceHandlers) CreateSequence(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.CreateSequenceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	sequence, err := h.sequenceService.Create(ctx, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, sequence)
}
