package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vdh-servicedesk/backend/internal/db"
	"github.com/vdh-servicedesk/backend/internal/gateway"
	"github.com/vdh-servicedesk/backend/internal/report"
	"github.com/vdh-servicedesk/backend/internal/workflow"
)

type Handler struct {
	Store     *db.Store
	Engine    *workflow.Engine
	Reports   *report.Runner
	Validator *validator.Validate
	Logger    zerolog.Logger
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Gateway
// failures surface as a generic retry message; driver detail stays in the
// logs.
func (h *Handler) writeDomainError(c *gin.Context, err error) {
	var ve *workflow.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Error(), nil)
	case errors.Is(err, workflow.ErrInvalidStateTransition):
		writeError(c, http.StatusConflict, "INVALID_STATE", "The request is no longer in a state that allows this action", nil)
	case errors.Is(err, workflow.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	case errors.Is(err, report.ErrNotPermitted):
		writeError(c, http.StatusForbidden, "NOT_PERMITTED", "Ad-hoc reporting is not enabled", nil)
	case gateway.IsGatewayError(err):
		h.Logger.Error().Err(err).Msg("gateway failure")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Something went wrong, please try again", nil)
	default:
		h.Logger.Error().Err(err).Msg("unexpected failure")
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Something went wrong, please try again", nil)
	}
}
