package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/appclub-tech/Billog-sub001/internal/apperrors"
	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/appclub-tech/Billog-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyFromCode resolves the currency query/body parameter, defaulting to
// THB when absent. The chat product launched in Thailand; most sources never
// set a currency explicitly.
func currencyFromCode(code string) (domain.Currency, error) {
	if code == "" {
		code = "THB"
	}
	return domain.CurrencyByCode(code)
}

// requireCallerID fetches the acting user from the request context or aborts
// with 401. Writes need attribution for the audit fields.
func requireCallerID(c *gin.Context, logger *slog.Logger) (string, bool) {
	callerID, ok := middleware.GetCallerIDFromContext(c)
	if !ok {
		logger.Warn("Caller ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-Caller-ID header required"})
		return "", false
	}
	return callerID, true
}

// respondServiceError maps service-layer errors onto HTTP statuses. The
// fallback message keeps internal details out of 500 responses.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflicting state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
