package controllers

import (
	"context"
	"errors"
	"net/http"

	"product-catalog/apperrors"
	"product-catalog/logger"
	"product-catalog/services"

	"github.com/gin-gonic/gin"
)

var errTimeout = errors.New("request timed out")

// handleQueryError maps a failed catalog read onto an API error.
func handleQueryError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		_ = c.Error(apperrors.New(http.StatusGatewayTimeout, "Request timed out", errTimeout))
		return
	}
	logger.Error(c, "Failed to query products", err)
	_ = c.Error(apperrors.Internal(err))
}

// handleMutationError maps a failed add/update/delete onto an API error.
// Validation failures are the caller's fault, anything else is ours.
func handleMutationError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, services.ErrInvalidProduct):
		_ = c.Error(apperrors.BadRequest(msg, err))
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		_ = c.Error(apperrors.New(http.StatusGatewayTimeout, "Request timed out", errTimeout))
	default:
		logger.Error(c, msg, err)
		_ = c.Error(apperrors.New(http.StatusInternalServerError, msg, err))
	}
}
