package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hzhang91/docchat/domain"
)

// errorJSON maps a domain error to its HTTP status and writes the response.
// Validation and not-found errors are expected and returned verbatim;
// provider and internal errors are logged server-side and returned as a 500.
func (h *Handler) errorJSON(c echo.Context, err error) error {
	var validationErr *domain.ValidationError
	var notFoundErr *domain.NotFoundError
	var providerErr *domain.ProviderError

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		return c.JSON(http.StatusNotFound, map[string]string{"error": notFoundErr.Error()})
	case errors.As(err, &providerErr):
		h.logger.Error("completion provider error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("internal error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// badRequest writes a 400 with the given message.
func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}
