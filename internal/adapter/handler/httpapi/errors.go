package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// errorHandler maps domain errors onto HTTP statuses. Anything unrecognized
// is logged and reported as a plain 500 so internals never leak.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	var verrs validator.ValidationErrors
	var ferr *fiber.Error

	switch {
	case errors.Is(err, domain.ErrGoalNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: err.Error()})

	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(errorResponse{
			Error: verr.Reason,
			Field: verr.Field,
		})

	case errors.As(err, &verrs):
		first := verrs[0]
		return c.Status(fiber.StatusUnprocessableEntity).JSON(errorResponse{
			Error: "failed validation on " + first.Tag(),
			Field: first.Field(),
		})

	case errors.Is(err, domain.ErrInvalidStatus):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(errorResponse{Error: err.Error()})

	case errors.As(err, &ferr):
		return c.Status(ferr.Code).JSON(errorResponse{Error: ferr.Message})
	}

	s.log.Error("Unhandled request error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "internal server error"})
}
