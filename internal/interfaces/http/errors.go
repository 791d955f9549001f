package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/domain"
)

// writeError mapea los errores de dominio a respuestas HTTP. Los handlers
// delegan aquí todo lo que no manejan explícitamente.
func writeError(c *fiber.Ctx, err error) error {
	var limitErr *domain.LimitViolationError
	if errors.As(err, &limitErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.LimitViolationResponse{
			Code:         "LIMIT_EXCEEDED",
			Message:      limitErr.Error(),
			Resource:     limitErr.Resource,
			CurrentCount: limitErr.Current,
			Cap:          limitErr.Cap,
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrModuleUnavailable):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "MODULE_UNAVAILABLE", Message: "módulo no disponible"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: fmt.Sprintf("error interno: %v", err)})
	}
}
