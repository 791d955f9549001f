package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/suite-pro/internal/application/authz"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/domain"
)

// RequirePermission devuelve un middleware Fiber que pasa el request por el
// gate de autorización: membership activa + permiso + módulo licenciado.
// Debe usarse DESPUÉS de AuthMiddleware. moduleKey vacío omite el chequeo de
// licenciamiento; permission vacío solo exige membership activa.
//
// Comportamiento:
//   - 401 → sin membership activa en la organización del token.
//   - 403 FORBIDDEN → falta el permiso.
//   - 403 MODULE_UNAVAILABLE → módulo deshabilitado o vencido para el tenant
//     (código propio: el frontend ofrece upgrade en vez de "sin acceso").
//   - 503 → fallo de infraestructura al resolver permisos o licencias.
func RequirePermission(gate *authz.Gate, permission, moduleKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := gate.Authorize(c.Context(), GetActor(c), permission, moduleKey)
		if err == nil {
			return c.Next()
		}
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "sin membership activa en la organización",
			})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "permiso insuficiente: " + permission,
			})
		case errors.Is(err, domain.ErrModuleUnavailable):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MODULE_UNAVAILABLE",
				Message: "el módulo '" + moduleKey + "' no está disponible para esta organización",
			})
		default:
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "AUTHZ_CHECK_FAILED",
				Message: "no se pudo verificar el acceso, intente más tarde",
			})
		}
	}
}
