package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/suite-pro/internal/application/authz"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/pkg/jwt"
)

// Locals keys para el actor autenticado en Fiber.
const (
	LocalUserID     = "user_id"
	LocalOrgID      = "org_id"
	LocalSuperAdmin = "super_admin"
)

// AuthMiddleware valida el Bearer Token JWT y extrae el actor a c.Locals.
// El token solo acarrea identidad + tenant + flag de super admin: los permisos
// se resuelven contra la DB en cada request (ver RequirePermission).
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, orgID, superAdmin, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalOrgID, orgID)
		c.Locals(LocalSuperAdmin, superAdmin)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetOrgID devuelve el OrganizationID del contexto (después del middleware de auth).
func GetOrgID(c *fiber.Ctx) string {
	v := c.Locals(LocalOrgID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// IsSuperAdmin informa si el actor del contexto es super admin.
func IsSuperAdmin(c *fiber.Ctx) bool {
	v := c.Locals(LocalSuperAdmin)
	if v == nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

// GetActor arma el actor de autorización desde el contexto.
func GetActor(c *fiber.Ctx) authz.Actor {
	return authz.Actor{
		UserID:         GetUserID(c),
		OrganizationID: GetOrgID(c),
		SuperAdmin:     IsSuperAdmin(c),
	}
}
