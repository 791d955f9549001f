package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/application/subscription"
	"github.com/tu-usuario/suite-pro/internal/application/usecase"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// RequireSuperAdmin bloquea todo actor que no sea super admin. Debe usarse
// DESPUÉS de AuthMiddleware.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsSuperAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "requiere super admin"})
		}
		return c.Next()
	}
}

// AdminHandler operaciones de plataforma sobre cualquier tenant: bundles,
// extensión de trials y cupos. Solo super admins.
type AdminHandler struct {
	engine *subscription.Engine
	orgUC  *usecase.OrgUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(engine *subscription.Engine, orgUC *usecase.OrgUseCase) *AdminHandler {
	return &AdminHandler{engine: engine, orgUC: orgUC}
}

// AssignBundle godoc
// @Summary      Asignar bundle a una organización
// @Description  Todo-o-nada: cupos + fan-out de módulos en una transacción. Un cupo prospectivo por debajo del conteo activo responde 422 sin aplicar nada. bundle_id null desasigna.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la organización"
// @Param        body  body  dto.AssignBundleRequest  true  "Bundle"
// @Success      200   {object}  dto.OrganizationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.LimitViolationResponse
// @Security     BearerAuth
// @Router       /api/admin/organizations/{id}/bundle [put]
func (h *AdminHandler) AssignBundle(c *fiber.Ctx) error {
	var in dto.AssignBundleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	org, err := h.engine.AssignBundle(c.Context(), c.Params("id"), in.BundleID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(adminOrgResponse(org))
}

// ExtendTrial godoc
// @Summary      Extender trial de una organización
// @Description  Extiende el trial de todos los módulos habilitados a now+days, en una transacción.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la organización"
// @Param        body  body  dto.ExtendTrialRequest  true  "Días"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/organizations/{id}/trial [post]
func (h *AdminHandler) ExtendTrial(c *fiber.Ctx) error {
	var in dto.ExtendTrialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	extended, err := h.engine.ExtendTrial(c.Context(), c.Params("id"), in.Days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"extended_modules": extended})
}

// UpdateCaps godoc
// @Summary      Cambiar cupos de una organización
// @Description  Bajar un cupo por debajo del conteo activo actual responde 422.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la organización"
// @Param        body  body  dto.UpdateCapsRequest  true  "Cupos (null = sin límite)"
// @Success      200   {object}  dto.OrganizationResponse
// @Failure      422   {object}  dto.LimitViolationResponse
// @Security     BearerAuth
// @Router       /api/admin/organizations/{id}/caps [put]
func (h *AdminHandler) UpdateCaps(c *fiber.Ctx) error {
	var in dto.UpdateCapsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.orgUC.UpdateCaps(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func adminOrgResponse(o *entity.Organization) dto.OrganizationResponse {
	return dto.OrganizationResponse{
		ID:              o.ID,
		Name:            o.Name,
		Slug:            o.Slug,
		Status:          o.Status,
		MaxUsers:        o.MaxUsers,
		MaxEmployees:    o.MaxEmployees,
		ExpiresAt:       o.ExpiresAt,
		CurrentBundleID: o.CurrentBundleID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
