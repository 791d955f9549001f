package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/suite-pro/internal/application/auth"
	"github.com/tu-usuario/suite-pro/internal/application/authz"
	"github.com/tu-usuario/suite-pro/internal/application/catalog"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/application/entitlement"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

// MeHandler expone el estado del actor autenticado: identidad, roles, permisos
// resueltos al momento de la llamada y el licenciamiento de su organización.
type MeHandler struct {
	userRepo    repository.UserRepository
	resolver    *authz.Resolver
	entitlement *entitlement.Service
	registry    *catalog.Registry
}

// NewMeHandler construye el handler.
func NewMeHandler(
	userRepo repository.UserRepository,
	resolver *authz.Resolver,
	entitlementSvc *entitlement.Service,
	registry *catalog.Registry,
) *MeHandler {
	return &MeHandler{userRepo: userRepo, resolver: resolver, entitlement: entitlementSvc, registry: registry}
}

// Me godoc
// @Summary      Estado del actor autenticado
// @Description  Identidad, roles, permisos y licenciamiento por módulo de la organización del token. Los permisos se resuelven contra la DB en cada llamada, nunca del token.
// @Tags         me
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/me [get]
func (h *MeHandler) Me(c *fiber.Ctx) error {
	userID := GetUserID(c)
	orgID := GetOrgID(c)

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no encontrado"})
	}

	out := dto.MeResponse{
		User:           *auth.ToUserResponse(user),
		OrganizationID: orgID,
		Roles:          []string{},
		Permissions:    []string{},
		Modules:        []dto.ModuleLicenseResponse{},
	}
	// Super admin sin tenant: identidad sola, sin roles ni licenciamiento.
	if orgID == "" {
		return c.JSON(out)
	}

	roles, err := h.resolver.RolesFor(c.Context(), userID, orgID)
	if err != nil {
		return writeError(c, err)
	}
	for _, role := range roles {
		out.Roles = append(out.Roles, role.Key)
	}
	perms, err := h.resolver.PermissionsFor(c.Context(), userID, orgID)
	if err != nil {
		return writeError(c, err)
	}
	out.Permissions = perms.Keys()

	modules, err := h.entitlement.LicensingForOrg(c.Context(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	out.Modules = modules
	return c.JSON(out)
}

// Modules godoc
// @Summary      Módulos visibles para el actor
// @Description  Manifiestos (sidebar + widgets) de los módulos usables por la organización, con las entradas filtradas por los permisos del actor. Un super admin ve todo.
// @Tags         me
// @Produce      json
// @Success      200  {array}  dto.ModuleManifestResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/me/modules [get]
func (h *MeHandler) Modules(c *fiber.Ctx) error {
	userID := GetUserID(c)
	orgID := GetOrgID(c)
	superAdmin := IsSuperAdmin(c)

	perms := authz.PermissionSet{}
	if orgID != "" && !superAdmin {
		var err error
		perms, err = h.resolver.PermissionsFor(c.Context(), userID, orgID)
		if err != nil {
			return writeError(c, err)
		}
	}

	var licenses []dto.ModuleLicenseResponse
	if orgID != "" {
		var err error
		licenses, err = h.entitlement.LicensingForOrg(c.Context(), orgID)
		if err != nil {
			return writeError(c, err)
		}
	}
	byKey := make(map[string]dto.ModuleLicenseResponse, len(licenses))
	for _, lic := range licenses {
		byKey[lic.ModuleKey] = lic
	}

	out := make([]dto.ModuleManifestResponse, 0)
	for _, manifest := range h.registry.All() {
		license, ok := byKey[manifest.ModuleKey]
		// Solo módulos usables llegan a la UI; un super admin ve el catálogo entero.
		if !superAdmin && (!ok || !license.Usable) {
			continue
		}
		filtered := catalog.Filter(manifest, perms, superAdmin)
		if !ok {
			license = dto.ModuleLicenseResponse{ModuleKey: manifest.ModuleKey}
		}
		out = append(out, toManifestResponse(filtered, license))
	}
	return c.JSON(out)
}

func toManifestResponse(m catalog.ModuleManifest, license dto.ModuleLicenseResponse) dto.ModuleManifestResponse {
	out := dto.ModuleManifestResponse{
		ModuleKey: m.ModuleKey,
		Sidebar:   make([]dto.SidebarItemResponse, 0, len(m.Sidebar)),
		Widgets:   make([]dto.WidgetResponse, 0, len(m.Widgets)),
		License:   license,
	}
	for _, item := range m.Sidebar {
		out.Sidebar = append(out.Sidebar, dto.SidebarItemResponse{Key: item.Key, Label: item.Label, Path: item.Path})
	}
	for _, w := range m.Widgets {
		out.Widgets = append(out.Widgets, dto.WidgetResponse{Key: w.Key, Label: w.Label})
	}
	return out
}
