package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/suite-pro/internal/application/auth"
	"github.com/tu-usuario/suite-pro/internal/application/authz"
	"github.com/tu-usuario/suite-pro/internal/application/catalog"
	"github.com/tu-usuario/suite-pro/internal/application/entitlement"
	"github.com/tu-usuario/suite-pro/internal/application/subscription"
	"github.com/tu-usuario/suite-pro/internal/application/usecase"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	OrgUC       *usecase.OrgUseCase
	MemberUC    *usecase.MemberUseCase
	EmployeeUC  *usecase.EmployeeUseCase
	Engine      *subscription.Engine
	Gate        *authz.Gate
	Resolver    *authz.Resolver
	Entitlement *entitlement.Service
	Registry    *catalog.Registry
	UserRepo    repository.UserRepository
	ModuleRepo  repository.ModuleRepository
	PriceRepo   repository.ModulePriceRepository
	JWTSecret   string
}

// Router registra las rutas de la API. Todo recurso de módulo pasa por
// RequirePermission con su permiso y su module key: el gate es el único camino
// hacia los handlers protegidos.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Signup de organización (público)
	orgHandler := NewOrgHandler(deps.OrgUC)
	api.Post("/organizations", orgHandler.Create)

	// Webhook del proveedor de pagos (público; idempotente por provider_ref)
	billingHandler := NewBillingHandler(deps.Engine, deps.ModuleRepo, deps.PriceRepo)
	api.Post("/billing/webhook", billingHandler.Webhook)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Estado del actor
	meHandler := NewMeHandler(deps.UserRepo, deps.Resolver, deps.Entitlement, deps.Registry)
	protected.Get("/me", meHandler.Me)
	protected.Get("/me/modules", meHandler.Modules)

	// Organizaciones
	protected.Get("/organizations/:id", orgHandler.GetByID)

	// Miembros (gestión del propio tenant)
	memberHandler := NewMemberHandler(deps.MemberUC)
	members := protected.Group("/members")
	members.Post("/", RequirePermission(deps.Gate, "org.members.manage", ""), memberHandler.Invite)
	members.Get("/", RequirePermission(deps.Gate, "org.members.view", ""), memberHandler.List)
	members.Delete("/:id", RequirePermission(deps.Gate, "org.members.manage", ""), memberHandler.Deactivate)

	// HR (recurso de módulo: permiso + licencia del módulo hr)
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC)
	hr := protected.Group("/hr")
	hr.Post("/employees", RequirePermission(deps.Gate, "hr.employees.manage", entity.ModuleHR), employeeHandler.Create)
	hr.Post("/employees/bulk", RequirePermission(deps.Gate, "hr.employees.manage", entity.ModuleHR), employeeHandler.BulkCreate)
	hr.Get("/employees", RequirePermission(deps.Gate, "hr.employees.view", entity.ModuleHR), employeeHandler.List)

	// Billing (suscripciones del propio tenant)
	billing := protected.Group("/billing")
	billing.Post("/subscriptions", RequirePermission(deps.Gate, "org.billing.manage", ""), billingHandler.Subscribe)
	billing.Delete("/subscriptions/:id", RequirePermission(deps.Gate, "org.billing.manage", ""), billingHandler.Cancel)
	billing.Get("/modules/:key/prices", RequirePermission(deps.Gate, "", ""), billingHandler.Prices)

	// Admin de plataforma (solo super admins)
	adminHandler := NewAdminHandler(deps.Engine, deps.OrgUC)
	admin := protected.Group("/admin", RequireSuperAdmin())
	admin.Put("/organizations/:id/bundle", adminHandler.AssignBundle)
	admin.Post("/organizations/:id/trial", adminHandler.ExtendTrial)
	admin.Put("/organizations/:id/caps", adminHandler.UpdateCaps)
}
