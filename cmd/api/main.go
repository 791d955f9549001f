package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/suite-pro/internal/application/auth"
	"github.com/tu-usuario/suite-pro/internal/application/authz"
	"github.com/tu-usuario/suite-pro/internal/application/catalog"
	"github.com/tu-usuario/suite-pro/internal/application/entitlement"
	"github.com/tu-usuario/suite-pro/internal/application/subscription"
	"github.com/tu-usuario/suite-pro/internal/application/usecase"
	"github.com/tu-usuario/suite-pro/internal/infrastructure/notify"
	"github.com/tu-usuario/suite-pro/internal/infrastructure/payments"
	"github.com/tu-usuario/suite-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/suite-pro/internal/interfaces/http"
	"github.com/tu-usuario/suite-pro/pkg/config"
	"github.com/tu-usuario/suite-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	moduleRepo := postgres.NewModuleRepository(pool)
	omRepo := postgres.NewOrgModuleRepository(pool)
	bundleRepo := postgres.NewBundleRepository(pool)
	priceRepo := postgres.NewModulePriceRepository(pool)
	payRepo := postgres.NewPaymentRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := authz.NewResolver(membershipRepo, roleRepo)
	entitlementSvc := entitlement.NewService(moduleRepo, omRepo, log)
	gate := authz.NewGate(resolver, entitlementSvc)
	registry := catalog.BuildRegistry()

	// Proveedor de pagos: sin configurar, el motor activa suscripciones de
	// inmediato (camino directo). "dev" usa la pasarela simulada.
	var provider subscription.PaymentProvider
	if cfg.Billing.Provider == "dev" {
		provider = payments.NewDevProvider(cfg.Billing.CheckoutBase, log)
	}
	engine := subscription.NewEngine(txRunner, moduleRepo, priceRepo, bundleRepo, payRepo, provider, log)

	notifier := notify.NewLogNotifier(log)
	orgUC := usecase.NewOrgUseCase(txRunner, orgRepo, moduleRepo, notifier, log, cfg.Billing.TrialDays)
	memberUC := usecase.NewMemberUseCase(txRunner, membershipRepo, log)
	employeeUC := usecase.NewEmployeeUseCase(txRunner, employeeRepo, log)
	authUC := auth.NewAuthUseCase(userRepo, membershipRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Suite Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		OrgUC:       orgUC,
		MemberUC:    memberUC,
		EmployeeUC:  employeeUC,
		Engine:      engine,
		Gate:        gate,
		Resolver:    resolver,
		Entitlement: entitlementSvc,
		Registry:    registry,
		UserRepo:    userRepo,
		ModuleRepo:  moduleRepo,
		PriceRepo:   priceRepo,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
}
