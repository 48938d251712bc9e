package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"

	"github.com/docuguard/docuguard/internal/api/docs"
	"github.com/docuguard/docuguard/internal/api/handler"
	"github.com/docuguard/docuguard/internal/api/middleware"
	"github.com/docuguard/docuguard/internal/database"
	"github.com/docuguard/docuguard/internal/service"
)

type Dependencies struct {
	Verification *service.VerificationService
	Identity     *service.IdentityService
	DB           *pgxpool.Pool
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "DocuGuard API",
		BodyLimit:    12 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	checks := map[string]handler.ReadinessChecker{}
	if r.deps != nil && r.deps.DB != nil {
		db := r.deps.DB
		checks["database"] = func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		}
	}
	if r.deps != nil && r.deps.Verification != nil {
		verification := r.deps.Verification
		checks["face_backend"] = func(ctx context.Context) error {
			return verification.EnsureReady(ctx)
		}
	}
	healthHandler := handler.NewHealthHandler(checks)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	v1 := r.app.Group("/v1")

	verificationHandler := handler.NewVerificationHandler(r.deps.Verification, r.logger)
	v1.Post("/verifications", verificationHandler.Verify)
	v1.Post("/validations", verificationHandler.Validate)

	identityHandler := handler.NewIdentityHandler(r.deps.Identity, r.logger)
	v1.Post("/identities", identityHandler.Enroll)
	v1.Get("/identities/:external_id", identityHandler.Get)
	v1.Delete("/identities/:external_id", identityHandler.Delete)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
