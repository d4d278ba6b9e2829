package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/course-service/internal/api/http/handlers"
	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Courses        *handlers.CoursesHandler
	Modules        *handlers.ModulesHandler
	Activities     *handlers.ActivitiesHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Index)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	authenticated := cfg.AuthMiddleware.Handle

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/validToken/:token?", cfg.Auth.ValidToken)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/logout", authenticated, cfg.Auth.Logout)
	authGroup.Get("/infos", authenticated, cfg.Auth.Infos)
	authGroup.Put("/profile", authenticated, cfg.Auth.UpdateProfile)
	authGroup.Put("/password", authenticated, cfg.Auth.ChangePassword)

	users := api.Group("/users", authenticated, auth.RequireRole(domain.RoleAdmin))
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	courses := api.Group("/courses", authenticated)
	courses.Get("/", cfg.Courses.List)
	courses.Post("/", cfg.Courses.Create)
	courses.Put("/reorder", cfg.Courses.Reorder)
	courses.Get("/module/:moduleId", cfg.Courses.ListByModule)
	courses.Get("/:id", cfg.Courses.Get)
	courses.Put("/:id", cfg.Courses.Update)
	courses.Patch("/:id", cfg.Courses.Publish)
	courses.Delete("/:id", cfg.Courses.Delete)

	modules := api.Group("/modules", authenticated)
	modules.Get("/", cfg.Modules.List)
	modules.Post("/", cfg.Modules.Create)
	modules.Get("/:id", cfg.Modules.Get)
	modules.Put("/:id", cfg.Modules.Update)
	modules.Delete("/:id", cfg.Modules.Delete)
	modules.Post("/:id/courses/:courseId", cfg.Modules.AddCourse)
	modules.Delete("/:id/courses/:courseId", cfg.Modules.RemoveCourse)

	api.Get("/activities", authenticated, cfg.Activities.List)
}
