package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octobees/fitness-studio/api/internal/auth"
	"github.com/octobees/fitness-studio/api/internal/config"
	"github.com/octobees/fitness-studio/api/internal/entity"
	"github.com/octobees/fitness-studio/api/internal/handler"
	middlewarepkg "github.com/octobees/fitness-studio/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth           *handler.AuthHandler
	Users          *handler.UserHandler
	Trainers       *handler.TrainerHandler
	FitnessClasses *handler.FitnessClassHandler
	GymEvents      *handler.GymEventHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.POST("/login", handlers.Auth.Login)
	v1.POST("/users", handlers.Users.Register)

	secured := v1.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	adminOnly := middlewarepkg.RequireRole(entity.RoleAdmin)
	userOnly := middlewarepkg.RequireRole(entity.RoleUser)
	member := middlewarepkg.RequireRole(entity.RoleAdmin, entity.RoleUser)

	secured.GET("/users", handlers.Users.List, adminOnly)
	secured.GET("/users/me", handlers.Users.Me, member)
	secured.GET("/users/:id", handlers.Users.Get, member)
	secured.PUT("/users", handlers.Users.Update, userOnly)
	secured.DELETE("/users/:id", handlers.Users.Delete, member)

	trainers := secured.Group("/trainers")
	trainers.GET("", handlers.Trainers.List, member)
	trainers.GET("/:id", handlers.Trainers.Get, member)
	trainers.POST("", handlers.Trainers.Create, adminOnly)
	trainers.PUT("", handlers.Trainers.Update, adminOnly)
	trainers.DELETE("/:id", handlers.Trainers.Delete, adminOnly)

	classes := secured.Group("/fitness-classes", adminOnly)
	classes.GET("", handlers.FitnessClasses.List)
	classes.GET("/:id", handlers.FitnessClasses.Get)
	classes.POST("", handlers.FitnessClasses.Create)
	classes.PUT("", handlers.FitnessClasses.Update)
	classes.DELETE("/:id", handlers.FitnessClasses.Delete)
	classes.PUT("/assign/:classId/:trainerId", handlers.FitnessClasses.Assign)
	classes.PUT("/unassign/:classId/:trainerId", handlers.FitnessClasses.Unassign)

	enrollLimit := middlewarepkg.EnrollRateLimiter(cfg.RateLimitEnroll)

	events := secured.Group("/gym-events")
	events.GET("", handlers.GymEvents.List, member)
	events.GET("/:id", handlers.GymEvents.Get, member)
	events.GET("/mng/:id", handlers.GymEvents.GetWithParticipants, adminOnly)
	events.POST("", handlers.GymEvents.Create, adminOnly)
	events.DELETE("/:id", handlers.GymEvents.Delete, adminOnly)
	events.POST("/enroll/:id", handlers.GymEvents.Enroll, userOnly, enrollLimit)
	events.POST("/disenroll/:id", handlers.GymEvents.Disenroll, userOnly, enrollLimit)
}
