// Package server composes repositories, services and handlers into the HTTP router.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-admin-api/api/swagger" // registers the swagger document
	"github.com/noah-isme/school-admin-api/internal/handler"
	"github.com/noah-isme/school-admin-api/internal/middleware"
	"github.com/noah-isme/school-admin-api/internal/models"
	"github.com/noah-isme/school-admin-api/internal/repository"
	"github.com/noah-isme/school-admin-api/internal/service"
	"github.com/noah-isme/school-admin-api/internal/validation"
	"github.com/noah-isme/school-admin-api/pkg/config"
	"github.com/noah-isme/school-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-admin-api/pkg/middleware/requestid"
)

// NewRouter wires every dependency explicitly and registers the routes.
func NewRouter(cfg *config.Config, db *sqlx.DB, logr *zap.Logger) *gin.Engine {
	if logr == nil {
		logr = zap.NewNop()
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	validate := validation.New()

	personRepo := repository.NewPersonRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	personSvc := service.NewPersonService(personRepo, validate, logr.Named("persons"))
	courseSvc := service.NewCourseService(courseRepo, validate, logr.Named("courses"))
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, personRepo, courseRepo, validate, metrics, logr.Named("enrollments"))
	statementSvc := service.NewStatementService(personRepo, enrollmentRepo, nil, nil, metrics, logr.Named("statements"))
	tokenSvc := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	})

	personHandler := handler.NewPersonHandler(personSvc, enrollmentSvc, statementSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Docs.Enabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst, metrics))

	read := []gin.HandlerFunc{}
	write := []gin.HandlerFunc{}
	if cfg.Auth.Enabled {
		api.Use(middleware.JWT(tokenSvc))
		read = append(read, middleware.RequireRoles(models.RoleAdmin, models.RoleSecretary, models.RoleViewer))
		write = append(write, middleware.RequireRoles(models.RoleAdmin, models.RoleSecretary))
	}
	with := func(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guards...), h)
	}

	persons := api.Group("/persons")
	persons.POST("", with(write, personHandler.Register)...)
	persons.GET("", with(read, personHandler.List)...)
	persons.GET("/cpf/:cpf", with(read, personHandler.GetByCPF)...)
	persons.GET("/:id", with(read, personHandler.Get)...)
	persons.PUT("/:id", with(write, personHandler.Update)...)
	persons.DELETE("/:id", with(write, personHandler.Delete)...)
	persons.GET("/:id/enrollments", with(read, personHandler.Enrollments)...)
	persons.GET("/:id/enrollments/export", with(read, personHandler.ExportStatement)...)

	courses := api.Group("/courses")
	courses.POST("", with(write, courseHandler.Create)...)
	courses.GET("", with(read, courseHandler.List)...)
	courses.GET("/active", with(read, courseHandler.ListActive)...)
	courses.GET("/:id", with(read, courseHandler.Get)...)
	courses.PUT("/:id", with(write, courseHandler.Update)...)
	courses.PATCH("/:id/status/:active", with(write, courseHandler.SetActive)...)
	courses.DELETE("/:id", with(write, courseHandler.Delete)...)

	enrollments := api.Group("/enrollments")
	enrollments.POST("", with(write, enrollmentHandler.Enroll)...)
	enrollments.GET("", with(read, enrollmentHandler.List)...)
	enrollments.GET("/:id", with(read, enrollmentHandler.Get)...)
	enrollments.PATCH("/:id/payment-status", with(write, enrollmentHandler.UpdatePaymentStatus)...)
	enrollments.DELETE("/:id", with(write, enrollmentHandler.Cancel)...)

	return r
}
