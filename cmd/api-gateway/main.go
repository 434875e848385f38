package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/davideferri/interro-risk-api/api/swagger"
	"github.com/davideferri/interro-risk-api/internal/handler"
	"github.com/davideferri/interro-risk-api/internal/middleware"
	"github.com/davideferri/interro-risk-api/internal/models"
	"github.com/davideferri/interro-risk-api/internal/repository"
	"github.com/davideferri/interro-risk-api/internal/service"
	"github.com/davideferri/interro-risk-api/pkg/cache"
	"github.com/davideferri/interro-risk-api/pkg/config"
	"github.com/davideferri/interro-risk-api/pkg/database"
	"github.com/davideferri/interro-risk-api/pkg/logger"
	corsmiddleware "github.com/davideferri/interro-risk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/davideferri/interro-risk-api/pkg/middleware/requestid"
)

// @title Interro Risk API
// @version 1.0.0
// @description Oral exam risk tracker for school classes
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var cacheRepo service.CacheRepository
	if cfg.Risk.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer redisClient.Close()
		}
	}

	// Repositories
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	interrogationRepo := repository.NewInterrogationRepository(db)
	absenceRepo := repository.NewAbsenceRepository(db)
	volunteerRepo := repository.NewVolunteerRepository(db)
	vacationRepo := repository.NewVacationRepository(db)
	configRepo := repository.NewConfigRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Risk.CacheTTL, logr, cfg.Risk.CacheEnabled)
	riskSvc := service.NewRiskService(snapshotRepo, cacheSvc, metricsSvc, cfg.Risk.CacheTTL, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "interro-risk-api",
		MaxFailedAttempts:  cfg.Auth.MaxFailedAttempts,
		FailureWindow:      cfg.Auth.FailureWindow,
	})
	classSvc := service.NewClassService(classRepo, riskSvc, nil, logr)
	studentSvc := service.NewStudentService(studentRepo, riskSvc, nil, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, teacherRepo, riskSvc, nil, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, riskSvc, nil, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, subjectRepo, configRepo, riskSvc, nil, logr)
	interrogationSvc := service.NewInterrogationService(interrogationRepo, absenceRepo, vacationRepo, studentRepo, subjectRepo, riskSvc, nil, logr)
	absenceSvc := service.NewAbsenceService(absenceRepo, studentRepo, riskSvc, nil, logr)
	volunteerSvc := service.NewVolunteerService(volunteerRepo, interrogationRepo, vacationRepo, riskSvc, nil, logr)
	vacationSvc := service.NewVacationService(vacationRepo, riskSvc, nil, logr)
	configSvc := service.NewConfigService(configRepo, subjectRepo, riskSvc, nil, logr)
	exportSvc := service.NewExportService(snapshotRepo, logr, nil, nil)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	classHandler := handler.NewClassHandler(classSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	interrogationHandler := handler.NewInterrogationHandler(interrogationSvc)
	absenceHandler := handler.NewAbsenceHandler(absenceSvc)
	volunteerHandler := handler.NewVolunteerHandler(volunteerSvc)
	vacationHandler := handler.NewVacationHandler(vacationSvc)
	configHandler := handler.NewConfigHandler(configSvc)
	riskHandler := handler.NewRiskHandler(riskSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	api.GET("/metrics/summary", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), metricsHandler.Summary)

	classes := api.Group("/classes", middleware.JWT(authSvc))
	classes.GET("", middleware.RequireRoles(models.RoleAdmin), classHandler.List)
	classes.POST("", middleware.RequireRoles(models.RoleAdmin), classHandler.Create)

	class := classes.Group("/:classId", middleware.ClassScope())
	class.GET("", classHandler.Get)
	class.DELETE("", middleware.RequireRoles(models.RoleAdmin), classHandler.Delete)

	manage := middleware.RequireRoles(models.RoleAdmin, models.RoleClassAdmin)

	class.GET("/students", studentHandler.List)
	class.GET("/students/:id", studentHandler.Get)
	class.POST("/students", manage, studentHandler.Create)
	class.PUT("/students/:id", manage, studentHandler.Update)
	class.DELETE("/students/:id", manage, studentHandler.Delete)

	class.GET("/subjects", subjectHandler.List)
	class.POST("/subjects", manage, subjectHandler.Create)
	class.PUT("/subjects/:id", manage, subjectHandler.Update)
	class.DELETE("/subjects/:id", manage, subjectHandler.Delete)

	class.GET("/teachers", teacherHandler.List)
	class.POST("/teachers", manage, teacherHandler.Create)
	class.PUT("/teachers/:id", manage, teacherHandler.Update)
	class.DELETE("/teachers/:id", manage, teacherHandler.Delete)

	class.GET("/schedule", scheduleHandler.List)
	class.POST("/schedule", manage, scheduleHandler.Create)
	class.PUT("/schedule/day", manage, scheduleHandler.ReplaceDay)
	class.DELETE("/schedule/:id", manage, scheduleHandler.Delete)

	class.GET("/interrogations", interrogationHandler.List)
	class.POST("/interrogations", manage, interrogationHandler.Create)
	class.PUT("/interrogations/:id/grade", manage, interrogationHandler.UpdateGrade)
	class.DELETE("/interrogations/:id", manage, interrogationHandler.Delete)

	class.GET("/absences", absenceHandler.List)
	class.POST("/absences", manage, absenceHandler.Create)
	class.DELETE("/absences/:id", manage, absenceHandler.Delete)

	class.GET("/volunteers", volunteerHandler.List)
	class.POST("/volunteers", volunteerHandler.Create)
	class.DELETE("/volunteers/:id", manage, volunteerHandler.Delete)

	class.GET("/vacations", vacationHandler.List)
	class.POST("/vacations", manage, vacationHandler.Create)
	class.DELETE("/vacations/:id", manage, vacationHandler.Delete)

	class.GET("/config", configHandler.Get)
	class.PUT("/config", manage, configHandler.Update)
	class.PUT("/config/subjects/:subjectId", manage, configHandler.SetSubjectAverage)
	class.DELETE("/config/subjects/:subjectId", manage, configHandler.ClearSubjectAverage)

	class.GET("/risk/dashboard", riskHandler.Dashboard)
	class.GET("/risk/all", riskHandler.All)
	class.GET("/risk/weekly", riskHandler.Weekly)
	class.GET("/risk/subjects/:subjectId/stats", riskHandler.ClassStats)
	class.GET("/risk/subjects/:subjectId/history", riskHandler.History)
	class.GET("/risk/next-school-day", riskHandler.NextSchoolDay)

	class.GET("/export/stats/:subjectId", manage, exportHandler.ClassStats)
	class.GET("/export/history/:subjectId", manage, exportHandler.History)

	if cfg.Simulation.Enabled {
		simulationSvc := service.NewSimulationService(classRepo, studentRepo, teacherRepo, subjectRepo, scheduleRepo, interrogationRepo, riskSvc, nil, logr)
		simulationHandler := handler.NewSimulationHandler(simulationSvc)
		api.POST("/simulation/seed", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), simulationHandler.Seed)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
