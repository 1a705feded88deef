package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-ticket-api/config"
	"github.com/kendall-kelly/repair-ticket-api/controllers"
	_ "github.com/kendall-kelly/repair-ticket-api/docs"
	"github.com/kendall-kelly/repair-ticket-api/middleware"
	"github.com/kendall-kelly/repair-ticket-api/models"
	"github.com/kendall-kelly/repair-ticket-api/services"
	"github.com/kendall-kelly/repair-ticket-api/utils"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application bundles the wired dependencies the router needs
type application struct {
	cfg     *config.Config
	log     *zap.Logger
	tickets *services.TicketService
	auth    *services.AuthService
}

func newApplication(cfg *config.Config, db *gorm.DB, log *zap.Logger, storage services.Storage, states services.StateStore) *application {
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	line := services.NewLineOAuthClient(cfg)

	return &application{
		cfg:     cfg,
		log:     log,
		tickets: services.NewTicketService(db, storage, log),
		auth:    services.NewAuthService(db, tokens, line, states, log),
	}
}

// @title           Repair Ticket API
// @version         1.0
// @description     Repair request intake, triage and scheduling with LINE login.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetConfig(cfg)

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("starting Repair Ticket API", zap.String("env", cfg.GoEnv))

	if err := config.ConnectDatabase(cfg, logger); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	db := config.GetDB()
	if err := db.AutoMigrate(models.All()...); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("database migration completed")

	ctx := context.Background()

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialise attachment storage", zap.Error(err))
	}
	logger.Info("attachment storage ready", zap.String("driver", cfg.StorageDriver))

	states, closeStates := newStateStore(ctx, cfg, logger)
	defer closeStates()

	app := newApplication(cfg, db, logger, storage, states)
	router := setupRouter(app)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newStorage picks the attachment backend from STORAGE_DRIVER
func newStorage(ctx context.Context, cfg *config.Config) (services.Storage, error) {
	if cfg.StorageDriver == "s3" {
		return services.NewS3Storage(ctx, cfg)
	}

	utils.UploadDir = cfg.UploadDir
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, err
	}
	return services.NewLocalStorage(cfg.UploadDir), nil
}

// newStateStore uses Redis when REDIS_ADDR is set so OAuth state survives
// restarts and is shared between instances.
func newStateStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (services.StateStore, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory OAuth state store")
		return services.NewMemoryStateStore(), func() {}
	}

	store := services.NewRedisStateStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		logger.Warn("redis is not reachable yet", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range cfg.CORSOrigins {
		if origin == "*" {
			corsCfg.AllowAllOrigins = true
			corsCfg.AllowCredentials = false
			return corsCfg
		}
	}
	if len(cfg.CORSOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
		return corsCfg
	}

	corsCfg.AllowOrigins = cfg.CORSOrigins
	return corsCfg
}

func setupRouter(app *application) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(app.log))
	router.Use(cors.New(corsConfig(app.cfg)))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	ticketController := controllers.NewTicketController(app.tickets, app.log)
	authController := controllers.NewAuthController(app.auth, app.log)
	userController := controllers.NewUserController(app.tickets, app.log)

	requireAuth := middleware.EnsureValidToken(app.cfg)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.GET("/line", authController.LineAuthURL)
			auth.GET("/line/callback", authController.LineCallback)
			auth.GET("/profile", requireAuth, authController.GetProfile)
			auth.PUT("/profile", requireAuth, authController.UpdateProfile)
		}

		tickets := v1.Group("/tickets", requireAuth)
		{
			tickets.POST("", ticketController.CreateTicket)
			tickets.GET("", ticketController.ListTickets)
			tickets.GET("/statistics", ticketController.GetStatistics)
			tickets.GET("/schedule", ticketController.GetSchedule)
			tickets.GET("/code/:code", ticketController.GetTicketByCode)
			tickets.GET("/:id", ticketController.GetTicket)
			tickets.PATCH("/:id", adminOnly, ticketController.UpdateTicket)
			tickets.DELETE("/:id", ticketController.CancelTicket)
		}

		users := v1.Group("/users", requireAuth, adminOnly)
		{
			users.GET("/staff", userController.ListStaff)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Repair Ticket API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not initialised",
			},
		})
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
