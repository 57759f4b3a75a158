package main

import (
	"flag"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Abbrahem/GIVENTO/configs"
	"github.com/Abbrahem/GIVENTO/internal/auth"
	"github.com/Abbrahem/GIVENTO/internal/cache"
	"github.com/Abbrahem/GIVENTO/internal/db"
	"github.com/Abbrahem/GIVENTO/internal/events"
	"github.com/Abbrahem/GIVENTO/internal/handlers"
	"github.com/Abbrahem/GIVENTO/internal/models"
	"github.com/Abbrahem/GIVENTO/internal/notifier"
)

func main() {
	seedAdmin := flag.Bool("seed-admin", false, "create the admin user from ADMIN_EMAIL/ADMIN_PASSWORD and exit")
	flag.Parse()

	config.LoadDotenv()
	cfg := config.Load()
	setupLogger(cfg.App.Env)

	if cfg.Auth.JWTSecret == "" {
		zlog.Fatal().Msg("JWT_SECRET must be set")
	}

	gormDB, err := db.Open(cfg.Database)
	if err != nil {
		zlog.Fatal().Err(err).Msg("database init failed")
	}
	zlog.Info().Msg("database connected and migrated")

	if *seedAdmin {
		runSeedAdmin(gormDB)
		return
	}

	authSvc := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var productCache *cache.ProductCache
	if cfg.Redis.URL != "" {
		productCache, err = cache.New(cfg.Redis.URL, cfg.Redis.TTL)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable, product cache disabled")
		} else {
			defer productCache.Close()
		}
	}

	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			zlog.Warn().Err(err).Msg("kafka unavailable, order events disabled")
		} else {
			defer kafkaPublisher.Close()
			publisher = kafkaPublisher
		}
	}

	authHandler := &handlers.AuthHandler{DB: gormDB, Auth: authSvc}
	productHandler := &handlers.ProductHandler{DB: gormDB, Cache: productCache}
	orderHandler := &handlers.OrderHandler{
		DB:       gormDB,
		Events:   publisher,
		Notifier: notifier.New(cfg.SMS, cfg.Email),
	}
	categoryHandler := &handlers.CategoryHandler{DB: gormDB}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	// ── public endpoints ──
	api := r.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)

		api.GET("/products", productHandler.List)
		api.GET("/products/latest", productHandler.Latest)
		api.GET("/products/:id", productHandler.Get)

		api.GET("/categories", categoryHandler.List)
		api.GET("/categories/:slug/products", categoryHandler.Products)

		api.POST("/orders", orderHandler.Create)
	}

	// ── admin endpoints ──
	admin := r.Group("/api")
	admin.Use(auth.RequireAdmin(authSvc))
	{
		admin.POST("/products", productHandler.Create)
		admin.PUT("/products/:id", productHandler.Update)
		admin.PUT("/products/:id/toggle", productHandler.Toggle)
		admin.DELETE("/products/:id", productHandler.Delete)

		admin.GET("/orders", orderHandler.List)
		admin.GET("/orders/:id", orderHandler.Get)
		admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)
		admin.DELETE("/orders/:id", orderHandler.Delete)
		admin.POST("/orders/bulk-delete", orderHandler.BulkDelete)

		admin.POST("/categories", categoryHandler.Create)
		admin.PUT("/categories/:slug", categoryHandler.Update)
		admin.DELETE("/categories/:slug", categoryHandler.Delete)
	}

	zlog.Info().Str("port", cfg.App.Port).Msg("server starting")
	if err := r.Run(":" + cfg.App.Port); err != nil {
		zlog.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zlog.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// runSeedAdmin creates the back-office user as an explicit operator action.
// There is deliberately no auto-created admin on first login.
func runSeedAdmin(gormDB *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Admin"
	}
	if email == "" || password == "" {
		zlog.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD must be set to seed the admin user")
	}

	var existing models.User
	if err := gormDB.Where("email = ?", email).First(&existing).Error; err == nil {
		zlog.Fatal().Str("email", email).Msg("admin user already exists")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to hash admin password")
	}

	user := models.User{Name: name, Email: email, Password: hashed, IsAdmin: true}
	if err := gormDB.Create(&user).Error; err != nil {
		zlog.Fatal().Err(err).Msg("failed to create admin user")
	}
	zlog.Info().Str("email", email).Msg("admin user created")
}
