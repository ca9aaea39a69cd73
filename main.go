package main

import (
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	"github.com/carrion626/social-network/auth"
	"github.com/carrion626/social-network/handlers"
	"github.com/carrion626/social-network/middleware"
	"github.com/carrion626/social-network/pkg/notify"
	"github.com/carrion626/social-network/pkg/tokenstore"
	"github.com/carrion626/social-network/repository"
	"github.com/carrion626/social-network/websocket"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET must be set and at least 32 characters")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dbURL)
		if err == nil {
			err = db.Ping()
			if err == nil {
				break
			}
		}
		log.Printf("DB connection failed: %v, retrying in 2s...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Could not connect to database:", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Migration driver error:", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		log.Fatal("Migration init error:", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Migration failed:", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})

	usersRepo := repository.NewUsersRepository(db)
	postsRepo := repository.NewPostsRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	tokens := auth.NewTokenService(jwtSecret, accessTokenTTL, refreshTokenTTL)
	refreshStore := tokenstore.New(rdb, refreshTokenTTL)

	if os.Getenv("GIN_MODE") == "release" || strings.ToLower(os.Getenv("APP_ENV")) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Structured request ID and JSON access logs
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(gin.Recovery())

	// Configure trusted proxies for correct client IP handling in production
	trustedProxies := os.Getenv("TRUSTED_PROXIES")
	if trustedProxies != "" {
		parts := strings.Split(trustedProxies, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := r.SetTrustedProxies(parts); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
	} else {
		// Default to loopback only; override via TRUSTED_PROXIES in production
		_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	// Real-time like notifications for post authors
	hub := websocket.NewHub()
	notifier := &notify.WSNotifier{Hub: hub}

	authHandler := handlers.NewAuthHandler(usersRepo, tokens, refreshStore)
	usersHandler := handlers.NewUsersHandler(usersRepo)
	postsHandler := handlers.NewPostsHandler(postsRepo).WithNotifier(notifier)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsRepo)

	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ws := r.Group("/", handlers.AuthMiddleware(tokens))
	{
		ws.GET("/ws", websocket.ServeWS(hub))
	}

	// Public endpoints with a stricter auth rate limit
	api := r.Group("/api")
	public := api.Group("", middleware.RateLimitAuthMiddleware())
	public.POST("/register/", authHandler.Register)
	public.POST("/", authHandler.Login)
	// /token/ is an alias for login kept for clients that pair it with
	// /token/refresh/.
	public.POST("/token/", authHandler.Login)
	public.POST("/token/refresh/", authHandler.Refresh)

	protected := api.Group("", handlers.AuthMiddleware(tokens))
	{
		protected.GET("/users/", usersHandler.GetUsers)
		protected.GET("/posts/", postsHandler.GetPosts)
		protected.POST("/create/", postsHandler.CreatePost)
		protected.GET("/analytics/", analyticsHandler.GetLikesAnalytics)
		protected.GET("/analytics/export/", analyticsHandler.ExportLikesAnalytics)

		// Instrumented routes also record the caller's last request time
		tracked := protected.Group("", handlers.ActivityMiddleware(usersRepo))
		tracked.POST("/posts/:postId/like/", postsHandler.ToggleLike)
		tracked.GET("/user_activity/", usersHandler.GetActivity)
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Run(addr); err != nil {
		log.Fatal("Server stopped:", err)
	}
}
