package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mwalczyk/webauth/internal/auth"
	"github.com/mwalczyk/webauth/internal/config"
	"github.com/mwalczyk/webauth/internal/database"
	"github.com/mwalczyk/webauth/internal/database/sessions"
	"github.com/mwalczyk/webauth/internal/database/users"
	http_controllers "github.com/mwalczyk/webauth/internal/http"
	"github.com/mwalczyk/webauth/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until an interrupt, then shuts it down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the cleanup scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires all dependencies and starts the server.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting webauth v%s (%s mode)", version, cfg.Global.Environment)

	if cfg.Global.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	sessionRepo := sessions.NewRepository(db.DB)

	sessionManager := auth.NewSessionManager(userRepo, sessionRepo, cfg.Auth, cfg.Global.IsProduction())
	authMiddleware := auth.NewMiddleware(sessionManager)
	authController := auth.NewAuthController(userRepo, sessionManager, cfg.Auth)

	// CSRF protection is opt-in via secret
	var csrfSecret []byte
	if cfg.Auth.CSRFSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.CSRFSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.CSRFSecret)
		}
	} else {
		log.Printf("WARNING: AUTH_CSRF_SECRET is not set, CSRF protection is disabled")
	}

	// Periodic cleanup of expired session rows
	cleanup := scheduler.NewSessionCleanup(sessionRepo, cfg.Cleanup)
	if err := cleanup.Start(); err != nil {
		log.Fatalf("Failed to start session cleanup scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		AuthController: authController,
		AuthMiddleware: authMiddleware,
		CSRFSecret:     csrfSecret,
		Development:    !cfg.Global.IsProduction(),
		SecureCookies:  cfg.Global.IsProduction(),
		AllowOrigins:   cfg.CORS.AllowOrigins,
		Version:        version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		cleanup.Stop()
	})
}
