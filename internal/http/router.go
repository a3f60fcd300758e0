package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mwalczyk/webauth/internal/api"
	"github.com/mwalczyk/webauth/internal/auth"
	"github.com/mwalczyk/webauth/internal/database"
)

// hstsMaxAgeSeconds is one year, the usual HSTS commitment period.
const hstsMaxAgeSeconds = 31536000

// RouterConfig carries all router dependencies. Passing one struct
// instead of a parameter list keeps wiring testable.
type RouterConfig struct {
	// Core dependencies
	Database       *database.Database
	AuthController *auth.AuthController
	AuthMiddleware *auth.Middleware

	// CSRF protection is enabled when a secret is present
	CSRFSecret []byte

	// Runtime mode
	Development   bool
	SecureCookies bool

	// CORS
	AllowOrigins []string

	// Application info
	Version string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if !cfg.Development {
		router.Use(auth.StrictTransportSecurityMiddleware(hstsMaxAgeSeconds))
	}

	// CORS runs on every request, before any auth handling
	router.Use(corsMiddleware(cfg.AllowOrigins))

	// Single translator from typed handler failures to JSON envelopes
	router.Use(api.ErrorHandler(cfg.Development))

	// Apply CSRF protection if a secret is configured
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session resolution runs on every request but never rejects one
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	router.GET("/", indexHandler(cfg.Version))

	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)

	if cfg.AuthController != nil {
		apiGroup := router.Group("/api/v1")
		cfg.AuthController.RegisterRoutes(apiGroup.Group("/auth"))
	}

	return router
}

// indexHandler answers the root path, which is also the logout
// redirect target.
func indexHandler(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, api.SuccessResponse{
			Success: true,
			Message: "webauth " + version,
		})
	}
}

func corsMiddleware(allowOrigins []string) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if len(allowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowOrigins
		// Cookie-based auth needs credentialed CORS for listed origins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, auth.CSRFTokenHeader)
	return cors.New(corsCfg)
}
