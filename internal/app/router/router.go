// Package router assembles the gin engine.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"booking_backend/internal/feature/auth/domain/entity"
	authhandler "booking_backend/internal/feature/auth/transport/handler"
	"booking_backend/internal/platform/http/handler"
	"booking_backend/internal/platform/http/middleware"
	jwtmw "booking_backend/internal/platform/jwt"
)

// Options controls the ambient middleware.
type Options struct {
	CORSOrigins    []string
	HTTPLogEnabled bool
	Logger         *slog.Logger
	ReadyChecks    map[string]handler.Check
}

// NewRouter wires every route. verifier guards the authenticated routes.
func NewRouter(auth *authhandler.AuthHandler, verifier jwtmw.Verifier, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(corsHandler(opts.CORSOrigins))
	if opts.HTTPLogEnabled {
		r.Use(middleware.AccessLog(opts.Logger))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	// no auth
	r.GET("/api/health", handler.Health)
	r.HEAD("/api/health", handler.Health)
	r.OPTIONS("/api/health", handler.Health)
	r.GET("/api/health/ready", handler.Ready(opts.ReadyChecks))

	a := r.Group("/api/auth")
	a.POST("/register", auth.Register)
	a.POST("/verify-email", auth.VerifyEmail)
	a.POST("/login", auth.Login)

	// bearer token required
	protected := a.Group("")
	protected.Use(jwtmw.Authenticate(verifier))
	{
		protected.GET("/me", auth.Me)
		protected.GET("/users/:id", jwtmw.Authorize(entity.RoleAgent, entity.RoleAdmin), auth.GetUser)
	}

	return r
}

func corsHandler(origins []string) gin.HandlerFunc {
	return cors.New(corsConfig(origins))
}

// corsConfig allows any origin when none are configured, without credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions, http.MethodHead},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
