// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Health answers liveness probes on /api/health.
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
	}
}

// Check probes one dependency.
type Check func(ctx context.Context) error

// Ready returns a readiness handler that runs every check with a short timeout.
// Any failure yields 503 and lists the failing dependency names.
func Ready(checks map[string]Check) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		failing := make([]string, 0)
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				slog.Warn("readiness check failed", "check", name, "error", err)
				failing = append(failing, name)
			}
		}

		if len(failing) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "UNAVAILABLE", "failing": failing})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	}
}
