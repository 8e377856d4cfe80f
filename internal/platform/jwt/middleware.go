// Package jwtmw issues session tokens and guards routes with them.
package jwtmw

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"booking_backend/internal/feature/auth/domain/entity"
)

const bearerPrefix = "Bearer "

const msgUnauthorized = "Not authorized to access this route"

// Verifier validates a raw token string.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// Authenticate returns a Gin middleware that requires a valid bearer token.
// On success the identity is threaded through the request context; on any
// failure the request is aborted with 401 and nothing is attached.
func Authenticate(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header, prefix must match exactly
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, bearerPrefix) {
			abortUnauthorized(c)
			return
		}
		tokenStr := strings.TrimPrefix(auth, bearerPrefix)
		if tokenStr == "" {
			abortUnauthorized(c)
			return
		}

		// 2. Verify signature, algorithm and expiry
		id, err := verifier.Verify(tokenStr)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		// 3. Attach identity for downstream handlers
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// Authorize returns a Gin middleware that admits only the given roles.
// It must run after Authenticate; without an identity the request is rejected with 401.
func Authorize(allowed ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c.Request.Context())
		if !ok {
			abortUnauthorized(c)
			return
		}
		if !id.Role.In(allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": fmt.Sprintf("User role %s is not authorized to access this route", id.Role),
			})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": msgUnauthorized})
}
