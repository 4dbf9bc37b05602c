package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// RecoveryConfig holds configuration for the recovery middleware.
type RecoveryConfig struct {
	// HandleRecovery is a custom function to handle panic recovery.
	// If nil, the default handler will be used.
	HandleRecovery func(c *gin.Context, err interface{})
	// PrintStack determines whether to print the stack trace to logs.
	PrintStack bool
}

// RecoveryMiddleware returns a panic recovery middleware with custom configuration.
func RecoveryMiddleware(config RecoveryConfig) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if config.HandleRecovery != nil {
			config.HandleRecovery(c, recovered)
			return
		}

		requestID := GetRequestID(c)

		if config.PrintStack {
			fmt.Printf("[PANIC RECOVERY] Request ID: %s\nPanic: %v\nStack:\n%s\n", requestID, recovered, debug.Stack())
		}

		c.String(http.StatusInternalServerError, "Internal server error")
		c.Abort()
	})
}

// DefaultRecoveryMiddleware returns a recovery middleware with sensible defaults.
func DefaultRecoveryMiddleware() gin.HandlerFunc {
	return RecoveryMiddleware(RecoveryConfig{
		PrintStack: true,
	})
}
