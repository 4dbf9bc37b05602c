package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KTMO24/github-event-logger/internal/api/middleware"
)

// Home renders the landing page, greeting the authenticated user or
// inviting an anonymous visitor to log in.
func Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home", gin.H{
		"Title": "GitHub Event Logger",
		"User":  middleware.CurrentUser(c),
	})
}

// Health reports basic liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// Ping is a minimal health check.
func Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
