package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MitsuruMe/momomoving-fe/internal/guard"
	"github.com/MitsuruMe/momomoving-fe/internal/models"
	"github.com/MitsuruMe/momomoving-fe/internal/session"
)

const (
	tokenContextKey = "access_token"
	userContextKey  = "current_user"
)

// RequireSession gates a route on the device session. It starts session
// resolution on first use and waits up to resolveWait for it.
func RequireSession(resolveWait time.Duration, fallback any) gin.HandlerFunc {
	retryAfter := strconv.Itoa(max(1, int(resolveWait.Round(time.Second).Seconds())))

	return func(c *gin.Context) {
		d := CurrentDevice(c)
		if d == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "device_missing"})
			return
		}

		state := ResolveSession(c, resolveWait)
		switch guard.Evaluate(state) {
		case guard.Fallback:
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusAccepted, fallback)
		case guard.Redirect:
			c.Header("Location", guard.LoginPath)
			c.AbortWithStatus(http.StatusFound)
		case guard.Render:
			c.Set(tokenContextKey, *state.Token)
			c.Set(userContextKey, *state.User)
			c.Next()
		}
	}
}

// ResolveSession starts resolving the device session on first use and waits
// up to wait for it. The returned state may still be loading.
func ResolveSession(c *gin.Context, wait time.Duration) session.State {
	m := CurrentDevice(c).Session
	if m.Snapshot().Status == session.StatusUninitialized {
		go m.Init(context.WithoutCancel(c.Request.Context()))
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
	defer cancel()
	state, _ := m.Wait(ctx)
	return state
}

// SessionToken is the bearer token of the request that passed RequireSession.
func SessionToken(c *gin.Context) string {
	return c.GetString(tokenContextKey)
}

func SessionUser(c *gin.Context) models.User {
	if v, ok := c.Get(userContextKey); ok {
		if u, ok := v.(models.User); ok {
			return u
		}
	}
	return models.User{}
}
