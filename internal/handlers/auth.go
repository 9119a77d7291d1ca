package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MitsuruMe/momomoving-fe/internal/guard"
	"github.com/MitsuruMe/momomoving-fe/internal/middleware"
	"github.com/MitsuruMe/momomoving-fe/internal/models"
	"github.com/MitsuruMe/momomoving-fe/internal/momoapi"
	"github.com/MitsuruMe/momomoving-fe/internal/session"
)

const eventKeepAlive = 25 * time.Second

type sessionResponse struct {
	Session  session.State `json:"session"`
	Redirect string        `json:"redirect,omitempty"`
}

// LoginPage sends an already authenticated device home.
func (h HandlerSet) LoginPage(c *gin.Context) {
	state := h.resolve(c)
	if state.IsAuthenticated() {
		c.Header("Location", homePath)
		c.AbortWithStatus(http.StatusFound)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Session: state})
}

func (h HandlerSet) Session(c *gin.Context) {
	c.JSON(http.StatusOK, sessionResponse{Session: h.resolve(c)})
}

func (h HandlerSet) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	m := middleware.CurrentDevice(c).Session
	if !m.Login(c.Request.Context(), req.Username, req.Password) {
		state := m.Snapshot()
		msg := "login failed"
		if state.Error != nil {
			msg = *state.Error
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg, "session": state})
		return
	}

	c.JSON(http.StatusOK, sessionResponse{Session: m.Snapshot(), Redirect: homePath})
}

type registerResponse struct {
	User     models.RegisterResponse `json:"user"`
	Session  session.State           `json:"session"`
	Redirect string                  `json:"redirect"`
}

// Signup creates the account and signs the device in, then continues to
// onboarding.
func (h HandlerSet) Signup(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	created, err := h.api.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, momoapi.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "このユーザーIDは既に使用されています"})
			return
		}
		h.remoteError(c, err, "登録に失敗しました")
		return
	}

	m := middleware.CurrentDevice(c).Session
	redirect := onboardingPath
	if !m.Login(c.Request.Context(), req.Username, req.Password) {
		redirect = guard.LoginPath
	}

	c.JSON(http.StatusCreated, registerResponse{User: created, Session: m.Snapshot(), Redirect: redirect})
}

func (h HandlerSet) Logout(c *gin.Context) {
	middleware.CurrentDevice(c).Session.Logout(c.Request.Context())
	c.JSON(http.StatusOK, sessionResponse{Session: middleware.CurrentDevice(c).Session.Snapshot(), Redirect: guard.LoginPath})
}

func (h HandlerSet) ClearError(c *gin.Context) {
	middleware.CurrentDevice(c).Session.ClearError()
	c.Status(http.StatusNoContent)
}

type sessionEvent struct {
	Decision string        `json:"decision"`
	Session  session.State `json:"session"`
}

// latestEvent holds at most one unread event. A newer decision replaces an
// unread one, so a slow stream still ends on the latest decision.
type latestEvent chan sessionEvent

func newLatestEvent() latestEvent {
	return make(latestEvent, 1)
}

// put must only be called from one goroutine.
func (l latestEvent) put(ev sessionEvent) (replaced bool) {
	for {
		select {
		case l <- ev:
			return replaced
		default:
		}
		select {
		case <-l:
			replaced = true
		default:
		}
	}
}

// SessionEvents streams guard decisions for this device. The stream ends
// after a redirect.
func (h HandlerSet) SessionEvents(c *gin.Context) {
	m := middleware.CurrentDevice(c).Session

	events := newLatestEvent()
	stop := guard.Watch(m, func(d guard.Decision, s session.State) {
		if events.put(sessionEvent{Decision: d.String(), Session: s}) {
			h.log.Debug().Str("decision", d.String()).Msg("unsent session event superseded")
		}
	})
	defer stop()

	keepAlive := time.NewTicker(eventKeepAlive)
	defer keepAlive.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-keepAlive.C:
			c.SSEvent("ping", h.now().Unix())
			return true
		case ev := <-events:
			c.SSEvent(ev.Decision, ev)
			return ev.Decision != guard.Redirect.String()
		}
	})
}
