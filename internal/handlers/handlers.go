package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MitsuruMe/momomoving-fe/internal/advice"
	"github.com/MitsuruMe/momomoving-fe/internal/config"
	"github.com/MitsuruMe/momomoving-fe/internal/device"
	"github.com/MitsuruMe/momomoving-fe/internal/guard"
	"github.com/MitsuruMe/momomoving-fe/internal/middleware"
	"github.com/MitsuruMe/momomoving-fe/internal/momoapi"
	"github.com/MitsuruMe/momomoving-fe/internal/session"
	"github.com/MitsuruMe/momomoving-fe/internal/storage"
	"github.com/MitsuruMe/momomoving-fe/internal/validation"
)

const (
	homePath        = "/"
	onboardingPath  = "/destination"
	notFoundMessage = "お探しの情報が見つかりませんでした"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	api      *momoapi.Client
	advice   *advice.Service
	registry *device.Registry
	store    storage.Backend
	now      func() time.Time
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, api *momoapi.Client, registry *device.Registry, store storage.Backend) HandlerSet {
	return HandlerSet{
		log:      log,
		cfg:      cfg,
		api:      api,
		advice:   advice.NewService(api, cfg.Advice.Timeout, log),
		registry: registry,
		store:    store,
		now:      time.Now,
	}
}

type loadingView struct {
	Loading bool   `json:"loading"`
	Message string `json:"message"`
}

func (h HandlerSet) Register(engine *gin.Engine) {
	engine.GET("/healthz", h.Health)

	router := engine.Group("/", middleware.Device(h.cfg, h.registry, h.log))
	{
		router.GET("/login", h.LoginPage)
		router.GET("/session", h.Session)

		auth := router.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Signup)
		auth.POST("/logout", h.Logout)
		auth.DELETE("/error", h.ClearError)
	}

	protected := router.Group("/")
	protected.Use(middleware.RequireSession(h.cfg.Session.ResolveWait, loadingView{Loading: true, Message: "読み込み中..."}))
	{
		protected.GET("/", h.Home)
		protected.GET("/session/events", h.SessionEvents)

		protected.GET("/tasks", h.ListTasks)
		protected.GET("/tasks/:id", h.GetTask)
		protected.PUT("/tasks/:id", h.UpdateTask)

		protected.GET("/me", h.Profile)
		protected.PUT("/me", h.UpdateProfile)

		protected.GET("/properties", h.SearchProperties)
		protected.GET("/properties/recommended", h.RecommendedProperties)
		protected.GET("/properties/:id", h.GetProperty)

		protected.GET("/selection", h.GetSelection)
		protected.PUT("/selection", h.SelectProperty)
		protected.DELETE("/selection", h.ClearSelection)

		protected.GET("/preferences", h.GetPreferences)
		protected.DELETE("/preferences", h.ClearPreferences)
		protected.PUT("/preferences/tags", h.UpdateTags)
		protected.PUT("/preferences/destination", h.UpdateDestination)
		protected.PUT("/preferences/conditions", h.UpdateConditions)

		protected.GET("/badges", h.Badges)
		protected.GET("/missions", h.Missions)
		protected.GET("/suggestions", h.Suggestion)
		protected.GET("/bulk-waste", h.BulkWaste)
	}
}

func (h HandlerSet) resolve(c *gin.Context) session.State {
	return middleware.ResolveSession(c, h.cfg.Session.ResolveWait)
}

// remoteError converts a remote API failure into the response. A 401 ends
// the device session so the next guarded request redirects.
func (h HandlerSet) remoteError(c *gin.Context, err error, fallback string) {
	var apiErr *momoapi.APIError
	switch {
	case errors.Is(err, momoapi.ErrUnauthorized):
		h.expire(c)
		c.Header("Location", guard.LoginPath)
		c.JSON(http.StatusUnauthorized, gin.H{"error": momoapi.ErrorMessage(err, fallback)})
	case errors.Is(err, momoapi.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
	case errors.Is(err, momoapi.ErrNetwork):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": momoapi.ErrorMessage(err, fallback)})
	case errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError:
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message(fallback)})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("remote api call failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
	}
}

func (h HandlerSet) expire(c *gin.Context) {
	d := middleware.CurrentDevice(c)
	if d == nil {
		return
	}
	d.Session.Expire(c.Request.Context(), middleware.SessionToken(c))
}

func bindError(c *gin.Context, err error) {
	if fields, ok := validation.FieldErrors(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
}
