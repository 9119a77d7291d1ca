package handlers

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/MitsuruMe/momomoving-fe/internal/advice"
	"github.com/MitsuruMe/momomoving-fe/internal/metrics"
	"github.com/MitsuruMe/momomoving-fe/internal/middleware"
	"github.com/MitsuruMe/momomoving-fe/internal/models"
	"github.com/MitsuruMe/momomoving-fe/internal/momoapi"
)

type homeView struct {
	User           models.User `json:"user"`
	MoveDateJP     string      `json:"move_date_jp"`
	DaysUntilMove  int         `json:"days_until_move"`
	CompletionRate int         `json:"completion_rate"`
	Tasks          []taskView  `json:"tasks"`
	Tip            advice.Tip  `json:"tip"`
	HasPreferences bool        `json:"has_preferences"`
	HasSelection   bool        `json:"has_selection"`
}

func (h HandlerSet) Home(c *gin.Context) {
	ctx := c.Request.Context()
	token := middleware.SessionToken(c)
	user := middleware.SessionUser(c)
	d := middleware.CurrentDevice(c)

	tasks, err := h.api.Tasks(ctx, token)
	if err != nil {
		h.remoteError(c, err, "タスクの取得に失敗しました")
		return
	}

	days := h.daysUntilMove(user)
	tip := h.advice.Suggestion(ctx, token, models.SuggestionMovingPreparation, days)
	if errors.Is(tip.Err, momoapi.ErrUnauthorized) {
		h.expire(c)
	}

	c.JSON(http.StatusOK, homeView{
		User:           user,
		MoveDateJP:     metrics.FormatDateJP(user.MoveDate),
		DaysUntilMove:  days,
		CompletionRate: metrics.CompletionRate(tasks),
		Tasks:          h.taskViews(tasks),
		Tip:            tip,
		HasPreferences: d.Preferences.HasPreferences(ctx),
		HasSelection:   d.Selection.HasSelection(ctx),
	})
}

func (h HandlerSet) daysUntilMove(user models.User) int {
	days, err := metrics.DaysUntilMove(user.MoveDate, h.now())
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", user.UserID).Msg("unreadable move date")
		return 0
	}
	return days
}

type badgesView struct {
	CompletionRate int             `json:"completion_rate"`
	Earned         []metrics.Badge `json:"earned"`
	Unearned       []metrics.Badge `json:"unearned"`
}

func (h HandlerSet) Badges(c *gin.Context) {
	tasks, err := h.api.Tasks(c.Request.Context(), middleware.SessionToken(c))
	if err != nil {
		h.remoteError(c, err, "タスクの取得に失敗しました")
		return
	}

	earned, unearned := metrics.Partition(metrics.Badges, tasks)
	c.JSON(http.StatusOK, badgesView{
		CompletionRate: metrics.CompletionRate(tasks),
		Earned:         earned,
		Unearned:       unearned,
	})
}

func (h HandlerSet) Missions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"missions": metrics.Missions})
}

var suggestionContexts = []models.SuggestionContext{
	models.SuggestionInternetContract,
	models.SuggestionMovingPreparation,
	models.SuggestionUtilities,
	models.SuggestionGeneral,
}

func (h HandlerSet) Suggestion(c *gin.Context) {
	suggestionContext := models.SuggestionContext(c.DefaultQuery("context", string(models.SuggestionGeneral)))
	if !slices.Contains(suggestionContexts, suggestionContext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown suggestion context"})
		return
	}

	days := h.daysUntilMove(middleware.SessionUser(c))
	tip := h.advice.Suggestion(c.Request.Context(), middleware.SessionToken(c), suggestionContext, days)
	if errors.Is(tip.Err, momoapi.ErrUnauthorized) {
		h.expire(c)
	}
	c.JSON(http.StatusOK, tip)
}

func (h HandlerSet) BulkWaste(c *gin.Context) {
	info, err := h.advice.BulkWaste(c.Request.Context(), middleware.SessionToken(c))
	if err != nil {
		h.remoteError(c, err, "粗大ゴミ情報の取得に失敗しました")
		return
	}
	c.JSON(http.StatusOK, info)
}
