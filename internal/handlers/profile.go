package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MitsuruMe/momomoving-fe/internal/middleware"
	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

func (h HandlerSet) Profile(c *gin.Context) {
	user, err := h.api.Me(c.Request.Context(), middleware.SessionToken(c))
	if err != nil {
		h.remoteError(c, err, "ユーザー情報の取得に失敗しました")
		return
	}
	middleware.CurrentDevice(c).Session.SetUser(user)
	c.JSON(http.StatusOK, user)
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.api.UpdateMe(c.Request.Context(), middleware.SessionToken(c), req)
	if err != nil {
		h.remoteError(c, err, "ユーザー情報の更新に失敗しました")
		return
	}
	middleware.CurrentDevice(c).Session.SetUser(user)
	c.JSON(http.StatusOK, user)
}
