package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MitsuruMe/momomoving-fe/internal/middleware"
	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

func (h HandlerSet) SearchProperties(c *gin.Context) {
	var q models.PropertySearch
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	props, err := h.api.SearchProperties(c.Request.Context(), middleware.SessionToken(c), q)
	if err != nil {
		h.remoteError(c, err, "物件の検索に失敗しました")
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": props})
}

// RecommendedProperties searches with the conditions saved during
// onboarding.
func (h HandlerSet) RecommendedProperties(c *gin.Context) {
	ctx := c.Request.Context()
	prefs := middleware.CurrentDevice(c).Preferences.Read(ctx)

	props, err := h.api.RecommendedProperties(ctx, middleware.SessionToken(c), prefs.SearchConditions())
	if err != nil {
		h.remoteError(c, err, "おすすめ物件の取得に失敗しました")
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": props, "preferences": prefs})
}

type propertyView struct {
	models.PropertyDetails
	Selected bool `json:"selected"`
}

func (h HandlerSet) GetProperty(c *gin.Context) {
	ctx := c.Request.Context()
	details, err := h.api.Property(ctx, middleware.SessionToken(c), c.Param("id"))
	if err != nil {
		h.remoteError(c, err, "物件情報の取得に失敗しました")
		return
	}

	sel := middleware.CurrentDevice(c).Selection.Read(ctx)
	c.JSON(http.StatusOK, propertyView{
		PropertyDetails: details,
		Selected:        sel.PropertyID != nil && *sel.PropertyID == details.PropertyID,
	})
}

func (h HandlerSet) GetSelection(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentDevice(c).Selection.Read(c.Request.Context()))
}

type selectRequest struct {
	PropertyID string `json:"property_id" binding:"required,max=100"`
}

func (h HandlerSet) SelectProperty(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sel := middleware.CurrentDevice(c).Selection.Select(c.Request.Context(), req.PropertyID)
	c.JSON(http.StatusOK, sel)
}

func (h HandlerSet) ClearSelection(c *gin.Context) {
	middleware.CurrentDevice(c).Selection.Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}
