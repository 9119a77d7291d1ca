package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MitsuruMe/momomoving-fe/internal/middleware"
	"github.com/MitsuruMe/momomoving-fe/internal/preferences"
)

func (h HandlerSet) GetPreferences(c *gin.Context) {
	cache := middleware.CurrentDevice(c).Preferences
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"preferences":     cache.Read(ctx),
		"has_preferences": cache.HasPreferences(ctx),
	})
}

func (h HandlerSet) ClearPreferences(c *gin.Context) {
	middleware.CurrentDevice(c).Preferences.Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}

type tagsRequest struct {
	SelectedTags []string `json:"selectedTags" binding:"max=50,dive,min=1,max=30"`
}

func (h HandlerSet) UpdateTags(c *gin.Context) {
	var req tagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	prefs := middleware.CurrentDevice(c).Preferences.UpdateSelectedTags(c.Request.Context(), req.SelectedTags)
	c.JSON(http.StatusOK, prefs)
}

type destinationRequest struct {
	PostalCode string  `json:"destinationPostalCode" binding:"required,postalcode"`
	Address    *string `json:"destinationAddress" binding:"omitempty,max=200"`
}

func (h HandlerSet) UpdateDestination(c *gin.Context) {
	var req destinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	prefs := middleware.CurrentDevice(c).Preferences.UpdateDestination(c.Request.Context(), req.PostalCode, req.Address)
	c.JSON(http.StatusOK, prefs)
}

func (h HandlerSet) UpdateConditions(c *gin.Context) {
	var req preferences.Partial
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	prefs := middleware.CurrentDevice(c).Preferences.UpdateSearchConditions(c.Request.Context(), req)
	c.JSON(http.StatusOK, prefs)
}
