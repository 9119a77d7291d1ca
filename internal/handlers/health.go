package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MitsuruMe/momomoving-fe/internal/storage"
)

type healthResponse struct {
	Status      string `json:"status"`
	Store       string `json:"store"`
	Devices     int    `json:"devices"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	storeStatus := "ok"
	switch s := h.store.(type) {
	case nil:
		storeStatus = "unavailable"
	case storage.Pinger:
		if err := s.Ping(ctx); err != nil {
			storeStatus = "error"
			h.log.Error().Err(err).Msg("store ping failed")
		}
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Store:       storeStatus,
		Devices:     h.registry.Len(),
		Environment: h.cfg.Environment,
	})
}
