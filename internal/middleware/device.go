package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MitsuruMe/momomoving-fe/internal/config"
	"github.com/MitsuruMe/momomoving-fe/internal/device"
	"github.com/MitsuruMe/momomoving-fe/internal/ids"
	"github.com/MitsuruMe/momomoving-fe/internal/security"
)

const deviceContextKey = "device"

// Device resolves the signed device cookie, issuing a new identity when it
// is missing or invalid, and attaches that device's state to the request.
func Device(cfg *config.AppConfig, registry *device.Registry, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := ""
		if raw, err := c.Cookie(cfg.Cookie.Name); err == nil && raw != "" {
			claims, err := security.ParseDeviceToken(raw, cfg.Security.DeviceSecret)
			if err != nil {
				log.Debug().Err(err).Msg("device cookie rejected")
			} else if ids.Valid(claims.DeviceID) {
				deviceID = claims.DeviceID
			}
		}

		if deviceID == "" {
			deviceID = ids.New()
			token, err := security.GenerateDeviceToken(cfg.Security.DeviceSecret, deviceID, cfg.Security.DeviceTTL)
			if err != nil {
				log.Error().Err(err).Msg("issue device token failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.Cookie.Name, token, int(cfg.Security.DeviceTTL.Seconds()), "/", "", cfg.Cookie.Secure, true)
		}

		c.Set(deviceContextKey, registry.Get(deviceID))
		c.Next()
	}
}

// CurrentDevice returns the device attached by Device.
func CurrentDevice(c *gin.Context) *device.Device {
	if v, ok := c.Get(deviceContextKey); ok {
		if d, ok := v.(*device.Device); ok {
			return d
		}
	}
	return nil
}
