package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terrace-reservation/internal/utils"
)

// DeviceIDKey is the context key holding the caller's device id.
const DeviceIDKey = "device_id"

// DeviceConfig configures the device identity cookie.
type DeviceConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Device identifies the calling browser.  A signed cookie carries a random
// device id; when it is missing or fails verification a new id is issued.
// The id selects the device's ownership store, which plays the role of
// the browser's local storage.
func Device(cfg DeviceConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(cfg.CookieName); err == nil {
				if id, err := utils.ParseDeviceToken(cfg.Secret, ck.Value); err == nil {
					c.Set(DeviceIDKey, id)
					return next(c)
				}
			}
			id := uuid.NewString()
			tok, err := utils.NewDeviceToken(cfg.Secret, id, cfg.TTL)
			if err != nil {
				log.Printf("device: sign token failed: %v", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "device identity unavailable"})
			}
			c.SetCookie(&http.Cookie{
				Name:     cfg.CookieName,
				Value:    tok.Token,
				Path:     "/",
				Expires:  tok.Exp,
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(DeviceIDKey, id)
			return next(c)
		}
	}
}

// DeviceID returns the device id set by Device, or "" outside it.
func DeviceID(c echo.Context) string {
	id, _ := c.Get(DeviceIDKey).(string)
	return id
}
