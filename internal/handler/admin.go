package handler

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terrace-reservation/internal/booking"
	"github.com/iliyamo/terrace-reservation/internal/config"
	"github.com/iliyamo/terrace-reservation/internal/middleware"
	"github.com/iliyamo/terrace-reservation/internal/queue"
	"github.com/iliyamo/terrace-reservation/internal/repository"
	"github.com/iliyamo/terrace-reservation/internal/utils"
)

// AdminHandler lets the building administrator list every reservation and
// cancel any of them, for residents who lost the device they booked from.
type AdminHandler struct {
	Cfg          config.AdminConfig
	Secret       string
	AccessTTLMin int
	Reservations booking.Backend
	Publisher    queue.Publisher
}

func NewAdminHandler(cfg config.AdminConfig, secret string, ttlMin int, repo booking.Backend, pub queue.Publisher) *AdminHandler {
	if pub == nil {
		pub = queue.Nop{}
	}
	return &AdminHandler{Cfg: cfg, Secret: secret, AccessTTLMin: ttlMin, Reservations: repo, Publisher: pub}
}

type adminLoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Login handles POST /v1/admin/login.
func (h *AdminHandler) Login(c echo.Context) error {
	if !h.Cfg.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "admin login disabled"})
	}
	var req adminLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.Cfg.Username)) == 1
	// Both checks always run.
	passOK := utils.VerifyPassword(h.Cfg.PasswordHash, req.Password)
	if !userOK || !passOK {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Secret, h.Cfg.Username, middleware.RoleAdmin, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"access": tokenPart{Token: access.Token, Expires: access.Exp}})
}

// ListReservations handles GET /v1/admin/reservations.  Codes are included.
func (h *AdminHandler) ListReservations(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.Reservations.List(ctx)
	if err != nil {
		log.Printf("admin: list reservations failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, list)
}

// DeleteReservation handles DELETE /v1/admin/reservations/:id.  It skips
// the ownership check; the booking device keeps a stale entry that no
// longer matches any reservation.
func (h *AdminHandler) DeleteReservation(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	id := c.Param("id")
	res, err := h.Reservations.GetByID(ctx, id)
	if err == nil {
		err = h.Reservations.Delete(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		log.Printf("admin: delete reservation %s failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	sub, _ := c.Get("user_id").(string)
	log.Printf("admin: %s cancelled reservation %s (%s %s %s)", sub, id, res.Date, res.TimeSlot, res.Unit())
	if err := h.Publisher.Publish(ctx, queue.NewEvent(queue.TypeCancelled, res, "", "admin")); err != nil {
		log.Printf("admin: publish cancel for %s failed: %v", id, err)
	}
	return c.NoContent(http.StatusNoContent)
}
