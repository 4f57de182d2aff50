package handler

import (
	"crypto/subtle"
	"errors"
	"strings"

	"courier-tracker/internal/core/logger"
	"courier-tracker/internal/core/server"
	"courier-tracker/internal/features/trackingmap/domain"
	"courier-tracker/internal/features/trackingmap/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminHandler handles HTTP requests for tracking map administration.
type AdminHandler struct {
	store    ports.TrackingMapStore
	password string
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(store ports.TrackingMapStore, password string) *AdminHandler {
	return &AdminHandler{
		store:    store,
		password: password,
	}
}

// MapResponse is the body of GET /api/admin/tracking-map.
type MapResponse struct {
	Map domain.TrackingMap `json:"map"`
}

// UpsertResponse is the body of a successful upsert.
type UpsertResponse struct {
	OK      bool         `json:"ok"`
	Updated domain.Entry `json:"updated"`
}

// TrackingMap godoc
// @Summary Read or update the tracking map
// @Description GET returns the whole map. POST replaces the doc ids of one mobile number.
// @Tags admin
// @Accept json
// @Produce json
// @Param x-admin-password header string false "Admin password"
// @Param password query string false "Admin password"
// @Success 200 {object} MapResponse
// @Success 200 {object} UpsertResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} server.ErrorResponse
// @Failure 405 {object} server.ErrorResponse
// @Failure 500 {object} server.ErrorResponse
// @Router /api/admin/tracking-map [get]
// @Router /api/admin/tracking-map [post]
func (h *AdminHandler) TrackingMap(c *fiber.Ctx) error {
	var (
		body    server.Body
		bodyErr error
	)
	if c.Method() == fiber.MethodPost {
		body, bodyErr = server.DecodeBody(c)
	}

	if !h.authorized(c, body) {
		logger.Get().Warn("Rejected tracking map admin request",
			zap.String("ip", c.IP()),
			zap.String("ray_id", server.RayID(c)),
		)
		return server.SendError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	switch c.Method() {
	case fiber.MethodGet:
		m, err := h.store.ReadTrackingMap(c.UserContext())
		if err != nil {
			return h.storeFailure(c, err)
		}
		return c.JSON(MapResponse{Map: m})

	case fiber.MethodPost:
		if bodyErr != nil {
			return server.SendError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		entry, err := h.store.UpsertEntry(c.UserContext(), body.String("mobile"), body.Value("docIds", "docId"))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrValidation):
				return server.SendError(c, fiber.StatusBadRequest, err.Error())
			default:
				return h.storeFailure(c, err)
			}
		}
		return c.JSON(UpsertResponse{OK: true, Updated: entry})

	default:
		return server.MethodNotAllowed(c)
	}
}

// storeFailure reports a store error to the caller with its message.
func (h *AdminHandler) storeFailure(c *fiber.Ctx, err error) error {
	if !errors.Is(err, domain.ErrReadOnly) {
		logger.Get().Error("Tracking map store failed",
			zap.String("ray_id", server.RayID(c)),
			zap.Error(err),
		)
	}
	return server.SendError(c, fiber.StatusInternalServerError, err.Error())
}

// authorized checks the first password supplied, in order: header,
// bearer token, query, body.
func (h *AdminHandler) authorized(c *fiber.Ctx, body server.Body) bool {
	if h.password == "" {
		return false
	}
	got := suppliedPassword(c, body)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.password)) == 1
}

func suppliedPassword(c *fiber.Ctx, body server.Body) string {
	if p := c.Get("x-admin-password"); p != "" {
		return p
	}
	if auth := c.Get(fiber.HeaderAuthorization); len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		if p := strings.TrimSpace(auth[7:]); p != "" {
			return p
		}
	}
	if p := c.Query("password"); p != "" {
		return p
	}
	if p, ok := body["password"].(string); ok {
		return p
	}
	return ""
}
