package handler

import (
	"context"
	"strconv"

	"courier-tracker/internal/core/config"
	"courier-tracker/internal/core/logger"
	"courier-tracker/internal/core/server"
	"courier-tracker/internal/features/tracking/domain"
	"courier-tracker/internal/features/tracking/ports"
	mapdomain "courier-tracker/internal/features/trackingmap/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TrackingMapReader is the part of the tracking map store the handler needs.
type TrackingMapReader interface {
	ReadTrackingMap(ctx context.Context) (mapdomain.TrackingMap, error)
}

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	tracker     ports.Tracker
	store       TrackingMapReader
	defaultSlug string
	maxDocIDs   int
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(tracker ports.Tracker, store TrackingMapReader, cfg config.CourierConfig) *TrackingHandler {
	slug := cfg.DefaultSlug
	if slug == "" {
		slug = "anjani-courier"
	}
	maxDocIDs := cfg.MaxDocIDs
	if maxDocIDs <= 0 {
		maxDocIDs = 25
	}
	return &TrackingHandler{
		tracker:     tracker,
		store:       store,
		defaultSlug: slug,
		maxDocIDs:   maxDocIDs,
	}
}

// TrackByMobileResponse is the body of a successful track-by-mobile call.
// The doc ids behind the mobile number are not exposed.
type TrackByMobileResponse struct {
	Mobile      string                  `json:"mobile"`
	CourierSlug string                  `json:"courierSlug"`
	Results     []domain.TrackingResult `json:"results"`
}

// TrackCourierResponse is the body of a successful trackcourier call.
type TrackCourierResponse struct {
	CourierSlug string                  `json:"courierSlug"`
	Results     []domain.TrackingResult `json:"results"`
}

// TrackByMobile godoc
// @Summary Track all shipments of a mobile number
// @Description Looks up the doc ids mapped to a mobile number and tracks each of them
// @Tags tracking
// @Accept json
// @Produce json
// @Param mobile query string false "Mobile number (GET)"
// @Param courierSlug query string false "Courier slug" default(anjani-courier)
// @Success 200 {object} TrackByMobileResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Failure 405 {object} server.ErrorResponse
// @Router /api/track-by-mobile [get]
// @Router /api/track-by-mobile [post]
func (h *TrackingHandler) TrackByMobile(c *fiber.Ctx) error {
	var (
		rawMobile string
		body      server.Body
	)

	switch c.Method() {
	case fiber.MethodGet:
		rawMobile = c.Query("mobile")
	case fiber.MethodPost:
		var err error
		if body, err = server.DecodeBody(c); err != nil {
			return server.SendError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		rawMobile = body.String("mobile", "phone")
	default:
		return server.MethodNotAllowed(c)
	}

	mobile := mapdomain.NormalizeMobile(rawMobile)
	if len(mobile) < mapdomain.MobileLength {
		return server.SendError(c, fiber.StatusBadRequest, "Provide a valid mobile number")
	}

	m, err := h.store.ReadTrackingMap(c.UserContext())
	if err != nil {
		return err
	}

	docIDs, err := m.Lookup(mobile)
	if err != nil {
		return server.SendError(c, fiber.StatusNotFound, err.Error())
	}

	slug := h.courierSlug(c, body)
	logger.Get().Debug("Tracking by mobile",
		zap.String("courier_slug", slug),
		zap.Int("doc_ids", len(docIDs)),
		zap.String("ray_id", server.RayID(c)),
	)

	return c.JSON(TrackByMobileResponse{
		Mobile:      mobile,
		CourierSlug: slug,
		Results:     h.tracker.TrackDocIDs(c.UserContext(), slug, docIDs),
	})
}

// TrackCourier godoc
// @Summary Track doc ids
// @Description Tracks up to 25 doc ids sequentially; a failing id does not fail the request
// @Tags tracking
// @Accept json
// @Produce json
// @Param docIds query string false "Comma separated doc ids (GET)"
// @Param docId query string false "Alias of docIds (GET)"
// @Param courierSlug query string false "Courier slug" default(anjani-courier)
// @Success 200 {object} TrackCourierResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 405 {object} server.ErrorResponse
// @Router /api/trackcourier [get]
// @Router /api/trackcourier [post]
func (h *TrackingHandler) TrackCourier(c *fiber.Ctx) error {
	var (
		raw  any
		body server.Body
	)

	switch c.Method() {
	case fiber.MethodGet:
		raw = server.QueryValues(c, "docId", "docIds")
	case fiber.MethodPost:
		var err error
		if body, err = server.DecodeBody(c); err != nil {
			return server.SendError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		raw = body.Value("docIds", "docId")
		if raw == nil {
			raw = server.QueryValues(c, "docIds", "docId")
		}
	default:
		return server.MethodNotAllowed(c)
	}

	docIDs := mapdomain.NormalizeDocIDs(raw)
	if len(docIDs) == 0 {
		return server.SendError(c, fiber.StatusBadRequest, `Provide docIds (string/array). Example: { "docIds": ["1698979542"] }`)
	}
	if len(docIDs) > h.maxDocIDs {
		return server.SendError(c, fiber.StatusBadRequest, tooManyDocIDs(h.maxDocIDs))
	}

	slug := h.courierSlug(c, body)
	return c.JSON(TrackCourierResponse{
		CourierSlug: slug,
		Results:     h.tracker.TrackDocIDs(c.UserContext(), slug, docIDs),
	})
}

// courierSlug prefers the query, then the body, then the default.
func (h *TrackingHandler) courierSlug(c *fiber.Ctx, body server.Body) string {
	if s := c.Query("courierSlug"); s != "" {
		return s
	}
	if s, ok := body["courierSlug"].(string); ok && s != "" {
		return s
	}
	return h.defaultSlug
}

func tooManyDocIDs(limit int) string {
	return "Too many docIds. Limit is " + strconv.Itoa(limit) + " per request."
}
