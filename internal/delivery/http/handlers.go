package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
	"github.com/IamTkle/capstone1-dashboard/internal/service"
	"github.com/IamTkle/capstone1-dashboard/pkg/utils"
)

// Slider bounds of the map controls
const (
	minElevationScale = 0.1
	maxElevationScale = 5
	minRadius         = 100
	maxRadius         = 500
)

// Handler contains all HTTP handlers
type Handler struct {
	mapSvc *service.MapService
}

// NewHandler creates a new handler
func NewHandler(mapSvc *service.MapService) *Handler {
	return &Handler{mapSvc: mapSvc}
}

// paramsRequest carries the map controls; Year is a calendar year or "live"
type paramsRequest struct {
	Mode     string    `json:"mode"`
	Category string    `json:"category"`
	Year     yearValue `json:"year"`
	Scale    *float64  `json:"scale"`
	Radius   *float64  `json:"radius"`
}

// yearValue accepts the year as a JSON number or string
type yearValue string

func (y *yearValue) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*y = yearValue(s)
	return nil
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	if err := h.mapSvc.Health(c.Context()); err != nil {
		status = "degraded"
	}
	return c.JSON(fiber.Map{
		"status":  status,
		"service": "foodmap-backend",
		"version": "1.0.0",
	})
}

// GetSchema returns the categories and the year range of the dataset
func (h *Handler) GetSchema(c *fiber.Ctx) error {
	ds := h.mapSvc.Data().Regions
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"variant":      ds.Schema().Name(),
			"categories":   ds.Schema().Categories(),
			"earliestYear": ds.EarliestYear(),
			"latestYear":   ds.LatestYear(),
			"seriesLength": ds.SeriesLength(),
			"defaults":     h.mapSvc.Defaults(),
		},
	})
}

// ListRegions returns every region
func (h *Handler) ListRegions(c *fiber.Ctx) error {
	regions := h.mapSvc.Data().Regions.Regions()
	return c.JSON(fiber.Map{
		"success": true,
		"data":    regions,
		"count":   len(regions),
	})
}

// GetRegion returns one region for the detail panel
func (h *Handler) GetRegion(c *fiber.Ctx) error {
	region, err := h.mapSvc.Region(c.Params("id"))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    region,
	})
}

// GetLayers renders layers for the parameters in the query string
func (h *Handler) GetLayers(c *fiber.Ctx) error {
	req := paramsRequest{
		Mode:     c.Query("mode"),
		Category: c.Query("category"),
		Year:     yearValue(c.Query("year")),
	}
	var err error
	if req.Scale, err = queryFloat(c, "scale"); err != nil {
		return err
	}
	if req.Radius, err = queryFloat(c, "radius"); err != nil {
		return err
	}

	params, err := h.toParams(req, h.mapSvc.Defaults())
	if err != nil {
		return err
	}
	layers, err := h.mapSvc.Render(params)
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"params":  params,
		"data":    renderLayers(layers),
	})
}

// GetMinimap renders the overview heatmap and scatterplot for the year in the query string
func (h *Handler) GetMinimap(c *fiber.Ctx) error {
	params, err := h.toParams(paramsRequest{Year: yearValue(c.Query("year"))}, h.mapSvc.Defaults())
	if err != nil {
		return err
	}
	layers, err := h.mapSvc.Minimap(params.Time)
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"time":    params.Time,
		"data":    renderLayers(layers),
	})
}

// CreateSession opens a map session
func (h *Handler) CreateSession(c *fiber.Ctx) error {
	sess := h.mapSvc.CreateSession()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    sess,
	})
}

// GetSession returns parameters, selection and tooltip of a session
func (h *Handler) GetSession(c *fiber.Ctx) error {
	sess, err := h.mapSvc.Session(c.Params("id"))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    sess,
	})
}

// DeleteSession closes a session
func (h *Handler) DeleteSession(c *fiber.Ctx) error {
	if err := h.mapSvc.CloseSession(c.Params("id")); err != nil {
		return toFiberError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateSessionParams applies new map controls to a session
func (h *Handler) UpdateSessionParams(c *fiber.Ctx) error {
	sess, err := h.mapSvc.Session(c.Params("id"))
	if err != nil {
		return toFiberError(err)
	}

	var req paramsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	params, err := h.toParams(req, sess.Params)
	if err != nil {
		return err
	}

	sess, err = h.mapSvc.UpdateParams(sess.ID, params)
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    sess,
	})
}

// GetSessionLayers renders layers for a session's current parameters
func (h *Handler) GetSessionLayers(c *fiber.Ctx) error {
	layers, err := h.mapSvc.SessionLayers(c.Params("id"))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    renderLayers(layers),
	})
}

// GetSessionMinimap renders the overview layers for a session's time index
func (h *Handler) GetSessionMinimap(c *fiber.Ctx) error {
	layers, err := h.mapSvc.SessionMinimap(c.Params("id"))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    renderLayers(layers),
	})
}

// Pick routes a click on a layer feature
func (h *Handler) Pick(c *fiber.Ctx) error {
	return h.pointer(c, h.mapSvc.Pick)
}

// Hover routes a pointer move over a layer feature
func (h *Handler) Hover(c *fiber.Ctx) error {
	return h.pointer(c, h.mapSvc.Hover)
}

func (h *Handler) pointer(c *fiber.Ctx, route func(string, service.PointerEvent) error) error {
	var ev service.PointerEvent
	if err := c.BodyParser(&ev); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	id := c.Params("id")
	if err := route(id, ev); err != nil {
		return toFiberError(err)
	}
	return h.GetSession(c)
}

// ClearSelection closes the detail panel of a session
func (h *Handler) ClearSelection(c *fiber.Ctx) error {
	sess, err := h.mapSvc.ClearSelection(c.Params("id"))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    sess,
	})
}

// toParams overlays a request on base; scale and radius are clamped to the slider range
func (h *Handler) toParams(req paramsRequest, base domain.LayerParams) (domain.LayerParams, error) {
	p := base
	if req.Mode != "" {
		p.Mode = domain.DisplayMode(req.Mode)
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	year := string(req.Year)
	switch {
	case year == "":
	case strings.EqualFold(year, "live"):
		p.Time = domain.Live
	default:
		y, err := strconv.Atoi(year)
		if err != nil {
			return p, fiber.NewError(fiber.StatusBadRequest, "Invalid year")
		}
		p.Time = h.mapSvc.Data().Regions.TimeIndexForYear(y)
	}
	if req.Scale != nil {
		p.ElevationScale = utils.Clamp(*req.Scale, minElevationScale, maxElevationScale)
	}
	if req.Radius != nil {
		p.Radius = utils.Clamp(*req.Radius, minRadius, maxRadius)
	}
	return p, nil
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+key)
	}
	return &v, nil
}

func toFiberError(err error) error {
	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrIndexOutOfRange), errors.Is(err, domain.ErrUnknownCategory):
		code = fiber.StatusBadRequest
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, domain.ErrRegionNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, service.ErrStaleLayer):
		code = fiber.StatusConflict
	case errors.Is(err, service.ErrNotPickable):
		code = fiber.StatusUnprocessableEntity
	}
	return fiber.NewError(code, err.Error())
}
