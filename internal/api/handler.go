package api

import (
	"time"

	"github.com/bobby-s-dev/weather-widget/internal/models"
	"github.com/bobby-s-dev/weather-widget/internal/scheduler"
	"github.com/bobby-s-dev/weather-widget/internal/services"
	"github.com/bobby-s-dev/weather-widget/internal/view"
	"github.com/bobby-s-dev/weather-widget/internal/widget"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const widgetCookie = "widget_id"

var startTime = time.Now()

type Handler struct {
	registry    *services.WidgetRegistry
	scheduler   *scheduler.Scheduler
	renderer    view.Renderer
	iconBaseURL string
	logger      *zap.Logger
}

func NewHandler(registry *services.WidgetRegistry, sched *scheduler.Scheduler, renderer view.Renderer, iconBaseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		registry:    registry,
		scheduler:   sched,
		renderer:    renderer,
		iconBaseURL: iconBaseURL,
		logger:      logger,
	}
}

type cityRequest struct {
	City *string `json:"city"`
}

type widgetResponse struct {
	ID    string             `json:"id"`
	Query string             `json:"query"`
	State models.LookupState `json:"state"`
	View  view.View          `json:"view"`
}

// GetPage handles GET /
func (h *Handler) GetPage(c *fiber.Ctx) error {
	return h.renderPage(c, h.widgetFor(c))
}

// PostLookup handles POST /lookup
func (h *Handler) PostLookup(c *fiber.Ctx) error {
	w := h.widgetFor(c)
	w.Lookup(c.UserContext(), c.FormValue("city"))
	return h.renderPage(c, w)
}

// GetWidget handles GET /api/v1/widget
func (h *Handler) GetWidget(c *fiber.Ctx) error {
	return c.JSON(h.widgetJSON(h.widgetFor(c)))
}

// PutQuery handles PUT /api/v1/widget/query
func (h *Handler) PutQuery(c *fiber.Ctx) error {
	var req cityRequest
	if err := c.BodyParser(&req); err != nil || req.City == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Body must be JSON with a city field",
		})
	}

	w := h.widgetFor(c)
	w.Input.Set(*req.City)
	return c.JSON(h.widgetJSON(w))
}

// PostWidgetLookup handles POST /api/v1/widget/lookup
func (h *Handler) PostWidgetLookup(c *fiber.Ctx) error {
	var req cityRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid JSON body",
			})
		}
	}

	w := h.widgetFor(c)
	if req.City != nil {
		w.Input.Set(*req.City)
	}

	h.logger.Debug("Triggering lookup", zap.String("widget_id", w.ID))
	w.Controller.TriggerLookup(c.UserContext())

	return c.JSON(h.widgetJSON(w))
}

// DeleteWidget handles DELETE /api/v1/widget
func (h *Handler) DeleteWidget(c *fiber.Ctx) error {
	id := c.Cookies(widgetCookie)
	if id == "" || !h.registry.Unmount(id) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No widget mounted",
		})
	}

	c.ClearCookie(widgetCookie)
	return c.SendStatus(fiber.StatusNoContent)
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
		"widgets":   h.registry.GetStats(),
	}
	if h.scheduler != nil {
		status["scheduler"] = h.scheduler.GetStatus()
	}
	return c.JSON(status)
}

// widgetFor returns the caller's widget, mounting one and setting the cookie
// when the caller has none.
func (h *Handler) widgetFor(c *fiber.Ctx) *widget.Widget {
	id := c.Cookies(widgetCookie)
	w := h.registry.GetOrMount(id)
	if w.ID != id {
		c.Cookie(&fiber.Cookie{
			Name:     widgetCookie,
			Value:    w.ID,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return w
}

func (h *Handler) widgetJSON(w *widget.Widget) widgetResponse {
	query, state := w.Snapshot()
	return widgetResponse{
		ID:    w.ID,
		Query: query,
		State: state,
		View:  view.Project(query, state, h.iconBaseURL),
	}
}

func (h *Handler) renderPage(c *fiber.Ctx, w *widget.Widget) error {
	query, state := w.Snapshot()
	c.Type("html", "utf-8")
	if err := h.renderer.Render(c, view.Project(query, state, h.iconBaseURL)); err != nil {
		h.logger.Error("Failed to render widget",
			zap.String("widget_id", w.ID),
			zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render widget")
	}
	return nil
}
