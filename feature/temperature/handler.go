package temperature

import (
	"strconv"

	"temperature-consumer/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for temperature readings.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the temperature routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/temperatures")
	group.Get("/", h.HandleSnapshot)
	group.Get("/sensor", h.HandleSensor)
	group.Get("/stats", h.HandleStats)
}

// HandleSnapshot returns the latest reading of every sensor keyed by sensor id.
func (h *Handler) HandleSnapshot(c *fiber.Ctx) error {
	snapshot := h.service.Snapshot()
	logger.WithRayID(h.service.logger, c).Debug("Serving snapshot", zap.Int("sensors", len(snapshot)))
	return c.JSON(snapshot)
}

// HandleSensor returns the latest reading of the sensor identified by the
// longitude, latitude and elevation query parameters.
func (h *Handler) HandleSensor(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	longitude, latitude := c.Query("longitude"), c.Query("latitude")
	if longitude == "" || latitude == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "longitude and latitude are required"})
	}
	elevation, err := strconv.Atoi(c.Query("elevation"))
	if err != nil {
		l.Warn("Invalid elevation", zap.String("elevation", c.Query("elevation")))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "elevation must be an integer"})
	}

	reading, ok := h.service.Reading(longitude, latitude, elevation)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "sensor not found"})
	}
	return c.JSON(reading)
}

// HandleStats returns store statistics.
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	return c.JSON(h.service.Stats())
}
