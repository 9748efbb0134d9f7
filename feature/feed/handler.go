package feed

import (
	"errors"

	"feed-sync/core/logger"
	"feed-sync/feature/feed/knownset"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for feed sync runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/", h.HandleTrigger)
	group.Get("/summary", h.HandleSummary)
}

// HandleTrigger runs one sync and returns its summary. A concurrent trigger
// is rejected with 409 rather than queued; the caller retries once the
// current run finishes.
func (h *Handler) HandleTrigger(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	dryRun := c.QueryBool("dry_run")
	l.Info("Sync triggered over HTTP", zap.Bool("dry_run", dryRun))

	summary, err := h.service.TriggerSync(c.Context(), dryRun)
	if err != nil {
		if errors.Is(err, ErrBusy) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Sync run failed", zap.Error(err))
		if errors.Is(err, knownset.ErrCorrupt) || errors.Is(err, knownset.ErrUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(summary)
}

// HandleSummary returns the summary of the last completed run.
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	summary := h.service.LastSummary()
	if summary == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no run has completed yet"})
	}
	return c.JSON(summary)
}
