package status

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"skinledger/core/reconcile"
)

// Handler handles HTTP requests for run status.
type Handler struct {
	tracker *Tracker
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(tracker *Tracker, logger *zap.Logger) *Handler {
	return &Handler{tracker: tracker, logger: logger}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/healthz", h.HandleHealth)
	app.Get("/status", h.HandleStatus)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleStatus reports the progress of the current reconciliation run.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	ev, seen := h.tracker.Latest()
	if !seen {
		return c.JSON(fiber.Map{"state": "idle"})
	}

	state := "running"
	if ev.Stage == reconcile.StageDone {
		state = "finished"
	}
	return c.JSON(fiber.Map{
		"state":  state,
		"run_id": ev.RunID,
		"stage":  ev.Stage,
		"item":   ev.ItemName,
		"index":  ev.Index,
		"total":  ev.Total,
	})
}
