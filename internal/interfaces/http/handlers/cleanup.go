package handlers

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/usecases/cleanup"
	"github.com/skarzhevskyy/nexus-repository-cleanup/pkg/constants"
)

type CleanupHandler struct {
	cleanupUseCase cleanup.CleanupUseCase
	running        atomic.Bool
	logger         *zap.Logger
}

func NewCleanupHandler(cleanupUseCase cleanup.CleanupUseCase, logger *zap.Logger) *CleanupHandler {
	return &CleanupHandler{
		cleanupUseCase: cleanupUseCase,
		logger:         logger,
	}
}

// TriggerCleanup starts a cleanup run in the background. Only one
// API-triggered run may be in flight at a time.
func (h *CleanupHandler) TriggerCleanup(c *fiber.Ctx) error {
	h.logger.Info("Cleanup API endpoint called",
		zap.String("ip", c.IP()),
		zap.String("method", c.Method()))

	if !h.running.CompareAndSwap(false, true) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "conflict",
			"message": "A cleanup job is already running",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.CleanupTimeout)

	go func() {
		defer cancel()
		defer h.running.Store(false)

		if err := h.cleanupUseCase.Cleanup(ctx); err != nil {
			h.logger.Error("API-triggered cleanup failed", zap.Error(err))
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":  "accepted",
		"message": "Cleanup job has been triggered",
		"time":    time.Now().Format(time.RFC3339),
	})
}
