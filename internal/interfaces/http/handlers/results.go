package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/repositories"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

type ResultsHandler struct {
	results repositories.CleanupResultRepository
	logger  *zap.Logger
}

func NewResultsHandler(results repositories.CleanupResultRepository, logger *zap.Logger) *ResultsHandler {
	return &ResultsHandler{
		results: results,
		logger:  logger,
	}
}

// List returns past cleanup runs, newest first.
func (h *ResultsHandler) List(c *fiber.Ctx) error {
	if h.results == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Run history is not enabled")
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultResultsLimit)))
	if err != nil || limit < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid limit parameter")
	}
	if limit > maxResultsLimit {
		limit = maxResultsLimit
	}

	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid offset parameter")
	}

	results, err := h.results.GetResults(c.UserContext(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to query cleanup results", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to query cleanup results")
	}

	return c.JSON(fiber.Map{
		"results": results,
		"limit":   limit,
		"offset":  offset,
		"count":   len(results),
	})
}

// Latest returns the most recent cleanup run.
func (h *ResultsHandler) Latest(c *fiber.Ctx) error {
	if h.results == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Run history is not enabled")
	}

	result, err := h.results.GetLatestResult(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to query latest cleanup result", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to query latest cleanup result")
	}
	if result == nil {
		return fiber.NewError(fiber.StatusNotFound, "No cleanup runs recorded yet")
	}

	return c.JSON(result)
}

// GetByID returns one cleanup run by its ID.
func (h *ResultsHandler) GetByID(c *fiber.Ctx) error {
	if h.results == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Run history is not enabled")
	}

	id := c.Params("id")
	result, err := h.results.GetResultByID(c.UserContext(), id)
	if err != nil {
		h.logger.Error("Failed to query cleanup result",
			zap.String("id", id),
			zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to query cleanup result")
	}
	if result == nil {
		return fiber.NewError(fiber.StatusNotFound, "Cleanup run not found")
	}

	return c.JSON(result)
}
