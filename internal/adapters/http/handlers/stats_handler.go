package handlers

import (
	"errors"

	"moneymate-api/internal/core/domain"
	"moneymate-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler handles statistics endpoints
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStats returns the aggregated statistics report for a user
// @Summary User statistics
// @Description Get the aggregated loan statistics report for a user. The timeframe selects cache freshness (7d=2m, 30d=5m, 90d=15m), not report content.
// @Tags Stats
// @Accept json
// @Produce json
// @Param userId query string true "User identifier"
// @Param timeframe query string false "Timeframe bucket (7d, 30d, 90d)" default(30d)
// @Param refresh query bool false "Force recomputation, bypassing the cache"
// @Success 200 {object} services.StatsReport
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	userID := c.Query("userId")
	timeframe := services.ParseTimeframe(c.Query("timeframe"))
	refresh := c.QueryBool("refresh")

	report, err := h.statsService.GetStats(c.Context(), userID, timeframe, refresh)
	if err != nil {
		if errors.Is(err, domain.ErrMissingUserID) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": domain.ErrMissingUserID.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to compute statistics",
		})
	}

	return c.JSON(report)
}

// GetCacheInfo returns cache counters for operational inspection
// @Summary Cache introspection
// @Description Get size, utilization, and hit/miss counters for each cache instance, with sampled keys. Read-only: never mutates cache state.
// @Tags Stats
// @Accept json
// @Produce json
// @Param userId query string false "Filter sampled keys to one user"
// @Success 200 {object} services.CacheInfo
// @Router /stats/cache [get]
func (h *StatsHandler) GetCacheInfo(c *fiber.Ctx) error {
	return c.JSON(h.statsService.GetCacheInfo(c.Query("userId")))
}
