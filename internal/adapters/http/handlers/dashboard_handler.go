package handlers

import (
	"github.com/joel-wlf/bbg-lager/internal/core/services"
	"github.com/joel-wlf/bbg-lager/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns aggregate counts
// @Summary Dashboard stats
// @Description Get aggregate catalog and lifecycle counts
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard stats")
	}

	return response.Success(c, "Dashboard stats retrieved successfully", fiber.Map{
		"stats": stats,
	})
}
