package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/mfgerp/backend/internal/application/report"
)

// DashboardHandler serves the manufacturing dashboard
type DashboardHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(reportService *reportapp.ReportService) *DashboardHandler {
	return &DashboardHandler{reportService: reportService}
}

// Dashboard godoc
// @ID           getDashboard
// @Summary      Manufacturing dashboard
// @Description  Order and work order counts by status, stock value and today's movements
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[reportapp.DashboardResponse]
// @Router       /dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	res, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// LowStock godoc
// @ID           getDashboardLowStock
// @Summary      Low stock alerts
// @Description  Products at or below minimum stock, largest shortfall first
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[[]reportapp.LowStockAlert]
// @Router       /dashboard/low-stock [get]
func (h *DashboardHandler) LowStock(c *gin.Context) {
	alerts, err := h.reportService.LowStockAlerts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// Consistency godoc
// @ID           getDashboardConsistency
// @Summary      Stock consistency summary
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[reportapp.ConsistencySummary]
// @Router       /dashboard/consistency [get]
func (h *DashboardHandler) Consistency(c *gin.Context) {
	res, err := h.reportService.ConsistencySummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}
