package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/wms/backend/internal/application/report"
)

// ReportHandler handles the operational warehouse views
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.Service) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/picking", h.Picking)
		reports.GET("/packing", h.Packing)
	}
}

// Picking returns the aggregate product tally across all orders
func (h *ReportHandler) Picking(c *gin.Context) {
	list, err := h.reportService.PickingList(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Packing returns every order with line items expanded into physical products
func (h *ReportHandler) Packing(c *gin.Context) {
	view, err := h.reportService.PackingView(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}
