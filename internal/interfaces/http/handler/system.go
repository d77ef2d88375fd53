package handler

import (
	"github.com/gin-gonic/gin"
)

// SystemHandler handles liveness and metadata endpoints
type SystemHandler struct {
	BaseHandler
	appName string
	appEnv  string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(appName, appEnv string) *SystemHandler {
	return &SystemHandler{
		appName: appName,
		appEnv:  appEnv,
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// HealthData represents the health endpoint payload
type HealthData struct {
	Status string `json:"status"`
	Name   string `json:"name"`
	Env    string `json:"env"`
}

// Health reports process liveness
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, HealthData{
		Status: "ok",
		Name:   h.appName,
		Env:    h.appEnv,
	})
}
