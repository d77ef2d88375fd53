package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/wms/backend/internal/application/order"
	"github.com/wms/backend/internal/domain/order"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.POST("", h.Create)
		orders.GET("/:id", h.Get)
		orders.PUT("/:id", h.Update)
		orders.DELETE("/:id", h.Delete)
	}
}

// List returns the full order collection
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Get returns a single order by id
func (h *OrderHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, bindingErrorMessage(err))
		return
	}

	found, err := h.orderService.Get(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, found)
}

// Create derives and stores a new order from the request payload. The
// payload must carry line_items; every other field is optional and unknown
// fields are preserved verbatim.
func (h *OrderHandler) Create(c *gin.Context) {
	var payload order.Order
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, bindingErrorMessage(err))
		return
	}

	created, err := h.orderService.Create(c.Request.Context(), payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// Update shallow-merges a partial payload onto an existing order
func (h *OrderHandler) Update(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, bindingErrorMessage(err))
		return
	}

	var patch order.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, bindingErrorMessage(err))
		return
	}

	updated, err := h.orderService.Update(c.Request.Context(), req.ID, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Delete removes an order and returns the removed record
func (h *OrderHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, bindingErrorMessage(err))
		return
	}

	deleted, err := h.orderService.Delete(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deleted)
}
