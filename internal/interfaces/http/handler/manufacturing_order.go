package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	availabilityapp "github.com/mfgerp/backend/internal/application/availability"
	mfgapp "github.com/mfgerp/backend/internal/application/manufacturing"
)

// ManufacturingOrderHandler handles manufacturing order endpoints
type ManufacturingOrderHandler struct {
	BaseHandler
	orderService        *mfgapp.OrderService
	availabilityService *availabilityapp.Service
}

// NewManufacturingOrderHandler creates a new ManufacturingOrderHandler
func NewManufacturingOrderHandler(orderService *mfgapp.OrderService, availabilityService *availabilityapp.Service) *ManufacturingOrderHandler {
	return &ManufacturingOrderHandler{orderService: orderService, availabilityService: availabilityService}
}

// Create godoc
// @ID           createManufacturingOrder
// @Summary      Create a manufacturing order
// @Description  Creates a DRAFT order numbered MO<YYYYMM><seq>
// @Tags         manufacturing-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body mfgapp.CreateOrderRequest true "Order"
// @Success      201 {object} APIResponse[mfgapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /manufacturing-orders [post]
func (h *ManufacturingOrderHandler) Create(c *gin.Context) {
	var req mfgapp.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	mo, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, mo)
}

// GetByID godoc
// @ID           getManufacturingOrder
// @Summary      Get a manufacturing order
// @Tags         manufacturing-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Success      200 {object} APIResponse[mfgapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /manufacturing-orders/{id} [get]
func (h *ManufacturingOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	mo, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mo)
}

// List godoc
// @ID           listManufacturingOrders
// @Summary      List manufacturing orders
// @Tags         manufacturing-orders
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Number search"
// @Param        status query string false "Status"
// @Param        product_id query int false "Product"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]mfgapp.OrderResponse]
// @Router       /manufacturing-orders [get]
func (h *ManufacturingOrderHandler) List(c *gin.Context) {
	var filter mfgapp.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, page, size)
}

// Update godoc
// @ID           updateManufacturingOrder
// @Summary      Update a manufacturing order
// @Tags         manufacturing-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Param        request body mfgapp.UpdateOrderRequest true "Order"
// @Success      200 {object} APIResponse[mfgapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /manufacturing-orders/{id} [put]
func (h *ManufacturingOrderHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req mfgapp.UpdateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	mo, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mo)
}

// Delete godoc
// @ID           deleteManufacturingOrder
// @Summary      Delete a manufacturing order
// @Tags         manufacturing-orders
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Router       /manufacturing-orders/{id} [delete]
func (h *ManufacturingOrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Confirm godoc
// @ID           confirmManufacturingOrder
// @Summary      Confirm a DRAFT order
// @Tags         manufacturing-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Success      200 {object} APIResponse[mfgapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /manufacturing-orders/{id}/confirm [post]
func (h *ManufacturingOrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.orderService.Confirm)
}

// Start godoc
// @ID           startManufacturingOrder
// @Summary      Start a CONFIRMED order
// @Tags         manufacturing-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Success      200 {object} APIResponse[mfgapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /manufacturing-orders/{id}/start [post]
func (h *ManufacturingOrderHandler) Start(c *gin.Context) {
	h.transition(c, h.orderService.Start)
}

// MarkToClose godoc
// @ID           markManufacturingOrderToClose
// @Summary      Mark an in-progress order ready to close
// @Tags         manufacturing-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Success      200 {object} APIResponse[mfgapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /manufacturing-orders/{id}/to-close [post]
func (h *ManufacturingOrderHandler) MarkToClose(c *gin.Context) {
	h.transition(c, h.orderService.MarkToClose)
}

// Close godoc
// @ID           closeManufacturingOrder
// @Summary      Close an order
// @Tags         manufacturing-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Success      200 {object} APIResponse[mfgapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /manufacturing-orders/{id}/close [post]
func (h *ManufacturingOrderHandler) Close(c *gin.Context) {
	h.transition(c, h.orderService.Close)
}

// Cancel godoc
// @ID           cancelManufacturingOrder
// @Summary      Cancel an order
// @Tags         manufacturing-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Success      200 {object} APIResponse[mfgapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /manufacturing-orders/{id}/cancel [post]
func (h *ManufacturingOrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.orderService.Cancel)
}

// Reserve godoc
// @ID           reserveManufacturingOrderComponents
// @Summary      Reserve components
// @Description  Reserves the resolved BOM components one by one. A shortfall fails the request but keeps earlier reservations.
// @Tags         manufacturing-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Success      200 {object} APIResponse[availabilityapp.ReservationResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /manufacturing-orders/{id}/reserve [post]
func (h *ManufacturingOrderHandler) Reserve(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.availabilityService.ReserveComponents(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// Release godoc
// @ID           releaseManufacturingOrderComponents
// @Summary      Release reserved components
// @Tags         manufacturing-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Success      200 {object} APIResponse[availabilityapp.ReservationResponse]
// @Router       /manufacturing-orders/{id}/release [post]
func (h *ManufacturingOrderHandler) Release(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.availabilityService.ReleaseReservation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

func (h *ManufacturingOrderHandler) transition(c *gin.Context, fn func(context.Context, uint) (*mfgapp.OrderResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	mo, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mo)
}
