package handler

import (
	"github.com/gin-gonic/gin"
	availabilityapp "github.com/mfgerp/backend/internal/application/availability"
)

// AvailabilityHandler handles component availability endpoints
type AvailabilityHandler struct {
	BaseHandler
	availabilityService *availabilityapp.Service
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(availabilityService *availabilityapp.Service) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// List godoc
// @ID           listComponentAvailability
// @Summary      List availability rows
// @Tags         availability
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]availabilityapp.AvailabilityResponse]
// @Router       /availability [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	var filter availabilityapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	rows, total, err := h.availabilityService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, rows, total, page, size)
}

// Get godoc
// @ID           getComponentAvailability
// @Summary      Availability of one product
// @Tags         availability
// @Produce      json
// @Security     BearerAuth
// @Param        productId path int true "Product ID"
// @Success      200 {object} APIResponse[availabilityapp.AvailabilityResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /availability/{productId} [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "productId")
	if !ok {
		return
	}
	row, err := h.availabilityService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// RecordMovement godoc
// @ID           recordAvailabilityMovement
// @Summary      Apply a movement to availability
// @Description  IN adds to available. OUT takes from available, floored at zero.
// @Tags         availability
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body availabilityapp.MovementRequest true "Movement"
// @Success      200 {object} APIResponse[availabilityapp.AvailabilityResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /availability/movements [post]
func (h *AvailabilityHandler) RecordMovement(c *gin.Context) {
	var req availabilityapp.MovementRequest
	if !h.BindJSON(c, &req) {
		return
	}
	row, err := h.availabilityService.UpdateAvailability(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}
