package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	availabilityapp "github.com/mfgerp/backend/internal/application/availability"
	bomapp "github.com/mfgerp/backend/internal/application/bom"
)

// BOMHandler handles bill of materials endpoints
type BOMHandler struct {
	BaseHandler
	bomService          *bomapp.Service
	availabilityService *availabilityapp.Service
}

// NewBOMHandler creates a new BOMHandler
func NewBOMHandler(bomService *bomapp.Service, availabilityService *availabilityapp.Service) *BOMHandler {
	return &BOMHandler{bomService: bomService, availabilityService: availabilityService}
}

// Create godoc
// @ID           createBOM
// @Summary      Create a BOM
// @Tags         boms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body bomapp.CreateBOMRequest true "BOM"
// @Success      201 {object} APIResponse[bomapp.BOMResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /boms [post]
func (h *BOMHandler) Create(c *gin.Context) {
	var req bomapp.CreateBOMRequest
	if !h.BindJSON(c, &req) {
		return
	}
	b, err := h.bomService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, b)
}

// GetByID godoc
// @ID           getBOM
// @Summary      Get a BOM
// @Tags         boms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "BOM ID"
// @Success      200 {object} APIResponse[bomapp.BOMResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /boms/{id} [get]
func (h *BOMHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	b, err := h.bomService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// List godoc
// @ID           listBOMs
// @Summary      List BOMs
// @Tags         boms
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query int false "Finished product"
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]bomapp.BOMResponse]
// @Router       /boms [get]
func (h *BOMHandler) List(c *gin.Context) {
	var filter bomapp.BOMListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	boms, total, err := h.bomService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, boms, total, page, size)
}

// Update godoc
// @ID           updateBOM
// @Summary      Update a BOM
// @Description  Replaces the header fields and the full component list
// @Tags         boms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "BOM ID"
// @Param        request body bomapp.UpdateBOMRequest true "BOM"
// @Success      200 {object} APIResponse[bomapp.BOMResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /boms/{id} [put]
func (h *BOMHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req bomapp.UpdateBOMRequest
	if !h.BindJSON(c, &req) {
		return
	}
	b, err := h.bomService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// Delete godoc
// @ID           deleteBOM
// @Summary      Delete a BOM
// @Tags         boms
// @Security     BearerAuth
// @Param        id path int true "BOM ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /boms/{id} [delete]
func (h *BOMHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := h.bomService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @ID           activateBOM
// @Summary      Activate a BOM
// @Tags         boms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "BOM ID"
// @Success      200 {object} APIResponse[bomapp.BOMResponse]
// @Router       /boms/{id}/activate [post]
func (h *BOMHandler) Activate(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	b, err := h.bomService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// Deactivate godoc
// @ID           deactivateBOM
// @Summary      Deactivate a BOM
// @Tags         boms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "BOM ID"
// @Success      200 {object} APIResponse[bomapp.BOMResponse]
// @Router       /boms/{id}/deactivate [post]
func (h *BOMHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	b, err := h.bomService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// Resolve godoc
// @ID           resolveBOM
// @Summary      Resolve component quantities
// @Description  Scales every component by the requested output quantity
// @Tags         boms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "BOM ID"
// @Param        quantity query int true "Units of finished product"
// @Success      200 {object} APIResponse[bomapp.ResolutionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /boms/{id}/resolve [get]
func (h *BOMHandler) Resolve(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	qty, ok := h.parseQuantity(c)
	if !ok {
		return
	}
	res, err := h.bomService.Resolve(c.Request.Context(), id, qty)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// Availability godoc
// @ID           checkBOMAvailability
// @Summary      Check component availability
// @Description  Reports, without reserving, whether the components for the quantity are available
// @Tags         boms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "BOM ID"
// @Param        quantity query int true "Units of finished product"
// @Success      200 {object} APIResponse[availabilityapp.CheckResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /boms/{id}/availability [get]
func (h *BOMHandler) Availability(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	qty, ok := h.parseQuantity(c)
	if !ok {
		return
	}
	res, err := h.availabilityService.CheckAvailability(c.Request.Context(), id, qty)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// parseQuantity reads ?quantity=N. Range checks are left to the resolver.
func (h *BOMHandler) parseQuantity(c *gin.Context) (int64, bool) {
	raw := c.Query("quantity")
	if raw == "" {
		h.BadRequest(c, "quantity is required")
		return 0, false
	}
	qty, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid quantity: "+raw)
		return 0, false
	}
	return qty, true
}
