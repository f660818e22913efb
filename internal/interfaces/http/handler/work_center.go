package handler

import (
	"github.com/gin-gonic/gin"
	mfgapp "github.com/mfgerp/backend/internal/application/manufacturing"
)

// WorkCenterHandler handles work center endpoints
type WorkCenterHandler struct {
	BaseHandler
	workCenterService *mfgapp.WorkCenterService
}

// NewWorkCenterHandler creates a new WorkCenterHandler
func NewWorkCenterHandler(workCenterService *mfgapp.WorkCenterService) *WorkCenterHandler {
	return &WorkCenterHandler{workCenterService: workCenterService}
}

// Create godoc
// @ID           createWorkCenter
// @Summary      Create a work center
// @Tags         work-centers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body mfgapp.WorkCenterRequest true "Work center"
// @Success      201 {object} APIResponse[mfgapp.WorkCenterResponse]
// @Failure      409 {object} ErrorResponse
// @Router       /work-centers [post]
func (h *WorkCenterHandler) Create(c *gin.Context) {
	var req mfgapp.WorkCenterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	wc, err := h.workCenterService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, wc)
}

// GetByID godoc
// @ID           getWorkCenter
// @Summary      Get a work center
// @Tags         work-centers
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Work center ID"
// @Success      200 {object} APIResponse[mfgapp.WorkCenterResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /work-centers/{id} [get]
func (h *WorkCenterHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	wc, err := h.workCenterService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wc)
}

// List godoc
// @ID           listWorkCenters
// @Summary      List work centers
// @Tags         work-centers
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Name search"
// @Param        status query string false "Status"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]mfgapp.WorkCenterResponse]
// @Router       /work-centers [get]
func (h *WorkCenterHandler) List(c *gin.Context) {
	var filter mfgapp.WorkCenterListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	list, total, err := h.workCenterService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, list, total, page, size)
}

// Update godoc
// @ID           updateWorkCenter
// @Summary      Update a work center
// @Tags         work-centers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Work center ID"
// @Param        request body mfgapp.WorkCenterRequest true "Work center"
// @Success      200 {object} APIResponse[mfgapp.WorkCenterResponse]
// @Router       /work-centers/{id} [put]
func (h *WorkCenterHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req mfgapp.WorkCenterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	wc, err := h.workCenterService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wc)
}

// Delete godoc
// @ID           deleteWorkCenter
// @Summary      Delete a work center
// @Tags         work-centers
// @Security     BearerAuth
// @Param        id path int true "Work center ID"
// @Success      204
// @Router       /work-centers/{id} [delete]
func (h *WorkCenterHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := h.workCenterService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
