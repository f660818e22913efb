package handler

import (
	"github.com/gin-gonic/gin"
	productapp "github.com/mfgerp/backend/internal/application/product"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	BaseHandler
	productService *productapp.Service
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *productapp.Service) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body productapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[productapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req productapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	p, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// GetByID godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product ID"
// @Success      200 {object} APIResponse[productapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Name search"
// @Param        type query string false "Product type" Enums(RAW_MATERIAL, SEMI_FINISHED, FINISHED_GOOD)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]productapp.ProductResponse]
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter productapp.ProductListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, products, total, page, size)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Description  Updates descriptive fields. Stock is only changed through ledger movements.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product ID"
// @Param        request body productapp.UpdateProductRequest true "Product"
// @Success      200 {object} APIResponse[productapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req productapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	p, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id path int true "Product ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// LowStock godoc
// @ID           listLowStockProducts
// @Summary      Products at or below minimum stock
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[[]productapp.ProductResponse]
// @Router       /products/low-stock [get]
func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.productService.LowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}
