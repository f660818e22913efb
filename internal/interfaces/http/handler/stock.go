package handler

import (
	"github.com/gin-gonic/gin"
	stockapp "github.com/mfgerp/backend/internal/application/stock"
)

// StockHandler handles the stock ledger and cached stock endpoints
type StockHandler struct {
	BaseHandler
	stockService *stockapp.Service
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.Service) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// GetProductStock godoc
// @ID           getProductStock
// @Summary      Stock of a product
// @Description  Returns the cached current stock, the stock replayed from the ledger and the ledger history with running totals
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product ID"
// @Success      200 {object} APIResponse[stockapp.ProductStockResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /stock/products/{id} [get]
func (h *StockHandler) GetProductStock(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.stockService.GetStockByProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// ListLedger godoc
// @ID           listStockLedger
// @Summary      List ledger entries
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query int false "Product"
// @Param        transaction_type query string false "Type" Enums(IN, OUT, ADJUSTMENT)
// @Param        reference query string false "Reference"
// @Param        start_date query string false "From (YYYY-MM-DD)"
// @Param        end_date query string false "To (YYYY-MM-DD)"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]stockapp.LedgerEntryResponse]
// @Router       /stock/ledger [get]
func (h *StockHandler) ListLedger(c *gin.Context) {
	var filter stockapp.LedgerListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	entries, total, err := h.stockService.ListLedger(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, entries, total, page, size)
}

// GetLedgerEntry godoc
// @ID           getStockLedgerEntry
// @Summary      Get a ledger entry
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Ledger entry ID"
// @Success      200 {object} APIResponse[stockapp.LedgerEntryResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /stock/ledger/{id} [get]
func (h *StockHandler) GetLedgerEntry(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	entry, err := h.stockService.GetLedgerEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// RecordMovement godoc
// @ID           recordStockMovement
// @Summary      Record a stock movement
// @Description  Applies the movement to the cached stock and appends a ledger entry
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body stockapp.RecordMovementRequest true "Movement"
// @Success      201 {object} APIResponse[stockapp.LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /stock/movements [post]
func (h *StockHandler) RecordMovement(c *gin.Context) {
	var req stockapp.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.stockService.RecordMovement(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// UpdateLedgerEntry godoc
// @ID           updateStockLedgerEntry
// @Summary      Correct a ledger entry
// @Description  Administrative correction. The cached stock is not recomputed, so drift shows in the consistency check.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Ledger entry ID"
// @Param        request body stockapp.UpdateLedgerEntryRequest true "Entry"
// @Success      200 {object} APIResponse[stockapp.LedgerEntryResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /stock/ledger/{id} [put]
func (h *StockHandler) UpdateLedgerEntry(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req stockapp.UpdateLedgerEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.stockService.UpdateLedgerEntry(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// DeleteLedgerEntry godoc
// @ID           deleteStockLedgerEntry
// @Summary      Delete a ledger entry
// @Tags         stock
// @Security     BearerAuth
// @Param        id path int true "Ledger entry ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /stock/ledger/{id} [delete]
func (h *StockHandler) DeleteLedgerEntry(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := h.stockService.DeleteLedgerEntry(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CheckAllConsistency godoc
// @ID           checkStockConsistency
// @Summary      Compare cached stock with ledger replay for every product
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[stockapp.ConsistencySummaryResponse]
// @Router       /stock/consistency [get]
func (h *StockHandler) CheckAllConsistency(c *gin.Context) {
	res, err := h.stockService.CheckAllConsistency(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// CheckConsistency godoc
// @ID           checkProductStockConsistency
// @Summary      Compare cached stock with ledger replay for one product
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        productId path int true "Product ID"
// @Success      200 {object} APIResponse[stockapp.ConsistencyResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /stock/consistency/{productId} [get]
func (h *StockHandler) CheckConsistency(c *gin.Context) {
	id, ok := h.parseID(c, "productId")
	if !ok {
		return
	}
	res, err := h.stockService.CheckConsistency(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// ExportLedger godoc
// @ID           exportStockLedger
// @Summary      Export the ledger
// @Description  Renders the filtered ledger as a spreadsheet and stores it, returning its location
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query int false "Product"
// @Param        transaction_type query string false "Type" Enums(IN, OUT, ADJUSTMENT)
// @Param        start_date query string false "From (YYYY-MM-DD)"
// @Param        end_date query string false "To (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[stockapp.ExportResponse]
// @Failure      503 {object} ErrorResponse
// @Router       /stock/ledger/export [post]
func (h *StockHandler) ExportLedger(c *gin.Context) {
	var filter stockapp.LedgerListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	res, err := h.stockService.ExportLedger(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}
