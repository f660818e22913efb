// Package report provides read-only rollups over production and stock.
package report

import (
	"context"
	"sort"
	"time"

	stockapp "github.com/mfgerp/backend/internal/application/stock"
	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// DashboardResponse is the manufacturing dashboard
type DashboardResponse struct {
	OrdersByStatus     map[string]int64 `json:"orders_by_status"`
	WorkOrdersByStatus map[string]int64 `json:"work_orders_by_status"`
	TotalProducts      int64            `json:"total_products"`
	LowStockCount      int              `json:"low_stock_count"`
	TotalStockValue    decimal.Decimal  `json:"total_stock_value"`
	CompletionsToday   int64            `json:"completions_today"`
	MovementsInToday   int64            `json:"movements_in_today"`
	MovementsOutToday  int64            `json:"movements_out_today"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

// LowStockAlert is a product at or below its minimum stock
type LowStockAlert struct {
	ProductID     uint   `json:"product_id"`
	ProductName   string `json:"product_name"`
	UnitOfMeasure string `json:"unit_of_measure"`
	CurrentStock  int64  `json:"current_stock"`
	MinimumStock  int64  `json:"minimum_stock"`
	Shortfall     int64  `json:"shortfall"`
}

// ConsistencySummary counts products whose cached stock drifted from the ledger
type ConsistencySummary struct {
	ProductsChecked  int       `json:"products_checked"`
	DriftingProducts int       `json:"drifting_products"`
	CheckedAt        time.Time `json:"checked_at"`
}

// ReportService provides application-level report operations
type ReportService struct {
	orderRepo     manufacturing.ManufacturingOrderRepository
	workOrderRepo manufacturing.WorkOrderRepository
	productRepo   product.ProductRepository
	ledgerRepo    stock.LedgerRepository
	stockService  *stockapp.Service
	now           func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	orderRepo manufacturing.ManufacturingOrderRepository,
	workOrderRepo manufacturing.WorkOrderRepository,
	productRepo product.ProductRepository,
	ledgerRepo stock.LedgerRepository,
	stockService *stockapp.Service,
) *ReportService {
	return &ReportService{
		orderRepo:     orderRepo,
		workOrderRepo: workOrderRepo,
		productRepo:   productRepo,
		ledgerRepo:    ledgerRepo,
		stockService:  stockService,
		now:           time.Now,
	}
}

// Dashboard builds the dashboard rollup
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	orders, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	workOrders, err := s.workOrderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	low, err := s.productRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	value, err := s.productRepo.SumStockValue(ctx)
	if err != nil {
		return nil, err
	}
	completions, err := s.workOrderRepo.CountCompletedSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}
	in, err := s.ledgerRepo.CountSince(ctx, stock.TransactionTypeIn, startOfDay)
	if err != nil {
		return nil, err
	}
	out, err := s.ledgerRepo.CountSince(ctx, stock.TransactionTypeOut, startOfDay)
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		OrdersByStatus:     make(map[string]int64, len(orders)),
		WorkOrdersByStatus: make(map[string]int64, len(workOrders)),
		TotalProducts:      total,
		LowStockCount:      len(low),
		TotalStockValue:    value,
		CompletionsToday:   completions,
		MovementsInToday:   in,
		MovementsOutToday:  out,
		GeneratedAt:        now,
	}
	for _, st := range manufacturing.AllOrderStatuses() {
		resp.OrdersByStatus[string(st)] = orders[st]
	}
	for _, st := range manufacturing.AllWorkOrderStatuses() {
		resp.WorkOrdersByStatus[string(st)] = workOrders[st]
	}
	return resp, nil
}

// LowStockAlerts lists products at or below their minimum stock, largest shortfall first
func (s *ReportService) LowStockAlerts(ctx context.Context) ([]LowStockAlert, error) {
	products, err := s.productRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]LowStockAlert, len(products))
	for i, p := range products {
		alerts[i] = LowStockAlert{
			ProductID:     p.ID,
			ProductName:   p.Name,
			UnitOfMeasure: p.UnitOfMeasure,
			CurrentStock:  p.CurrentStock,
			MinimumStock:  p.MinimumStock,
			Shortfall:     p.MinimumStock - p.CurrentStock,
		}
	}
	sortAlerts(alerts)
	return alerts, nil
}

// ConsistencySummary counts drifting products
func (s *ReportService) ConsistencySummary(ctx context.Context) (*ConsistencySummary, error) {
	summary, err := s.stockService.CheckAllConsistency(ctx)
	if err != nil {
		return nil, err
	}
	return &ConsistencySummary{
		ProductsChecked:  summary.Checked,
		DriftingProducts: summary.Inconsistent,
		CheckedAt:        s.now(),
	}, nil
}

func sortAlerts(alerts []LowStockAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Shortfall > alerts[j].Shortfall
	})
}
