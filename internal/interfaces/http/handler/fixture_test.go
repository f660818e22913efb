package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	availabilityapp "github.com/mfgerp/backend/internal/application/availability"
	bomapp "github.com/mfgerp/backend/internal/application/bom"
	identityapp "github.com/mfgerp/backend/internal/application/identity"
	mfgapp "github.com/mfgerp/backend/internal/application/manufacturing"
	productapp "github.com/mfgerp/backend/internal/application/product"
	"github.com/mfgerp/backend/internal/application/production"
	reportapp "github.com/mfgerp/backend/internal/application/report"
	stockapp "github.com/mfgerp/backend/internal/application/stock"
	"github.com/mfgerp/backend/internal/infrastructure/auth"
	"github.com/mfgerp/backend/internal/infrastructure/config"
	"github.com/mfgerp/backend/internal/infrastructure/persistence"
	"github.com/mfgerp/backend/internal/interfaces/http/middleware"
	"github.com/mfgerp/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// apiFixture serves every handler over real services backed by sqlite
type apiFixture struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	jwt    *auth.JWTService
	client *testutil.APIClient
}

func newAPIFixture(t *testing.T, mode production.CompletionMode) *apiFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := zaptest.NewLogger(t)

	products := persistence.NewGormProductRepository(db)
	ledger := persistence.NewGormLedgerRepository(db)
	boms := persistence.NewGormBOMRepository(db)
	orders := persistence.NewGormManufacturingOrderRepository(db)
	workOrders := persistence.NewGormWorkOrderRepository(db)
	workCenters := persistence.NewGormWorkCenterRepository(db)
	notes := persistence.NewGormWorkOrderNoteRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-at-least-32-bytes",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "mfg-test",
		MaxRefreshCount:        5,
	})

	stockService := stockapp.NewService(products, ledger, txScope, log)
	availabilityService := availabilityapp.NewService(persistence.NewGormAvailabilityRepository(db), boms, orders, log)
	completion := production.NewCompletionService(workOrders, orders, boms, products, ledger, txScope, mode, log)

	authH := NewAuthHandler(identityapp.NewAuthService(persistence.NewGormUserRepository(db), jwtService, log))
	productH := NewProductHandler(productapp.NewService(products, log))
	bomH := NewBOMHandler(bomapp.NewService(boms, products, log), availabilityService)
	orderH := NewManufacturingOrderHandler(
		mfgapp.NewOrderService(orders, products, boms, persistence.NewGormNumberSequence(db), log),
		availabilityService,
	)
	workOrderH := NewWorkOrderHandler(mfgapp.NewWorkOrderService(workOrders, orders, workCenters, notes, completion, log))
	workCenterH := NewWorkCenterHandler(mfgapp.NewWorkCenterService(workCenters))
	stockH := NewStockHandler(stockService)
	availabilityH := NewAvailabilityHandler(availabilityService)
	dashboardH := NewDashboardHandler(reportapp.NewReportService(orders, workOrders, products, ledger, stockService))

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")

	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/refresh", authH.Refresh)

	p := api.Group("", middleware.JWTAuth(jwtService))
	p.GET("/auth/me", authH.Me)

	p.GET("/products/low-stock", productH.LowStock)
	p.POST("/products", productH.Create)
	p.GET("/products", productH.List)
	p.GET("/products/:id", productH.GetByID)
	p.PUT("/products/:id", productH.Update)
	p.DELETE("/products/:id", productH.Delete)

	p.POST("/boms", bomH.Create)
	p.GET("/boms", bomH.List)
	p.GET("/boms/:id", bomH.GetByID)
	p.GET("/boms/:id/resolve", bomH.Resolve)
	p.GET("/boms/:id/availability", bomH.Availability)
	p.POST("/boms/:id/deactivate", bomH.Deactivate)

	p.POST("/manufacturing-orders", orderH.Create)
	p.GET("/manufacturing-orders/:id", orderH.GetByID)
	p.POST("/manufacturing-orders/:id/confirm", orderH.Confirm)
	p.POST("/manufacturing-orders/:id/start", orderH.Start)
	p.POST("/manufacturing-orders/:id/close", orderH.Close)
	p.POST("/manufacturing-orders/:id/reserve", orderH.Reserve)
	p.POST("/manufacturing-orders/:id/release", orderH.Release)

	p.POST("/work-centers", workCenterH.Create)
	p.GET("/work-centers", workCenterH.List)

	p.POST("/work-orders", workOrderH.Create)
	p.GET("/work-orders/:id", workOrderH.GetByID)
	p.POST("/work-orders/:id/start", workOrderH.Start)
	p.POST("/work-orders/:id/pause", workOrderH.Pause)
	p.POST("/work-orders/:id/cancel", workOrderH.Cancel)
	p.POST("/work-orders/:id/complete", workOrderH.Complete)
	p.POST("/work-orders/:id/comments", workOrderH.AddComment)
	p.GET("/work-orders/:id/comments", workOrderH.ListComments)
	p.POST("/work-orders/:id/issues", workOrderH.AddIssue)
	p.POST("/work-orders/:id/issues/:issueId/resolve", workOrderH.ResolveIssue)

	p.POST("/stock/movements", stockH.RecordMovement)
	p.GET("/stock/products/:id", stockH.GetProductStock)
	p.GET("/stock/ledger", stockH.ListLedger)
	p.PUT("/stock/ledger/:id", stockH.UpdateLedgerEntry)
	p.GET("/stock/consistency", stockH.CheckAllConsistency)
	p.GET("/stock/consistency/:productId", stockH.CheckConsistency)
	p.POST("/stock/ledger/export", stockH.ExportLedger)

	p.GET("/availability", availabilityH.List)
	p.GET("/availability/:productId", availabilityH.Get)
	p.POST("/availability/movements", availabilityH.RecordMovement)

	p.GET("/dashboard", dashboardH.Dashboard)
	p.GET("/dashboard/low-stock", dashboardH.LowStock)

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{UserID: 1, Username: "tester", Role: "ADMIN"})
	require.NoError(t, err)

	return &apiFixture{
		t:      t,
		db:     db,
		engine: r,
		jwt:    jwtService,
		client: testutil.NewAPIClient(t, r, "/api/v1").WithToken(pair.AccessToken),
	}
}

type apiResult = testutil.Envelope

func (f *apiFixture) do(method, path string, body any) apiResult {
	f.t.Helper()
	return f.client.Do(method, path, body)
}

func (f *apiFixture) doWithToken(method, path string, body any, token string) apiResult {
	f.t.Helper()
	return f.client.WithToken(token).Do(method, path, body)
}

// mustOK asserts a 2xx response and decodes its data into out
func (f *apiFixture) mustOK(res apiResult, out any) {
	f.t.Helper()
	require.True(f.t, res.OK(), "status %d error %+v", res.Status, res.Error)
	if out != nil {
		res.Decode(f.t, out)
	}
}

func (f *apiFixture) createProduct(name, typ string, cost int64) productapp.ProductResponse {
	f.t.Helper()
	var p productapp.ProductResponse
	f.mustOK(f.do(http.MethodPost, "/products", map[string]any{
		"name": name, "type": typ, "unit_of_measure": "pcs", "unit_cost": cost,
	}), &p)
	return p
}

func (f *apiFixture) move(productID uint, txType string, qty int64) {
	f.t.Helper()
	f.mustOK(f.do(http.MethodPost, "/stock/movements", map[string]any{
		"product_id": productID, "transaction_type": txType, "quantity": qty,
	}), nil)
}

func (f *apiFixture) stockOf(productID uint) stockapp.ProductStockResponse {
	f.t.Helper()
	var s stockapp.ProductStockResponse
	f.mustOK(f.do(http.MethodGet, fmt.Sprintf("/stock/products/%d", productID), nil), &s)
	return s
}

// productionSetup creates A (raw, 10 in stock) -> B (finished) with 2 A per B,
// an in-progress order for qty units of B and a PLANNED work order under it
type productionSetup struct {
	A, B        productapp.ProductResponse
	BOM         bomapp.BOMResponse
	Order       mfgapp.OrderResponse
	WorkOrderID uint
}

func (f *apiFixture) productionSetup(qty int64, withBOM bool) productionSetup {
	f.t.Helper()
	var s productionSetup
	s.A = f.createProduct("Steel plate", "RAW_MATERIAL", 10)
	s.B = f.createProduct("Bracket", "FINISHED_GOOD", 50)
	f.move(s.A.ID, "IN", 10)

	order := map[string]any{"product_id": s.B.ID, "quantity": qty}
	if withBOM {
		f.mustOK(f.do(http.MethodPost, "/boms", map[string]any{
			"product_id": s.B.ID,
			"version":    "1.0",
			"components": []map[string]any{{"product_id": s.A.ID, "quantity": "2", "unit_cost": "10"}},
		}), &s.BOM)
		order["bom_id"] = s.BOM.ID
	}
	f.mustOK(f.do(http.MethodPost, "/manufacturing-orders", order), &s.Order)
	f.mustOK(f.do(http.MethodPost, fmt.Sprintf("/manufacturing-orders/%d/confirm", s.Order.ID), nil), nil)
	f.mustOK(f.do(http.MethodPost, fmt.Sprintf("/manufacturing-orders/%d/start", s.Order.ID), nil), nil)

	var wc mfgapp.WorkCenterResponse
	f.mustOK(f.do(http.MethodPost, "/work-centers", map[string]any{"name": "Press line", "capacity": "1", "cost_per_hour": "40"}), &wc)

	var wo mfgapp.WorkOrderResponse
	f.mustOK(f.do(http.MethodPost, "/work-orders", map[string]any{
		"manufacturing_order_id": s.Order.ID, "work_center_id": wc.ID, "operation": "press", "expected_duration": 30,
	}), &wo)
	s.WorkOrderID = wo.ID
	return s
}
