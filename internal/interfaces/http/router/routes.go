package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mfgerp/backend/internal/interfaces/http/handler"
)

// APIHandlers bundles the handlers served under /api/v1
type APIHandlers struct {
	Auth               *handler.AuthHandler
	Product            *handler.ProductHandler
	BOM                *handler.BOMHandler
	ManufacturingOrder *handler.ManufacturingOrderHandler
	WorkOrder          *handler.WorkOrderHandler
	WorkCenter         *handler.WorkCenterHandler
	Stock              *handler.StockHandler
	Availability       *handler.AvailabilityHandler
	Dashboard          *handler.DashboardHandler
	System             *handler.SystemHandler
}

// APIMiddleware holds the per-group middleware. Nil entries are skipped.
type APIMiddleware struct {
	// Auth runs in order on every route except register, login and refresh
	Auth []gin.HandlerFunc
	// Admin guards ledger corrections and exports
	Admin gin.HandlerFunc
	// AuthRateLimit throttles the public auth endpoints
	AuthRateLimit gin.HandlerFunc
	// CompletionIdempotency deduplicates work order completion retries
	CompletionIdempotency gin.HandlerFunc
}

func chain(mw ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw))
	for _, m := range mw {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

func with(h gin.HandlerFunc, mw ...gin.HandlerFunc) []gin.HandlerFunc {
	return append(chain(mw...), h)
}

// APIGroups builds the domain route groups for the manufacturing API
func APIGroups(h APIHandlers, mw APIMiddleware) []RouteRegistrar {
	public := NewDomainGroup("auth", "/auth").Use(chain(mw.AuthRateLimit)...)
	public.POST("/register", h.Auth.Register)
	public.POST("/login", h.Auth.Login)
	public.POST("/refresh", h.Auth.Refresh)

	protected := NewDomainGroup("protected", "").Use(chain(mw.Auth...)...)

	protected.Group("identity", "/auth").
		GET("/me", h.Auth.Me)

	protected.Group("product", "/products").
		GET("/low-stock", h.Product.LowStock).
		POST("", h.Product.Create).
		GET("", h.Product.List).
		GET("/:id", h.Product.GetByID).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete)

	protected.Group("bom", "/boms").
		POST("", h.BOM.Create).
		GET("", h.BOM.List).
		GET("/:id", h.BOM.GetByID).
		PUT("/:id", h.BOM.Update).
		DELETE("/:id", h.BOM.Delete).
		POST("/:id/activate", h.BOM.Activate).
		POST("/:id/deactivate", h.BOM.Deactivate).
		GET("/:id/resolve", h.BOM.Resolve).
		GET("/:id/availability", h.BOM.Availability)

	protected.Group("manufacturing", "/manufacturing-orders").
		POST("", h.ManufacturingOrder.Create).
		GET("", h.ManufacturingOrder.List).
		GET("/:id", h.ManufacturingOrder.GetByID).
		PUT("/:id", h.ManufacturingOrder.Update).
		DELETE("/:id", h.ManufacturingOrder.Delete).
		POST("/:id/confirm", h.ManufacturingOrder.Confirm).
		POST("/:id/start", h.ManufacturingOrder.Start).
		POST("/:id/to-close", h.ManufacturingOrder.MarkToClose).
		POST("/:id/close", h.ManufacturingOrder.Close).
		POST("/:id/cancel", h.ManufacturingOrder.Cancel).
		POST("/:id/reserve", h.ManufacturingOrder.Reserve).
		POST("/:id/release", h.ManufacturingOrder.Release)

	protected.Group("work-order", "/work-orders").
		POST("", h.WorkOrder.Create).
		GET("", h.WorkOrder.List).
		GET("/:id", h.WorkOrder.GetByID).
		DELETE("/:id", h.WorkOrder.Delete).
		POST("/:id/start", h.WorkOrder.Start).
		POST("/:id/pause", h.WorkOrder.Pause).
		POST("/:id/cancel", h.WorkOrder.Cancel).
		POST("/:id/complete", with(h.WorkOrder.Complete, mw.CompletionIdempotency)...).
		POST("/:id/comments", h.WorkOrder.AddComment).
		GET("/:id/comments", h.WorkOrder.ListComments).
		POST("/:id/issues", h.WorkOrder.AddIssue).
		GET("/:id/issues", h.WorkOrder.ListIssues).
		POST("/:id/issues/:issueId/resolve", h.WorkOrder.ResolveIssue)

	protected.Group("work-center", "/work-centers").
		POST("", h.WorkCenter.Create).
		GET("", h.WorkCenter.List).
		GET("/:id", h.WorkCenter.GetByID).
		PUT("/:id", h.WorkCenter.Update).
		DELETE("/:id", h.WorkCenter.Delete)

	protected.Group("stock", "/stock").
		GET("/products/:id", h.Stock.GetProductStock).
		POST("/movements", h.Stock.RecordMovement).
		GET("/ledger", h.Stock.ListLedger).
		GET("/ledger/:id", h.Stock.GetLedgerEntry).
		PUT("/ledger/:id", with(h.Stock.UpdateLedgerEntry, mw.Admin)...).
		DELETE("/ledger/:id", with(h.Stock.DeleteLedgerEntry, mw.Admin)...).
		POST("/ledger/export", with(h.Stock.ExportLedger, mw.Admin)...).
		GET("/consistency", h.Stock.CheckAllConsistency).
		GET("/consistency/:productId", h.Stock.CheckConsistency)

	protected.Group("availability", "/availability").
		GET("", h.Availability.List).
		GET("/:productId", h.Availability.Get).
		POST("/movements", h.Availability.RecordMovement)

	protected.Group("dashboard", "/dashboard").
		GET("", h.Dashboard.Dashboard).
		GET("/low-stock", h.Dashboard.LowStock).
		GET("/consistency", h.Dashboard.Consistency)

	groups := []RouteRegistrar{public, protected}
	if h.System != nil {
		groups = append(groups, NewDomainGroup("system", "/system").GET("/info", h.System.GetSystemInfo))
	}
	return groups
}
