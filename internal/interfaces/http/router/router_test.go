package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUseAppliesToAllGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.Header("X-Router", "yes")
		c.Next()
	})

	a := NewDomainGroup("a", "/a").GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	b := NewDomainGroup("b", "/b").GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(a, b).Setup()

	for _, path := range []string{"/api/v1/a", "/api/v1/b"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "yes", w.Header().Get("X-Router"), path)
	}
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("bom", "/boms")
		assert.Equal(t, "bom", g.Name())
		assert.Equal(t, "/boms", g.Prefix())
	})

	t.Run("registers each method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").
			GET("/items", func(c *gin.Context) { c.String(http.StatusOK, "get") }).
			POST("/items", func(c *gin.Context) { c.String(http.StatusCreated, "post") }).
			PUT("/items/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) }).
			DELETE("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
			status int
		}{
			{http.MethodGet, "/api/v1/test/items", http.StatusOK},
			{http.MethodPost, "/api/v1/test/items", http.StatusCreated},
			{http.MethodPut, "/api/v1/test/items/7", http.StatusOK},
			{http.MethodDelete, "/api/v1/test/items/7", http.StatusNoContent},
		}
		for _, tt := range tests {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("subgroups inherit middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("mfg", "/mfg").Use(func(c *gin.Context) {
			c.Header("X-Group", "applied")
			c.Next()
		})
		g.Group("orders", "/orders").GET("", func(c *gin.Context) { c.String(http.StatusOK, "orders") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/mfg/orders", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "orders", w.Body.String())
		assert.Equal(t, "applied", w.Header().Get("X-Group"))
	})
}

func abortWith(status int) gin.HandlerFunc {
	return func(c *gin.Context) { c.AbortWithStatus(status) }
}

func pass(c *gin.Context) { c.Next() }

func setupAPI(mw APIMiddleware) *gin.Engine {
	engine := gin.New()
	NewRouter(engine).Register(APIGroups(APIHandlers{}, mw)...).Setup()
	return engine
}

func TestAPIGroups_RegistersManufacturingRoutes(t *testing.T) {
	engine := setupAPI(APIMiddleware{})

	registered := make(map[string]bool)
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	expected := []string{
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",
		"GET /api/v1/auth/me",
		"GET /api/v1/products/low-stock",
		"DELETE /api/v1/products/:id",
		"GET /api/v1/boms/:id/resolve",
		"GET /api/v1/boms/:id/availability",
		"POST /api/v1/boms/:id/activate",
		"POST /api/v1/manufacturing-orders/:id/to-close",
		"POST /api/v1/manufacturing-orders/:id/reserve",
		"POST /api/v1/manufacturing-orders/:id/release",
		"POST /api/v1/work-orders/:id/complete",
		"POST /api/v1/work-orders/:id/issues/:issueId/resolve",
		"PUT /api/v1/work-centers/:id",
		"GET /api/v1/stock/products/:id",
		"POST /api/v1/stock/movements",
		"PUT /api/v1/stock/ledger/:id",
		"DELETE /api/v1/stock/ledger/:id",
		"POST /api/v1/stock/ledger/export",
		"GET /api/v1/stock/consistency/:productId",
		"GET /api/v1/availability/:productId",
		"POST /api/v1/availability/movements",
		"GET /api/v1/dashboard",
		"GET /api/v1/dashboard/low-stock",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestAPIGroups_AuthGuardsProtectedRoutesOnly(t *testing.T) {
	engine := setupAPI(APIMiddleware{
		Auth:          []gin.HandlerFunc{abortWith(http.StatusUnauthorized)},
		AuthRateLimit: abortWith(http.StatusTooManyRequests),
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// login is public, so only the rate limiter sees it
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAPIGroups_AdminGuardsLedgerCorrections(t *testing.T) {
	engine := setupAPI(APIMiddleware{Auth: []gin.HandlerFunc{pass}, Admin: abortWith(http.StatusForbidden)})

	for _, tt := range []struct{ method, path string }{
		{http.MethodPut, "/api/v1/stock/ledger/1"},
		{http.MethodDelete, "/api/v1/stock/ledger/1"},
		{http.MethodPost, "/api/v1/stock/ledger/export"},
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestAPIGroups_CompletionIdempotencyOnlyOnComplete(t *testing.T) {
	engine := setupAPI(APIMiddleware{Auth: []gin.HandlerFunc{pass}, CompletionIdempotency: abortWith(http.StatusConflict)})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/work-orders/3/complete", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAPIGroups_SystemInfoIsOptional(t *testing.T) {
	engine := setupAPI(APIMiddleware{})
	for _, r := range engine.Routes() {
		assert.NotEqual(t, "/api/v1/system/info", r.Path)
	}
}
