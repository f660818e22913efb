package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	appstock "github.com/mfgerp/backend/internal/application/stock"
	"github.com/mfgerp/backend/internal/domain/stock"
	"github.com/mfgerp/backend/internal/infrastructure/auth"
	"github.com/mfgerp/backend/internal/infrastructure/config"
	"github.com/mfgerp/backend/internal/infrastructure/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars-long",
		RefreshSecret:          "test-refresh-secret-at-least-32-chars",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "test",
		MaxRefreshCount:        3,
	})
}

func startServer(t *testing.T, hub *Hub, jwt *auth.JWTService) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", hub.Handler(jwt))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
}

func TestHub_BroadcastsToAuthenticatedClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, nil)
	go hub.Run(ctx)
	jwt := newJWT()
	srv := startServer(t, hub, jwt)

	pair, err := jwt.GenerateTokenPair(auth.GenerateTokenInput{UserID: 7, Username: "planner", Role: "USER"})
	require.NoError(t, err)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, pair.AccessToken), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	broadcaster := NewEventBroadcaster(hub)
	evt := stock.NewStockChangedEvent(3, "Bracket", stock.TransactionTypeOut, 4, 16, "MO2024010001")
	require.NoError(t, broadcaster.Handle(ctx, evt))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env event.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, stock.EventTypeStockChanged, env.Type)
	assert.Equal(t, uint(3), env.AggregateID)

	notifier := NewAlertNotifier(hub)
	require.NoError(t, notifier.SendAlert(ctx, appstock.LowStockAlert{ProductID: 3, AlertType: "low_stock"}))
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"low_stock_alert"`)
}

func TestHub_RejectsMissingOrInvalidToken(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, nil)
	go hub.Run(ctx)
	srv := startServer(t, hub, newJWT())

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "not-a-jwt"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, hub.ClientCount())
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://erp.example.com/"})
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)

	req.Header.Set("Origin", "https://erp.example.com")
	assert.True(t, check(req))
	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))
	req.Header.Del("Origin")
	assert.True(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}

func TestEventBroadcaster_SkipsWithoutClients(t *testing.T) {
	hub := NewHub(nil, nil)
	b := NewEventBroadcaster(hub)
	require.NoError(t, b.Handle(context.Background(), stock.NewStockChangedEvent(1, "x", stock.TransactionTypeIn, 1, 1, "")))
	assert.Empty(t, hub.broadcast)
}
