package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/infrastructure/logger"
	"github.com/mfgerp/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client's idempotency key
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// Idempotency rejects a repeated Idempotency-Key with 409. Requests without the header pass through.
// scope builds the store key from the request, e.g. "wo:<id>". The key is only claimed
// once the handler succeeds, so failed attempts can be retried with the same key.
// Concurrent duplicates can both pass the lookup; for work order completion the
// version check on the work order lets only one of them commit.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, scope func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" || store == nil {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}
		storeKey := scope(c) + ":" + key
		ctx := c.Request.Context()

		seen, err := store.IsProcessed(ctx, storeKey)
		if err != nil {
			logger.L(ctx).Warn("Idempotency lookup failed, continuing", zap.String("key", storeKey), zap.Error(err))
		} else if seen {
			abortDuplicate(c)
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		fresh, err := store.MarkProcessed(ctx, storeKey, ttl)
		if err != nil {
			logger.L(ctx).Warn("Failed to record idempotency key", zap.String("key", storeKey), zap.Error(err))
			return
		}
		if !fresh {
			logger.L(ctx).Warn("Concurrent request with the same idempotency key", zap.String("key", storeKey))
		}
	}
}

func abortDuplicate(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeDuplicateRequest, "A request with this Idempotency-Key was already processed", GetRequestID(c)))
}
