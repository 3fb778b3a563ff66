package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"library-backend/internal/shared/response"
	"library-backend/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	IdempotencyHeader         = "Idempotency-Key"
	IdempotencyReplayedHeader = "Idempotency-Replayed"

	idempotencyLockTTL = 30 * time.Second
	maxIdempotencyKey  = 128
)

// storedResponse là response đã hoàn tất, được replay cho request trùng key
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type capturingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replay response đầu tiên (status < 500) cho cùng Idempotency-Key
// Request không có header thì đi thẳng qua
func Idempotency(store cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKey {
			response.BadRequest(c, "Idempotency-Key is too long")
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		cacheKey := "idempotency:" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key
		lockKey := cacheKey + ":lock"

		var stored storedResponse
		found, err := store.Get(ctx, cacheKey, &stored)
		if err != nil {
			// Cache lỗi thì xử lý như request thường
			log.Warn().Err(err).Str("key", key).Msg("Idempotency lookup failed")
			c.Next()
			return
		}
		if found {
			replay(c, stored)
			return
		}

		acquired, err := store.SetNX(ctx, lockKey, c.GetString(RequestIDKey), idempotencyLockTTL)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Idempotency lock failed")
			c.Next()
			return
		}
		if !acquired {
			response.ErrorResponse(c, http.StatusConflict, "IDEMPOTENCY_IN_PROGRESS",
				"A request with this Idempotency-Key is still being processed")
			c.Abort()
			return
		}

		// request trước có thể đã lưu response và nhả lock giữa Get và SetNX
		found, err = store.Get(ctx, cacheKey, &stored)
		if err == nil && found {
			if err := store.Delete(ctx, lockKey); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Idempotency unlock failed")
			}
			replay(c, stored)
			return
		}

		writer := &capturingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		// Request context có thể đã bị cancel khi client ngắt kết nối
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		if status := writer.Status(); status < http.StatusInternalServerError {
			entry := storedResponse{
				Status:      status,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
			}
			if err := store.Set(saveCtx, cacheKey, entry, ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Idempotency store failed")
			}
		}

		if err := store.Delete(saveCtx, lockKey); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Idempotency unlock failed")
		}
	}
}

func replay(c *gin.Context, stored storedResponse) {
	contentType := stored.ContentType
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}

	log.Info().
		Str("request_id", c.GetString(RequestIDKey)).
		Str("key", c.GetHeader(IdempotencyHeader)).
		Int("status", stored.Status).
		Msg("Replaying idempotent response")

	c.Header(IdempotencyReplayedHeader, "true")
	c.Data(stored.Status, contentType, stored.Body)
	c.Abort()
}
