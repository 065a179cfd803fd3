package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID    = "userId"
	ctxRequestID = "request_id"
	headerReqID  = "X-Request-ID"
)

func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	token, ok := bearerToken(header)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userId, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(ctxUserID, userId)
	c.Next()
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// accountID returns the authenticated user id set by userIdMiddleware.
func accountID(c *gin.Context) int {
	return c.GetInt(ctxUserID)
}

// requestID propagates X-Request-ID or generates a fresh one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerReqID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerReqID, id)
		c.Next()
	}
}

// accessLog writes one line per request, graded by response status.
func (h *Handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := redactQuery(c.Request.URL.RawQuery)

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", c.GetString(ctxRequestID),
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			h.log.Errorw("http_request", fields...)
		case status >= http.StatusBadRequest:
			h.log.Warnw("http_request", fields...)
		default:
			h.log.Infow("http_request", fields...)
		}
	}
}

// redactQuery masks credentials passed in the query string, such as the
// websocket ?token=.
func redactQuery(raw string) string {
	if raw == "" || !strings.Contains(strings.ToLower(raw), "token") {
		return raw
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return "<unparsable>"
	}
	for k := range values {
		if strings.EqualFold(k, "token") {
			values[k] = []string{"***"}
		}
	}
	return values.Encode()
}
