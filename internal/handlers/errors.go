package handlers

import (
	"errors"
	"net/http"

	"printshop/internal/repository"
	"printshop/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps service and repository errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrStockConflict),
		errors.Is(err, repository.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// logAndJSONError logs the error (if logger is set) and writes a JSON error response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", c.GetString(ctxRequestID)}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondError answers with the mapped status. Client errors carry the error
// text; server errors only the fallback message.
func (h *Handler) respondError(c *gin.Context, fallback, logKey string, err error, kv ...interface{}) {
	code := statusFor(err)
	msg := fallback
	if code < http.StatusInternalServerError {
		msg = err.Error()
	}
	h.logAndJSONError(c, code, msg, logKey, err, kv...)
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
