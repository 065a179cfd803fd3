package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"printshop/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errMovements   = "failed to load stock movements"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List stock movements
// @Description  Filter the stock ledger by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'), type and filament. If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         movements
// @Produce      json
// @Param        from         query   string  false  "Start of range"  example(2025-08-01)
// @Param        to           query   string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        type         query   string  false  "Movement type"  Enums(APPROVAL,CONSUMPTION,ADJUSTMENT)
// @Param        filament_id  query   string  false  "Only movements of this filament"
// @Success      200   {object}  map[string]interface{}  "count, movements"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/movements [get]
// @Security     BearerAuth
func (h *Handler) getMovements(c *gin.Context) {
	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	// If only a date is provided, make 'to' end-of-day inclusive.
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	filter := service.LogFilter{
		From:       from,
		To:         to,
		Type:       strings.ToUpper(strings.TrimSpace(c.Query("type"))),
		FilamentID: strings.TrimSpace(c.Query("filament_id")),
	}
	movements, err := h.services.ListMovements(c.Request.Context(), accountID(c), filter)
	if err != nil {
		h.respondError(c, errMovements, "movements_list_failed", err,
			"from", from, "to", to, "type", filter.Type, "filament_id", filter.FilamentID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(movements),
		"movements": movements,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
