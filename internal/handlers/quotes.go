package handlers

import (
	"net/http"

	"printshop/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Price a print
// @Description  Material, energy, labor, depreciation and failure allowance plus the margin. Omitted rates use the shop defaults. Money values are decimal strings.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        input  body      service.QuoteRequest  true  "quote"
// @Success      200    {object}  pricing.Breakdown
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /api/v1/quotes [post]
// @Security     BearerAuth
func (h *Handler) quote(c *gin.Context) {
	var req service.QuoteRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	b, err := h.services.Quote(c.Request.Context(), accountID(c), req)
	if err != nil {
		h.respondError(c, "failed to compute quote", "quote_failed", err, "printer_id", req.PrinterID)
		return
	}
	c.JSON(http.StatusOK, b)
}
