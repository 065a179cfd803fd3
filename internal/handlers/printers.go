package handlers

import (
	"net/http"

	"printshop/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errListPrinters  = "failed to list printers"
	errLoadPrinter   = "failed to load printer"
	errSavePrinter   = "failed to save printer"
	errDeletePrinter = "failed to delete printer"
)

// printerInput omits horasTotais: hours only grow through approvals.
type printerInput struct {
	Name         *string  `json:"nome"`
	Model        *string  `json:"modelo"`
	PowerWatts   *float64 `json:"potenciaW"`
	TotalRevenue *float64 `json:"rendimentoTotal"`
}

func (in printerInput) applyTo(p *models.Printer) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Model != nil {
		p.Model = *in.Model
	}
	if in.PowerWatts != nil {
		p.PowerWatts = *in.PowerWatts
	}
	if in.TotalRevenue != nil {
		p.TotalRevenue = *in.TotalRevenue
	}
}

// @Summary      List printers
// @Tags         printers
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, printers"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/printers [get]
// @Security     BearerAuth
func (h *Handler) listPrinters(c *gin.Context) {
	list, err := h.services.ListPrinters(c.Request.Context(), accountID(c))
	if err != nil {
		h.respondError(c, errListPrinters, "printers_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "printers": list})
}

// @Summary      Get printer
// @Tags         printers
// @Produce      json
// @Param        id   path      string  true  "printer id"
// @Success      200  {object}  models.Printer
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/printers/{id} [get]
// @Security     BearerAuth
func (h *Handler) getPrinter(c *gin.Context) {
	p, err := h.services.GetPrinter(c.Request.Context(), accountID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, errLoadPrinter, "printer_get_failed", err, "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Create printer
// @Tags         printers
// @Accept       json
// @Produce      json
// @Param        input  body      printerInput  true  "printer"
// @Success      201    {object}  models.Printer
// @Failure      400    {object}  map[string]string
// @Router       /api/v1/printers [post]
// @Security     BearerAuth
func (h *Handler) createPrinter(c *gin.Context) {
	var in printerInput
	if !h.bindJSONOrBadRequest(c, &in) {
		return
	}
	p := models.Printer{AccountID: accountID(c)}
	in.applyTo(&p)

	created, err := h.services.CreatePrinter(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, errSavePrinter, "printer_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// @Summary      Update printer
// @Tags         printers
// @Accept       json
// @Produce      json
// @Param        id     path      string        true  "printer id"
// @Param        input  body      printerInput  true  "fields to change"
// @Success      200    {object}  models.Printer
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /api/v1/printers/{id} [put]
// @Security     BearerAuth
func (h *Handler) updatePrinter(c *gin.Context) {
	var in printerInput
	if !h.bindJSONOrBadRequest(c, &in) {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.services.GetPrinter(ctx, accountID(c), id)
	if err != nil {
		h.respondError(c, errLoadPrinter, "printer_get_failed", err, "id", id)
		return
	}
	in.applyTo(&p)

	updated, err := h.services.UpdatePrinter(ctx, p)
	if err != nil {
		h.respondError(c, errSavePrinter, "printer_update_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Delete printer
// @Tags         printers
// @Param        id   path  string  true  "printer id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/printers/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deletePrinter(c *gin.Context) {
	if err := h.services.DeletePrinter(c.Request.Context(), accountID(c), c.Param("id")); err != nil {
		h.respondError(c, errDeletePrinter, "printer_delete_failed", err, "id", c.Param("id"))
		return
	}
	c.Status(http.StatusNoContent)
}
