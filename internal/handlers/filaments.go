package handlers

import (
	"net/http"

	"printshop/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errListFilaments  = "failed to list filaments"
	errLoadFilament   = "failed to load filament"
	errSaveFilament   = "failed to save filament"
	errDeleteFilament = "failed to delete filament"
	errConsume        = "failed to record consumption"
)

// filamentInput is the create/update body. On update only the fields
// present in the body are changed.
type filamentInput struct {
	Name        *string  `json:"nome"`
	Material    *string  `json:"material"`
	Type        *string  `json:"tipo"`
	ColorHex    *string  `json:"corHex"`
	TotalWeight *float64 `json:"pesoTotal"`
	Remaining   *float64 `json:"pesoAtual"`
	Price       *float64 `json:"preco"`
}

func (in filamentInput) applyTo(f *models.Filament) {
	if in.Name != nil {
		f.Name = *in.Name
	}
	if in.Material != nil {
		f.Material = *in.Material
	}
	if in.Type != nil {
		f.Type = *in.Type
	}
	if in.ColorHex != nil {
		f.ColorHex = *in.ColorHex
	}
	if in.TotalWeight != nil {
		f.TotalWeight = *in.TotalWeight
	}
	if in.Remaining != nil {
		f.Remaining = *in.Remaining
	}
	if in.Price != nil {
		f.Price = *in.Price
	}
}

type consumeRequest struct {
	Grams float64 `json:"peso" binding:"required,gt=0"`
	Note  string  `json:"nota"`
}

// @Summary      List filaments
// @Tags         filaments
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, filaments"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/filaments [get]
// @Security     BearerAuth
func (h *Handler) listFilaments(c *gin.Context) {
	list, err := h.services.ListFilaments(c.Request.Context(), accountID(c))
	if err != nil {
		h.respondError(c, errListFilaments, "filaments_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "filaments": list})
}

// @Summary      Low stock filaments
// @Description  Filaments whose remaining weight is at or below the configured share of their capacity.
// @Tags         filaments
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, filaments"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/filaments/low-stock [get]
// @Security     BearerAuth
func (h *Handler) lowStock(c *gin.Context) {
	list, err := h.services.LowStock(c.Request.Context(), accountID(c))
	if err != nil {
		h.respondError(c, errListFilaments, "filaments_low_stock_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "filaments": list})
}

// @Summary      Get filament
// @Tags         filaments
// @Produce      json
// @Param        id   path      string  true  "filament id"
// @Success      200  {object}  models.Filament
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/filaments/{id} [get]
// @Security     BearerAuth
func (h *Handler) getFilament(c *gin.Context) {
	f, err := h.services.GetFilament(c.Request.Context(), accountID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, errLoadFilament, "filament_get_failed", err, "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, f)
}

// @Summary      Create filament
// @Tags         filaments
// @Accept       json
// @Produce      json
// @Param        input  body      filamentInput  true  "filament"
// @Success      201    {object}  models.Filament
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/filaments [post]
// @Security     BearerAuth
func (h *Handler) createFilament(c *gin.Context) {
	var in filamentInput
	if !h.bindJSONOrBadRequest(c, &in) {
		return
	}
	f := models.Filament{AccountID: accountID(c)}
	in.applyTo(&f)
	if in.Remaining == nil {
		// a new spool starts full unless told otherwise
		f.Remaining = f.TotalWeight
	}

	created, err := h.services.CreateFilament(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, errSaveFilament, "filament_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// @Summary      Update filament
// @Description  Partial update; a stock change is recorded as an ADJUSTMENT movement.
// @Tags         filaments
// @Accept       json
// @Produce      json
// @Param        id     path      string         true  "filament id"
// @Param        input  body      filamentInput  true  "fields to change"
// @Success      200    {object}  models.Filament
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Router       /api/v1/filaments/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateFilament(c *gin.Context) {
	var in filamentInput
	if !h.bindJSONOrBadRequest(c, &in) {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	f, err := h.services.GetFilament(ctx, accountID(c), id)
	if err != nil {
		h.respondError(c, errLoadFilament, "filament_get_failed", err, "id", id)
		return
	}
	in.applyTo(&f)

	updated, err := h.services.UpdateFilament(ctx, f)
	if err != nil {
		h.respondError(c, errSaveFilament, "filament_update_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Delete filament
// @Tags         filaments
// @Param        id   path  string  true  "filament id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/filaments/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteFilament(c *gin.Context) {
	if err := h.services.DeleteFilament(c.Request.Context(), accountID(c), c.Param("id")); err != nil {
		h.respondError(c, errDeleteFilament, "filament_delete_failed", err, "id", c.Param("id"))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Consume filament
// @Description  Records material used outside a project. Stock never goes below zero.
// @Tags         filaments
// @Accept       json
// @Produce      json
// @Param        id     path      string          true  "filament id"
// @Param        input  body      consumeRequest  true  "grams used"
// @Success      200    {object}  models.StockMovement
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Router       /api/v1/filaments/{id}/consume [post]
// @Security     BearerAuth
func (h *Handler) consumeFilament(c *gin.Context) {
	var req consumeRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	m, err := h.services.ConsumeFilament(c.Request.Context(), accountID(c), c.Param("id"), req.Grams, req.Note)
	if err != nil {
		h.respondError(c, errConsume, "filament_consume_failed", err, "id", c.Param("id"), "grams", req.Grams)
		return
	}
	c.JSON(http.StatusOK, m)
}
