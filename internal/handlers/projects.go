package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"printshop/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errListProjects  = "failed to list projects"
	errLoadProject   = "failed to load project"
	errSaveProject   = "failed to save project"
	errDeleteProject = "failed to delete project"
	errApprove       = "failed to approve project"
	errAdvance       = "failed to change project status"
)

type projectInput struct {
	Name   *string         `json:"nome"`
	Client *string         `json:"cliente"`
	Data   json.RawMessage `json:"data" swaggertype:"object"`
}

func (in projectInput) applyTo(p *models.Project) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Client != nil {
		p.Client = *in.Client
	}
	if len(in.Data) > 0 {
		p.Data = in.Data
	}
}

// approveRequest is the body of the budget approval call.
type approveRequest struct {
	ProjectID string                 `json:"projectId" binding:"required"`
	PrinterID string                 `json:"printerId"`
	Filaments []models.FilamentUsage `json:"filaments"`
	TotalTime float64                `json:"totalTime"`
}

type approveResponse struct {
	Success bool `json:"success"`
	models.ApprovalResult
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        status  query     string  false  "Filter by status"  Enums(rascunho,producao,aprovado,finalizado)
// @Success      200     {object}  map[string]interface{}  "count, projects"
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Router       /api/v1/projects [get]
// @Security     BearerAuth
func (h *Handler) listProjects(c *gin.Context) {
	status := models.ProjectStatus(strings.ToLower(strings.TrimSpace(c.Query("status"))))
	list, err := h.services.ListProjects(c.Request.Context(), accountID(c), status)
	if err != nil {
		h.respondError(c, errListProjects, "projects_list_failed", err, "status", status)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "projects": list})
}

// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "project id"
// @Success      200  {object}  models.Project
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/projects/{id} [get]
// @Security     BearerAuth
func (h *Handler) getProject(c *gin.Context) {
	p, err := h.services.GetProject(c.Request.Context(), accountID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, errLoadProject, "project_get_failed", err, "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Create project
// @Description  New projects always start as rascunho.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        input  body      projectInput  true  "project"
// @Success      201    {object}  models.Project
// @Failure      400    {object}  map[string]string
// @Router       /api/v1/projects [post]
// @Security     BearerAuth
func (h *Handler) createProject(c *gin.Context) {
	var in projectInput
	if !h.bindJSONOrBadRequest(c, &in) {
		return
	}
	p := models.Project{AccountID: accountID(c)}
	in.applyTo(&p)

	created, err := h.services.CreateProject(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, errSaveProject, "project_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// @Summary      Update project
// @Description  Changes name, client or the data blob. Status is changed through approve or status.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id     path      string        true  "project id"
// @Param        input  body      projectInput  true  "fields to change"
// @Success      200    {object}  models.Project
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /api/v1/projects/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateProject(c *gin.Context) {
	var in projectInput
	if !h.bindJSONOrBadRequest(c, &in) {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.services.GetProject(ctx, accountID(c), id)
	if err != nil {
		h.respondError(c, errLoadProject, "project_get_failed", err, "id", id)
		return
	}
	in.applyTo(&p)

	updated, err := h.services.UpdateProject(ctx, p)
	if err != nil {
		h.respondError(c, errSaveProject, "project_update_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Delete project
// @Tags         projects
// @Param        id   path  string  true  "project id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/projects/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteProject(c *gin.Context) {
	if err := h.services.DeleteProject(c.Request.Context(), accountID(c), c.Param("id")); err != nil {
		h.respondError(c, errDeleteProject, "project_delete_failed", err, "id", c.Param("id"))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Approve budget
// @Description  Moves a rascunho project to producao, adds totalTime to the printer and deducts filament stock, all in one transaction. Entries with id "manual" never touch stock.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        input  body      approveRequest  true  "approval"
// @Success      200    {object}  approveResponse
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/projects/approve [post]
// @Security     BearerAuth
func (h *Handler) approveProject(c *gin.Context) {
	var req approveRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}

	res, err := h.services.Approve(c.Request.Context(), models.Approval{
		AccountID: accountID(c),
		ProjectID: req.ProjectID,
		PrinterID: req.PrinterID,
		Usages:    req.Filaments,
		TotalTime: req.TotalTime,
	})
	if err != nil {
		h.respondError(c, errApprove, "approve_failed", err,
			"project_id", req.ProjectID, "printer_id", req.PrinterID)
		return
	}

	if h.log != nil {
		h.log.Infow("project_approved", "project_id", res.ProjectID,
			"printer_id", req.PrinterID, "filaments", len(res.Filaments), "total_time", req.TotalTime)
	}
	c.JSON(http.StatusOK, approveResponse{Success: true, ApprovalResult: res})
}

// @Summary      Advance project status
// @Description  Forward-only: producao -> aprovado -> finalizado. producao is entered through approve.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id     path      string         true  "project id"
// @Param        input  body      statusRequest  true  "target status"
// @Success      200    {object}  models.Project
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Router       /api/v1/projects/{id}/status [post]
// @Security     BearerAuth
func (h *Handler) advanceProjectStatus(c *gin.Context) {
	var req statusRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	to := models.ProjectStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	p, err := h.services.AdvanceStatus(c.Request.Context(), accountID(c), c.Param("id"), to)
	if err != nil {
		h.respondError(c, errAdvance, "project_status_failed", err, "id", c.Param("id"), "to", to)
		return
	}
	c.JSON(http.StatusOK, p)
}
