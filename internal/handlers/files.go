package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"printshop/internal/slicer"

	"github.com/gin-gonic/gin"
)

// @Summary      Analyze sliced file
// @Description  Reads print time and filament weight from a .gcode, .gco or .3mf upload. Unreadable files are reported in the body, not as errors.
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "sliced file"
// @Success      200   {object}  slicer.Report
// @Failure      400   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Router       /api/v1/files/analyze [post]
// @Security     BearerAuth
func (h *Handler) analyzeFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logAndJSONError(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds %d bytes", h.maxUpload), "analyze_too_large", err)
			return
		}
		h.logAndJSONError(c, http.StatusBadRequest, "multipart field 'file' is required", "analyze_bad_form", err)
		return
	}

	if !slicer.Supported(fh.Filename) {
		// reported in the body without reading the upload
		c.JSON(http.StatusOK, h.services.AnalyzeFile(fh.Filename, nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "could not read upload", "analyze_open_failed", err, "filename", fh.Filename)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "could not read upload", "analyze_read_failed", err, "filename", fh.Filename)
		return
	}

	report := h.services.AnalyzeFile(fh.Filename, data)
	if h.log != nil {
		h.log.Infow("file_analyzed", "filename", fh.Filename, "bytes", len(data),
			"file_type", report.FileType, "success", report.Success, "slicer", report.DetectedSlicer)
	}
	c.JSON(http.StatusOK, report)
}
