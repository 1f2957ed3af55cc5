package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightmont/admissions-engine/internal/service"
	"github.com/brightmont/admissions-engine/pkg/response"
)

// ExportHandler serves the roster and summary downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// StudentRosterCSV godoc
// @Summary Download the student roster as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200 {file} file
// @Router /exports/students.csv [get]
func (h *ExportHandler) StudentRosterCSV(c *gin.Context) {
	payload, err := h.exports.StudentRosterCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("students-%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/csv", payload)
}

// EnrollmentSummaryPDF godoc
// @Summary Download the enrollment summary as PDF
// @Tags Exports
// @Produce application/pdf
// @Success 200 {file} file
// @Router /exports/enrollment.pdf [get]
func (h *ExportHandler) EnrollmentSummaryPDF(c *gin.Context) {
	payload, err := h.exports.EnrollmentSummaryPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("enrollment-%s.pdf", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", payload)
}
