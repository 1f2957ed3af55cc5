package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brightmont/admissions-engine/internal/service"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
	"github.com/brightmont/admissions-engine/pkg/response"
)

// StatisticsHandler exposes enrollment aggregates and the dashboard summary.
type StatisticsHandler struct {
	enrollments *service.EnrollmentService
}

// NewStatisticsHandler constructs StatisticsHandler.
func NewStatisticsHandler(enrollments *service.EnrollmentService) *StatisticsHandler {
	return &StatisticsHandler{enrollments: enrollments}
}

// Summary godoc
// @Summary Global enrollment statistics across all years
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statistics [get]
func (h *StatisticsHandler) Summary(c *gin.Context) {
	stats, err := h.enrollments.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Year godoc
// @Summary Enrollment aggregate for one year
// @Tags Statistics
// @Produce json
// @Param year path int true "Enrollment year"
// @Success 200 {object} response.Envelope
// @Router /statistics/{year} [get]
func (h *StatisticsHandler) Year(c *gin.Context) {
	year, err := parseYear(c.Param("year"))
	if err != nil {
		response.Error(c, err)
		return
	}
	agg, err := h.enrollments.Aggregate(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, agg, nil)
}

// Reconcile godoc
// @Summary Rebuild one year's aggregate from a full student scan
// @Tags Statistics
// @Produce json
// @Param year path int true "Enrollment year"
// @Success 200 {object} response.Envelope
// @Router /statistics/{year}/reconcile [post]
func (h *StatisticsHandler) Reconcile(c *gin.Context) {
	year, err := parseYear(c.Param("year"))
	if err != nil {
		response.Error(c, err)
		return
	}
	agg, err := h.enrollments.Reconcile(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, agg, nil)
}

func parseYear(raw string) (int, error) {
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid year "+strconv.Quote(raw))
	}
	return year, nil
}
