package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightmont/admissions-engine/internal/models"
	"github.com/brightmont/admissions-engine/internal/service"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
	"github.com/brightmont/admissions-engine/pkg/response"
)

// ApplicationHandler exposes admission application endpoints.
type ApplicationHandler struct {
	applications *service.ApplicationService
}

// NewApplicationHandler constructs ApplicationHandler.
func NewApplicationHandler(applications *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// Create godoc
// @Summary Create an admission application
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body service.CreateApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req service.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	app, err := h.applications.Create(c.Request.Context(), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// List godoc
// @Summary List applications ordered by submission time
// @Tags Applications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.applications.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

// Get godoc
// @Summary Get one application by applicant email
// @Tags Applications
// @Produce json
// @Param email path string true "Applicant email"
// @Success 200 {object} response.Envelope
// @Router /applications/{email} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.applications.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// Patch godoc
// @Summary Partially update an application
// @Tags Applications
// @Accept json
// @Produce json
// @Param email path string true "Applicant email"
// @Param payload body models.ApplicationPatch true "Fields to merge"
// @Success 200 {object} response.Envelope
// @Router /applications/{email} [patch]
func (h *ApplicationHandler) Patch(c *gin.Context) {
	var patch models.ApplicationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	app, err := h.applications.Patch(c.Request.Context(), c.Param("email"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// Delete godoc
// @Summary Delete an application
// @Tags Applications
// @Param email path string true "Applicant email"
// @Success 204
// @Router /applications/{email} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if _, err := h.applications.Delete(c.Request.Context(), c.Param("email")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Transition godoc
// @Summary Change application status, appending to the audit trail
// @Tags Applications
// @Accept json
// @Produce json
// @Param email path string true "Applicant email"
// @Param payload body service.TransitionRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Router /applications/{email}/status [post]
func (h *ApplicationHandler) Transition(c *gin.Context) {
	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	app, err := h.applications.Transition(c.Request.Context(), c.Param("email"), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// Promote godoc
// @Summary Promote an approved application to an enrolled student
// @Tags Applications
// @Produce json
// @Param email path string true "Applicant email"
// @Success 201 {object} response.Envelope
// @Router /applications/{email}/promote [post]
func (h *ApplicationHandler) Promote(c *gin.Context) {
	student, err := h.applications.Promote(c.Request.Context(), c.Param("email"), callerFromContext(c))
	if err != nil {
		// The student may exist even when the aggregate update failed;
		// surface both so the caller knows to reconcile.
		if student != nil {
			response.JSON(c, http.StatusCreated, student, nil, map[string]interface{}{
				"warning": appErrors.FromError(err).Message,
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}
