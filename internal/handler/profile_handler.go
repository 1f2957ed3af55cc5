package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightmont/admissions-engine/internal/models"
	"github.com/brightmont/admissions-engine/internal/service"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
	"github.com/brightmont/admissions-engine/pkg/response"
)

// ProfileHandler exposes identity profile endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get godoc
// @Summary Get one profile by email
// @Tags Profiles
// @Produce json
// @Param email path string true "Profile email"
// @Success 200 {object} response.Envelope
// @Router /profiles/{email} [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Upsert godoc
// @Summary Create or replace a profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param payload body service.UpsertProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /profiles [put]
func (h *ProfileHandler) Upsert(c *gin.Context) {
	var req service.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	profile, err := h.profiles.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Patch godoc
// @Summary Partially update a profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param email path string true "Profile email"
// @Param payload body models.ProfilePatch true "Fields to merge"
// @Success 200 {object} response.Envelope
// @Router /profiles/{email} [patch]
func (h *ProfileHandler) Patch(c *gin.Context) {
	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	profile, err := h.profiles.Patch(c.Request.Context(), c.Param("email"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Delete godoc
// @Summary Delete a profile
// @Tags Profiles
// @Param email path string true "Profile email"
// @Success 204
// @Router /profiles/{email} [delete]
func (h *ProfileHandler) Delete(c *gin.Context) {
	if _, err := h.profiles.Delete(c.Request.Context(), c.Param("email")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
