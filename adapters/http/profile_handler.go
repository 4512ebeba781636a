package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	photoUC "github.com/jmakela/profiili/internal/application/usecase/photo"
	profileUC "github.com/jmakela/profiili/internal/application/usecase/profile"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.UseCase
	photoUseCase   *photoUC.UseCase
	logger         logger.Logger
}

func NewProfileHandler(profile *profileUC.UseCase, photo *photoUC.UseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profile,
		photoUseCase:   photo,
		logger:         log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	p, err := h.profileUseCase.Get(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}

	p, err := h.profileUseCase.Update(c.Request.Context(), ownerID, profileUC.UpdateInput{
		Headline: req.Headline,
		Bio:      req.Bio,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) GetCompetencies(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	competencies, err := h.profileUseCase.Competencies(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCompetencyDTOs(competencies))
}

func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.Error(apperror.NewInvalidInput("photo file is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot read photo file", err))
		return
	}
	defer file.Close()

	output, err := h.photoUseCase.Upload(c.Request.Context(), photoUC.UploadInput{
		OwnerID: ownerID,
		File:    file,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo_url": output.PhotoURL})
}

func (h *ProfileHandler) DeletePhoto(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	if err := h.photoUseCase.Delete(c.Request.Context(), ownerID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
