package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	activityUC "github.com/jmakela/profiili/internal/application/usecase/activity"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type ActivityHandler struct {
	useCase *activityUC.UseCase
	logger  logger.Logger
}

func NewActivityHandler(uc *activityUC.UseCase, log logger.Logger) *ActivityHandler {
	return &ActivityHandler{useCase: uc, logger: log}
}

func (h *ActivityHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	activities, err := h.useCase.List(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToActivityDTOs(activities))
}

func (h *ActivityHandler) Get(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid activity id", err))
		return
	}

	a, err := h.useCase.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToActivityDTO(a))
}

func (h *ActivityHandler) Create(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for activity create", err))
		return
	}

	a, err := h.useCase.Create(c.Request.Context(), ownerID, activityUC.CreateActivityInput{
		Name:           req.Name,
		Qualifications: toQualificationPatches(req.Qualifications),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToActivityDTO(a))
}

func (h *ActivityHandler) Update(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid activity id", err))
		return
	}

	var req UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for activity update", err))
		return
	}

	a, err := h.useCase.Update(c.Request.Context(), ownerID, id, activityUC.UpdateActivityInput{
		Name:           req.Name,
		Qualifications: toQualificationPatches(req.Qualifications),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToActivityDTO(a))
}

func (h *ActivityHandler) Delete(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req DeleteByIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for activity delete", err))
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), ownerID, req.IDs); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
