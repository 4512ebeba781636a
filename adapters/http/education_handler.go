package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	educationUC "github.com/jmakela/profiili/internal/application/usecase/education"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type EducationHandler struct {
	useCase *educationUC.UseCase
	logger  logger.Logger
}

func NewEducationHandler(uc *educationUC.UseCase, log logger.Logger) *EducationHandler {
	return &EducationHandler{useCase: uc, logger: log}
}

func (h *EducationHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	groups, err := h.useCase.List(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCategoryEntriesDTOs(groups))
}

func (h *EducationHandler) ListCategories(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	categories, err := h.useCase.ListCategories(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	out := make([]CategoryDTO, len(categories))
	for i, cat := range categories {
		out[i] = ToCategoryDTO(cat)
	}
	c.JSON(http.StatusOK, out)
}

// Merge handles PUT: the submitted entries become the category's full
// contents.
func (h *EducationHandler) Merge(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req EducationWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for education merge", err))
		return
	}

	categoryPatch, entryPatches := req.ToPatches()
	entries, err := h.useCase.Merge(c.Request.Context(), ownerID, categoryPatch, entryPatches)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToEducationEntryDTOs(entries))
}

// Upsert handles PATCH: entries are created or updated, never deleted.
func (h *EducationHandler) Upsert(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req EducationWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for education upsert", err))
		return
	}

	categoryPatch, entryPatches := req.ToPatches()
	entries, err := h.useCase.Upsert(c.Request.Context(), ownerID, categoryPatch, entryPatches)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToEducationEntryDTOs(entries))
}

func (h *EducationHandler) Delete(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req DeleteByIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for education delete", err))
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), ownerID, req.IDs); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
