package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	favoriteUC "github.com/jmakela/profiili/internal/application/usecase/favorite"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type FavoriteHandler struct {
	useCase *favoriteUC.UseCase
	logger  logger.Logger
}

func NewFavoriteHandler(uc *favoriteUC.UseCase, log logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{useCase: uc, logger: log}
}

func (h *FavoriteHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	favorites, err := h.useCase.List(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToFavoriteDTOs(favorites))
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for favorite add", err))
		return
	}

	f, err := h.useCase.Add(c.Request.Context(), ownerID, req.Kind, req.TargetID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToFavoriteDTO(f))
}

func (h *FavoriteHandler) Delete(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid favorite id", err))
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), ownerID, id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
