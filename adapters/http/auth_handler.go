package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authUC "github.com/jmakela/profiili/internal/application/usecase/auth"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

type AuthHandler struct {
	loginUseCase *authUC.LoginUseCase
	logger       logger.Logger
}

func NewAuthHandler(uc *authUC.LoginUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{loginUseCase: uc, logger: log}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for login", err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), authUC.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{AccessToken: output.AccessToken})
}
