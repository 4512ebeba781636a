package auth

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/jmakela/profiili/internal/domain/account"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/auth"
	"github.com/jmakela/profiili/pkg/logger"
)

type LoginUseCase struct {
	accounts account.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewLoginUseCase(accounts account.Repository, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		accounts: accounts,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	AccessToken string
}

var tracer = otel.Tracer("auth_usecase")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Execute")
	defer span.End()

	acc, err := uc.accounts.FindByEmail(ctx, input.Email)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewUnauthorized("unknown email or wrong password", nil)
	}

	if !auth.CheckPasswordHash(input.Password, acc.PasswordHash) {
		err := apperror.NewUnauthorized("unknown email or wrong password", nil)
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(acc.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("account_id", acc.ID.String()))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("account_id", acc.ID.String()))
	return &LoginOutput{AccessToken: token}, nil
}
