package photo

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/jmakela/profiili/adapters/persistence"
	"github.com/jmakela/profiili/internal/application/service"
	"github.com/jmakela/profiili/internal/domain/profile"
	"github.com/jmakela/profiili/pkg/apperror"
	"github.com/jmakela/profiili/pkg/logger"
)

// UseCase stores the profile photo with the media provider and records its
// URL on the profile. One photo per profile; uploading again replaces it.
type UseCase struct {
	profiles profile.Repository
	uploader service.Uploader
	tx       service.TxManager
	logger   logger.Logger
}

func NewUseCase(profiles profile.Repository, uploader service.Uploader, tx service.TxManager, log logger.Logger) *UseCase {
	return &UseCase{
		profiles: profiles,
		uploader: uploader,
		tx:       tx,
		logger:   log,
	}
}

func photoPublicID(ownerID uuid.UUID) (folder, publicID string) {
	return fmt.Sprintf("profiles/%s", ownerID.String()), "photo"
}

type UploadInput struct {
	OwnerID uuid.UUID
	File    io.Reader
}

type UploadOutput struct {
	PhotoURL string
}

func (uc *UseCase) Upload(ctx context.Context, in UploadInput) (*UploadOutput, error) {
	folder, publicID := photoPublicID(in.OwnerID)

	url, err := uc.uploader.Upload(ctx, in.File, folder, publicID)
	if err != nil {
		return nil, apperror.NewInternal("failed to upload profile photo", err)
	}

	err = uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, in.OwnerID, "photo.upload")
		return uc.profiles.SetPhotoURL(ctx, in.OwnerID, url)
	})
	if err != nil {
		go uc.uploader.Delete(context.Background(), folder+"/"+publicID)
		return nil, err
	}

	return &UploadOutput{PhotoURL: url}, nil
}

func (uc *UseCase) Delete(ctx context.Context, ownerID uuid.UUID) error {
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		persistence.MarkProfileModified(ctx, ownerID, "photo.delete")
		return uc.profiles.SetPhotoURL(ctx, ownerID, "")
	})
	if err != nil {
		return err
	}

	folder, publicID := photoPublicID(ownerID)
	if err := uc.uploader.Delete(ctx, folder+"/"+publicID); err != nil {
		uc.logger.Warn("failed to delete stored profile photo")
	}
	return nil
}
