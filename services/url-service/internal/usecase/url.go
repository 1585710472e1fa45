package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/linkshort-api/services/url-service/internal/model"
	"github.com/vasapolrittideah/linkshort-api/services/url-service/internal/repository"
)

// URLUsecase manages the short URLs of an authenticated owner and resolves
// short codes for anonymous visitors.
type URLUsecase interface {
	Create(ctx context.Context, params CreateParams) (*model.ShortURL, error)
	Get(ctx context.Context, userID, id string) (*model.ShortURL, error)
	ListByUser(ctx context.Context, userID string) ([]*model.ShortURL, error)
	Update(ctx context.Context, params UpdateParams) (*model.ShortURL, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)

	// Resolve returns the original URL a short code points to.
	Resolve(ctx context.Context, code string) (string, error)
	IsAvailable(ctx context.Context, code string) (bool, error)
}

type CreateParams struct {
	UserID      string
	OriginalURL string
	ShortCode   string
}

// UpdateParams defines an owner's change to a short URL. Empty fields are
// left unchanged.
type UpdateParams struct {
	UserID      string
	ID          string
	OriginalURL string
	ShortCode   string
}

type urlUsecase struct {
	shortURLRepo repository.ShortURLRepository
	logger       *zerolog.Logger
}

func NewURLUsecase(shortURLRepo repository.ShortURLRepository, logger *zerolog.Logger) URLUsecase {
	return &urlUsecase{shortURLRepo: shortURLRepo, logger: logger}
}

func (u *urlUsecase) Create(ctx context.Context, params CreateParams) (*model.ShortURL, error) {
	available, err := u.IsAvailable(ctx, params.ShortCode)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrShortCodeTaken
	}

	shortURL, err := u.shortURLRepo.CreateShortURL(ctx, &model.ShortURL{
		UserID:      params.UserID,
		OriginalURL: params.OriginalURL,
		ShortCode:   params.ShortCode,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrShortCodeTaken
		}

		return nil, err
	}

	u.logger.Info().Str("user_id", params.UserID).Str("short_code", params.ShortCode).Msg("short url created")

	return shortURL, nil
}

func (u *urlUsecase) Get(ctx context.Context, userID, id string) (*model.ShortURL, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidShortURLID
	}

	shortURL, err := u.shortURLRepo.GetShortURL(ctx, objectID, userID)
	if err != nil {
		return nil, notFound(err)
	}

	return shortURL, nil
}

func (u *urlUsecase) ListByUser(ctx context.Context, userID string) ([]*model.ShortURL, error) {
	return u.shortURLRepo.ListShortURLsByUser(ctx, userID)
}

func (u *urlUsecase) Update(ctx context.Context, params UpdateParams) (*model.ShortURL, error) {
	existing, err := u.Get(ctx, params.UserID, params.ID)
	if err != nil {
		return nil, err
	}

	var update repository.UpdateShortURLParams
	if params.OriginalURL != "" && params.OriginalURL != existing.OriginalURL {
		update.OriginalURL = &params.OriginalURL
	}

	if params.ShortCode != "" && params.ShortCode != existing.ShortCode {
		available, err := u.IsAvailable(ctx, params.ShortCode)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, ErrShortCodeTaken
		}

		update.ShortCode = &params.ShortCode
	}

	if update.OriginalURL == nil && update.ShortCode == nil {
		return existing, nil
	}

	shortURL, err := u.shortURLRepo.UpdateShortURL(ctx, existing.ID, params.UserID, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrShortCodeTaken
		}

		return nil, notFound(err)
	}

	return shortURL, nil
}

func (u *urlUsecase) Delete(ctx context.Context, userID, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidShortURLID
	}

	if err := u.shortURLRepo.DeleteShortURL(ctx, objectID, userID); err != nil {
		return notFound(err)
	}

	return nil
}

func (u *urlUsecase) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	deleted, err := u.shortURLRepo.DeleteShortURLsByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	u.logger.Info().Str("user_id", userID).Int64("deleted", deleted).Msg("short urls deleted")

	return deleted, nil
}

func (u *urlUsecase) Resolve(ctx context.Context, code string) (string, error) {
	shortURL, err := u.shortURLRepo.GetShortURLByCode(ctx, code)
	if err != nil {
		return "", notFound(err)
	}

	return shortURL.OriginalURL, nil
}

func (u *urlUsecase) IsAvailable(ctx context.Context, code string) (bool, error) {
	if _, err := u.shortURLRepo.GetShortURLByCode(ctx, code); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return true, nil
		}

		return false, err
	}

	return false, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrShortURLNotFound
	}

	return err
}
