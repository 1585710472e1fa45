package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/repository"
)

// IdentityUsecase answers identity checks made by peer services.
type IdentityUsecase interface {
	// IsValid reports whether subjectID names an existing account holding
	// every role in roles. An empty subject or empty role list is never valid.
	IsValid(ctx context.Context, subjectID string, roles []string) (bool, error)
}

type identityUsecase struct {
	accountRepo repository.AccountRepository
}

func NewIdentityUsecase(accountRepo repository.AccountRepository) IdentityUsecase {
	return &identityUsecase{accountRepo: accountRepo}
}

func (u *identityUsecase) IsValid(ctx context.Context, subjectID string, roles []string) (bool, error) {
	if subjectID == "" || len(roles) == 0 {
		return false, nil
	}

	id, err := bson.ObjectIDFromHex(subjectID)
	if err != nil {
		return false, nil
	}

	account, err := u.accountRepo.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}

		return false, err
	}

	return account.HasRoles(roles), nil
}
