package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/model"
)

// AccountRepository defines the interface for account-related database operations.
// Lookups that match nothing return mongo.ErrNoDocuments.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error)
	GetAccount(ctx context.Context, id bson.ObjectID) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)

	// UpdateAccount applies params to the account in a single update.
	UpdateAccount(ctx context.Context, id bson.ObjectID, params UpdateAccountParams) error

	// RemoveRefreshToken pulls token from the account's refresh-token set. It
	// reports false, without error, when the account exists but does not hold
	// the token; membership test and removal are one atomic operation.
	RemoveRefreshToken(ctx context.Context, id bson.ObjectID, token string) (bool, error)

	// ClearRefreshTokens revokes every refresh token held by the account.
	ClearRefreshTokens(ctx context.Context, id bson.ObjectID) error

	// MarkVerified sets verified and clears the verification token, only if
	// token is the one currently on file. It reports whether a match was found.
	MarkVerified(ctx context.Context, id bson.ObjectID, token string) (bool, error)
}

// UpdateAccountParams defines the optional parameters for updating an account.
// Only the fields that are not nil will be updated.
type UpdateAccountParams struct {
	VerificationToken *string
	Verified          *bool
	// AddRefreshToken is added to the refresh-token set.
	AddRefreshToken *string
}

var ErrNoAccountFields = errors.New("no account fields to update")

const accountCollection = "accounts"

type accountMongoRepository struct {
	db *mongo.Database
}

func NewAccountMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) AccountRepository {
	collection := db.Collection(accountCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "refresh_tokens", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create account indexes")
	}

	return &accountMongoRepository{db: db}
}

func (r *accountMongoRepository) CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error) {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	if account.RefreshTokens == nil {
		account.RefreshTokens = []string{}
	}

	result, err := r.db.Collection(accountCollection).InsertOne(ctx, account)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		account.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return account, nil
}

func (r *accountMongoRepository) GetAccount(ctx context.Context, id bson.ObjectID) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *accountMongoRepository) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *accountMongoRepository) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *accountMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.Account, error) {
	result := r.db.Collection(accountCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var account model.Account
	if err := result.Decode(&account); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountMongoRepository) UpdateAccount(
	ctx context.Context,
	id bson.ObjectID,
	params UpdateAccountParams,
) error {
	update, err := buildAccountUpdate(params, time.Now())
	if err != nil {
		return err
	}

	result, err := r.db.Collection(accountCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func buildAccountUpdate(params UpdateAccountParams, now time.Time) (bson.M, error) {
	setMap := bson.M{}
	if params.VerificationToken != nil {
		setMap["verification_token"] = *params.VerificationToken
	}
	if params.Verified != nil {
		setMap["verified"] = *params.Verified
	}

	if len(setMap) == 0 && params.AddRefreshToken == nil {
		return nil, ErrNoAccountFields
	}

	setMap["updated_at"] = now

	update := bson.M{"$set": setMap}
	if params.AddRefreshToken != nil {
		update["$addToSet"] = bson.M{"refresh_tokens": *params.AddRefreshToken}
	}

	return update, nil
}

func (r *accountMongoRepository) RemoveRefreshToken(
	ctx context.Context,
	id bson.ObjectID,
	token string,
) (bool, error) {
	result, err := r.db.Collection(accountCollection).UpdateOne(
		ctx,
		refreshTokenFilter(id, token),
		pullRefreshTokenUpdate(token, time.Now()),
	)
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}

// refreshTokenFilter matches the account only while it still holds token.
func refreshTokenFilter(id bson.ObjectID, token string) bson.M {
	return bson.M{"_id": id, "refresh_tokens": token}
}

func pullRefreshTokenUpdate(token string, now time.Time) bson.M {
	return bson.M{
		"$pull": bson.M{"refresh_tokens": token},
		"$set":  bson.M{"updated_at": now},
	}
}

func (r *accountMongoRepository) ClearRefreshTokens(ctx context.Context, id bson.ObjectID) error {
	_, err := r.db.Collection(accountCollection).UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"refresh_tokens": []string{},
			"updated_at":     time.Now(),
		}},
	)
	return err
}

func (r *accountMongoRepository) MarkVerified(ctx context.Context, id bson.ObjectID, token string) (bool, error) {
	result, err := r.db.Collection(accountCollection).UpdateOne(
		ctx,
		verificationTokenFilter(id, token),
		markVerifiedUpdate(time.Now()),
	)
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}

// verificationTokenFilter matches the account only while token is the one on
// file, so a consumed or superseded token matches nothing.
func verificationTokenFilter(id bson.ObjectID, token string) bson.M {
	return bson.M{"_id": id, "verification_token": token}
}

func markVerifiedUpdate(now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"verified":           true,
		"verification_token": "",
		"updated_at":         now,
	}}
}
