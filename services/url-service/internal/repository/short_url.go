package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/linkshort-api/services/url-service/internal/model"
)

// ShortURLRepository defines the database operations on short URLs. Lookups
// that match nothing return mongo.ErrNoDocuments. Creating or updating to a
// short code already in use returns a duplicate key error.
type ShortURLRepository interface {
	CreateShortURL(ctx context.Context, shortURL *model.ShortURL) (*model.ShortURL, error)
	GetShortURL(ctx context.Context, id bson.ObjectID, userID string) (*model.ShortURL, error)
	GetShortURLByCode(ctx context.Context, code string) (*model.ShortURL, error)
	ListShortURLsByUser(ctx context.Context, userID string) ([]*model.ShortURL, error)
	UpdateShortURL(
		ctx context.Context,
		id bson.ObjectID,
		userID string,
		params UpdateShortURLParams,
	) (*model.ShortURL, error)
	DeleteShortURL(ctx context.Context, id bson.ObjectID, userID string) error
	DeleteShortURLsByUser(ctx context.Context, userID string) (int64, error)
}

// UpdateShortURLParams defines the optional parameters for updating a short URL.
// Only the fields that are not nil will be updated.
type UpdateShortURLParams struct {
	OriginalURL *string
	ShortCode   *string
}

var ErrNoShortURLFields = errors.New("no short url fields to update")

const shortURLCollection = "short_urls"

type shortURLMongoRepository struct {
	db *mongo.Database
}

func NewShortURLMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) ShortURLRepository {
	collection := db.Collection(shortURLCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "short_code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create short url indexes")
	}

	return &shortURLMongoRepository{db: db}
}

func (r *shortURLMongoRepository) CreateShortURL(
	ctx context.Context,
	shortURL *model.ShortURL,
) (*model.ShortURL, error) {
	now := time.Now()
	shortURL.CreatedAt = now
	shortURL.UpdatedAt = now

	result, err := r.db.Collection(shortURLCollection).InsertOne(ctx, shortURL)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		shortURL.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return shortURL, nil
}

func (r *shortURLMongoRepository) GetShortURL(
	ctx context.Context,
	id bson.ObjectID,
	userID string,
) (*model.ShortURL, error) {
	return r.findOne(ctx, bson.M{"_id": id, "user_id": userID})
}

func (r *shortURLMongoRepository) GetShortURLByCode(ctx context.Context, code string) (*model.ShortURL, error) {
	return r.findOne(ctx, bson.M{"short_code": code})
}

func (r *shortURLMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.ShortURL, error) {
	result := r.db.Collection(shortURLCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var shortURL model.ShortURL
	if err := result.Decode(&shortURL); err != nil {
		return nil, err
	}

	return &shortURL, nil
}

func (r *shortURLMongoRepository) ListShortURLsByUser(ctx context.Context, userID string) ([]*model.ShortURL, error) {
	cursor, err := r.db.Collection(shortURLCollection).Find(
		ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	shortURLs := []*model.ShortURL{}
	if err := cursor.All(ctx, &shortURLs); err != nil {
		return nil, err
	}

	return shortURLs, nil
}

func (r *shortURLMongoRepository) UpdateShortURL(
	ctx context.Context,
	id bson.ObjectID,
	userID string,
	params UpdateShortURLParams,
) (*model.ShortURL, error) {
	update, err := buildShortURLUpdate(params, time.Now())
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(shortURLCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "user_id": userID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var shortURL model.ShortURL
	if err := result.Decode(&shortURL); err != nil {
		return nil, err
	}

	return &shortURL, nil
}

func buildShortURLUpdate(params UpdateShortURLParams, now time.Time) (bson.M, error) {
	setMap := bson.M{}
	if params.OriginalURL != nil {
		setMap["original_url"] = *params.OriginalURL
	}
	if params.ShortCode != nil {
		setMap["short_code"] = *params.ShortCode
	}

	if len(setMap) == 0 {
		return nil, ErrNoShortURLFields
	}

	setMap["updated_at"] = now

	return bson.M{"$set": setMap}, nil
}

func (r *shortURLMongoRepository) DeleteShortURL(ctx context.Context, id bson.ObjectID, userID string) error {
	result, err := r.db.Collection(shortURLCollection).DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *shortURLMongoRepository) DeleteShortURLsByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.Collection(shortURLCollection).DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}
