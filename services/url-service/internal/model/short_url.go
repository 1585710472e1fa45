package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ShortURL maps a short code to the original URL it redirects to.
type ShortURL struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string        `bson:"user_id"       json:"user_id"`
	OriginalURL string        `bson:"original_url"  json:"original_url"`
	ShortCode   string        `bson:"short_code"    json:"short_code"`
	CreatedAt   time.Time     `bson:"created_at"    json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"    json:"updated_at"`
}
