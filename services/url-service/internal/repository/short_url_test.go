package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBuildShortURLUpdate(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	original := "https://example.com"
	code := "abc123"

	tests := []struct {
		name    string
		params  UpdateShortURLParams
		want    bson.M
		wantErr error
	}{
		{
			name:    "no fields",
			params:  UpdateShortURLParams{},
			wantErr: ErrNoShortURLFields,
		},
		{
			name:   "original url only",
			params: UpdateShortURLParams{OriginalURL: &original},
			want:   bson.M{"$set": bson.M{"original_url": original, "updated_at": now}},
		},
		{
			name:   "both fields",
			params: UpdateShortURLParams{OriginalURL: &original, ShortCode: &code},
			want: bson.M{"$set": bson.M{
				"original_url": original,
				"short_code":   code,
				"updated_at":   now,
			}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := buildShortURLUpdate(test.params, now)
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}
