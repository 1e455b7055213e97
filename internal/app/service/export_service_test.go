package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService_ExportUserReviews(t *testing.T) {
	reviews, _ := setupDownReviewServiceTest(t)
	ctx := context.Background()

	_, err := reviews.CreateOrUpdateReview(ctx, interstellar, "Interstellar", model.ReviewForm{
		Rating:         10,
		Title:          "Masterpiece",
		Pros:           model.StringList{"score", "docking scene"},
		Recommendation: model.RecommendationHighly,
	}, Author{ID: "U1"})
	require.NoError(t, err)

	data, err := NewExportService(reviews).ExportUserReviews(ctx, "U1")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "영화 ID", rows[0][0])
	assert.Equal(t, "157336", rows[1][0])
	assert.Equal(t, "Interstellar", rows[1][1])
	assert.Equal(t, "10", rows[1][2])
	assert.Equal(t, "score\ndocking scene", rows[1][5])
	assert.Equal(t, "highly_recommend", rows[1][7])
}

func TestExportService_RequiresUser(t *testing.T) {
	reviews, _ := setupDownReviewServiceTest(t)

	_, err := NewExportService(reviews).ExportUserReviews(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
