package service

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/repository"
	"github.com/ikkim/reelnote-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCommentServiceTest(t *testing.T) CommentService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	store := repository.NewFallbackCommentStore(
		repository.NewCommentRepository(testDB),
		repository.NewLocalCommentStore(repository.NewMemoryKeyValueStore()),
		time.Second,
	)
	profiles := NewProfileService(repository.NewProfileRepository(testDB), 0)
	return NewCommentService(store, repository.NewExternalCommentRepository(testDB), profiles)
}

func TestCommentService_Lifecycle(t *testing.T) {
	svc := setupCommentServiceTest(t)
	ctx := context.Background()

	created, err := svc.AddComment(ctx, interstellar, "Interstellar", "  Do not go gentle  ", Author{ID: "U1", DisplayName: "Kim"})
	require.NoError(t, err)
	assert.Equal(t, "Do not go gentle", created.Content)
	assert.Equal(t, "Kim", created.UserName)

	comments, err := svc.GetCommentsForMovie(ctx, interstellar)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Kim", comments[0].UserName)

	_, err = svc.UpdateComment(ctx, created.ID, "U2", "mine now")
	assert.ErrorIs(t, err, ErrCommentNotFound)

	updated, err := svc.UpdateComment(ctx, created.ID, "U1", "Rage, rage")
	require.NoError(t, err)
	assert.Equal(t, "Rage, rage", updated.Content)

	assert.ErrorIs(t, svc.DeleteComment(ctx, created.ID, "U2"), ErrCommentNotFound)
	require.NoError(t, svc.DeleteComment(ctx, created.ID, "U1"))

	comments, err = svc.GetCommentsForMovie(ctx, interstellar)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCommentService_Validation(t *testing.T) {
	svc := setupCommentServiceTest(t)
	ctx := context.Background()

	_, err := svc.AddComment(ctx, interstellar, "", "hello", Author{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.AddComment(ctx, interstellar, "", "   ", Author{ID: "U1"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddComment(ctx, -1, "", "hello", Author{ID: "U1"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCommentService_ExternalComments(t *testing.T) {
	svc := setupCommentServiceTest(t)
	ctx := context.Background()

	created, err := svc.AddExternalComment(ctx, model.CreateExternalCommentRequest{
		MovieID: interstellar, Name: " Lee ", Email: "lee@example.com", Message: "Murph!",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lee", created.Name)

	_, err = svc.AddExternalComment(ctx, model.CreateExternalCommentRequest{MovieID: interstellar, Name: "Lee"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "message", verr.Field)

	n, err := svc.ImportExternalComments(ctx, []model.ExternalComment{
		{MovieID: interstellar, Name: "Park", Message: "TARS"},
		{MovieID: 27205, Name: "Choi", Message: "Inception"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	comments, err := svc.GetExternalComments(ctx, interstellar)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestCommentService_ExternalCommentsWithoutDatabase(t *testing.T) {
	store := repository.NewLocalCommentStore(repository.NewMemoryKeyValueStore())
	svc := NewCommentService(store, nil, NewProfileService(nil, 0))

	_, err := svc.GetExternalComments(context.Background(), interstellar)
	assert.ErrorIs(t, err, ErrExternalCommentsUnavailable)
}
