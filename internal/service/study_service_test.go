package service

import (
	"context"
	"testing"

	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudyService(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	publisher := &recordingPublisher{}
	svc := NewStudyService(
		repository.NewCategoryRepository(db),
		repository.NewFlashcardRepository(db),
		repository.NewRoomRepository(db),
		publisher,
	)

	author := createUser(t, db, "author")
	peer := createUser(t, db, "peer")
	stranger := createUser(t, db, "stranger")
	room := createRoom(t, db, author, peer)

	t.Run("PersonalCategoryNamesUnique", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, author.ID, model.CreateCategoryRequest{Name: "Verbs"})
		require.NoError(t, err)
		_, err = svc.CreateCategory(ctx, author.ID, model.CreateCategoryRequest{Name: " Verbs "})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeConflict))

		// another user may reuse the name
		_, err = svc.CreateCategory(ctx, peer.ID, model.CreateCategoryRequest{Name: "Verbs"})
		require.NoError(t, err)
	})

	t.Run("CategoryScopeEnforced", func(t *testing.T) {
		personal, err := svc.CreateCategory(ctx, author.ID, model.CreateCategoryRequest{Name: "Nouns"})
		require.NoError(t, err)

		_, err = svc.CreateFlashcard(ctx, author.ID, model.CreateFlashcardRequest{
			Front: "der Hund", Back: "the dog", RoomID: &room.ID, CategoryID: &personal.ID,
		})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation), "personal category cannot hold room cards")

		_, err = svc.CreateFlashcard(ctx, peer.ID, model.CreateFlashcardRequest{
			Front: "die Katze", Back: "the cat", CategoryID: &personal.ID,
		})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation), "someone else's category")
	})

	t.Run("RoomCardsVisibleToMembers", func(t *testing.T) {
		card, err := svc.CreateFlashcard(ctx, author.ID, model.CreateFlashcardRequest{
			Front: "Photosynthesis", Back: "Light to sugar", RoomID: &room.ID,
		})
		require.NoError(t, err)

		roomChanges := 0
		for _, e := range publisher.ofType(model.WSEventChange) {
			if e.roomID != nil && *e.roomID == room.ID {
				roomChanges++
			}
		}
		assert.Positive(t, roomChanges, "room cards are announced to the room")

		_, err = svc.GetFlashcard(ctx, peer.ID, card.ID)
		require.NoError(t, err)
		_, err = svc.GetFlashcard(ctx, stranger.ID, card.ID)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeForbidden))

		_, err = svc.UpdateFlashcard(ctx, peer.ID, card.ID, model.UpdateFlashcardRequest{Back: ptr("nope")})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeForbidden))

		_, err = svc.ListFlashcards(ctx, stranger.ID, model.FlashcardFilter{RoomID: &room.ID})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeForbidden))
	})

	t.Run("PersonalCardsHidden", func(t *testing.T) {
		card, err := svc.CreateFlashcard(ctx, author.ID, model.CreateFlashcardRequest{Front: "Secret", Back: "Mine"})
		require.NoError(t, err)

		_, err = svc.GetFlashcard(ctx, peer.ID, card.ID)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeNotFound))
		err = svc.DeleteFlashcard(ctx, peer.ID, card.ID)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeNotFound))
	})

	t.Run("ReviewCountsAndMasters", func(t *testing.T) {
		card, err := svc.CreateFlashcard(ctx, author.ID, model.CreateFlashcardRequest{Front: "2+2", Back: "4"})
		require.NoError(t, err)

		card, err = svc.ReviewFlashcard(ctx, author.ID, card.ID, model.ReviewFlashcardRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, card.TimesReviewed)
		assert.NotNil(t, card.LastReviewedAt)
		assert.False(t, card.Mastered)

		card, err = svc.ReviewFlashcard(ctx, author.ID, card.ID, model.ReviewFlashcardRequest{Mastered: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, 2, card.TimesReviewed)
		assert.True(t, card.Mastered)
	})

	t.Run("DeletingCategoryKeepsCards", func(t *testing.T) {
		c, err := svc.CreateCategory(ctx, author.ID, model.CreateCategoryRequest{Name: "Temporary"})
		require.NoError(t, err)
		card, err := svc.CreateFlashcard(ctx, author.ID, model.CreateFlashcardRequest{Front: "keep", Back: "me", CategoryID: &c.ID})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteCategory(ctx, author.ID, c.ID))
		got, err := svc.GetFlashcard(ctx, author.ID, card.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)
	})
}
