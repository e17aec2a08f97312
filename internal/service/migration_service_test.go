package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/pkg/sounds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guestImport() model.ImportRequest {
	day := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	due := time.Date(2026, 2, 20, 17, 0, 0, 0, time.UTC)
	return model.ImportRequest{
		Categories: []model.GuestCategory{
			{LocalID: "c1", Name: "Biology", Color: "#00ff00"},
			{LocalID: "c2", Name: "History"},
		},
		Flashcards: []model.GuestFlashcard{
			{CategoryLocalID: "c1", Front: "Mitochondria", Back: "Powerhouse of the cell", TimesReviewed: 3},
			{CategoryLocalID: "c2", Front: "1066", Back: "Battle of Hastings", Mastered: true},
			{Front: "Loose card", Back: "No category"},
		},
		JournalEntries: []model.GuestJournalEntry{
			{Title: "First day", Content: "Started studying", Mood: "happy", EntryDate: day},
		},
		Goals: []model.GuestGoal{
			{LocalID: "g1", Title: "Pass the exam", Progress: 40},
		},
		Tasks: []model.GuestTask{
			{GoalLocalID: "g1", Title: "Read chapter 3", DueAt: &due},
			{Title: "Buy notebook", Completed: true},
		},
		PomodoroSettings: &model.UpdatePomodoroSettingsRequest{
			FocusMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, SessionsBeforeLongBreak: 3,
		},
		Preferences: &model.GuestPreferences{
			Theme:         "dark",
			AmbientSound:  "rain",
			AmbientVolume: ptr(0),
			Layout:        json.RawMessage(`{"widgets":["timer"]}`),
		},
	}
}

func TestMigrationImport(t *testing.T) {
	ctx := context.Background()
	catalog, err := sounds.Default()
	require.NoError(t, err)

	t.Run("ImportsEverything", func(t *testing.T) {
		db := setupTestDB(t)
		publisher := &recordingPublisher{}
		svc := NewMigrationService(db, catalog, publisher)
		user := createUser(t, db, "guest")

		res, err := svc.Import(ctx, user.ID, guestImport())
		require.NoError(t, err)
		assert.Equal(t, model.ImportCount{Imported: 2}, res.Categories)
		assert.Equal(t, model.ImportCount{Imported: 3}, res.Flashcards)
		assert.Equal(t, model.ImportCount{Imported: 1}, res.JournalEntries)
		assert.Equal(t, model.ImportCount{Imported: 1}, res.Goals)
		assert.Equal(t, model.ImportCount{Imported: 2}, res.Tasks)
		assert.Equal(t, model.ImportCount{Imported: 1}, res.PomodoroSettings)
		assert.Equal(t, model.ImportCount{Imported: 1}, res.Preferences)

		var bio model.Category
		require.NoError(t, db.Where("user_id = ? AND name = ?", user.ID, "Biology").First(&bio).Error)
		var card model.Flashcard
		require.NoError(t, db.Where("front = ?", "Mitochondria").First(&card).Error)
		require.NotNil(t, card.CategoryID)
		assert.Equal(t, bio.ID, *card.CategoryID, "guest category id remapped")
		assert.Equal(t, 3, card.TimesReviewed)

		var goal model.Goal
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&goal).Error)
		var task model.Task
		require.NoError(t, db.Where("title = ?", "Read chapter 3").First(&task).Error)
		require.NotNil(t, task.GoalID)
		assert.Equal(t, goal.ID, *task.GoalID)

		var done model.Task
		require.NoError(t, db.Where("title = ?", "Buy notebook").First(&done).Error)
		assert.True(t, done.Completed)
		assert.NotNil(t, done.CompletedAt)

		var prefs model.UserPreferences
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&prefs).Error)
		assert.Equal(t, "dark", prefs.Theme)
		assert.Equal(t, "rain", prefs.AmbientSound)
		assert.Equal(t, 0, prefs.AmbientVolume)

		assert.NotEmpty(t, publisher.changes("flashcards"))
		assert.NotEmpty(t, publisher.changes("tasks"))
	})

	t.Run("SecondRunIsNoop", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewMigrationService(db, catalog, nil)
		user := createUser(t, db, "guest")

		_, err := svc.Import(ctx, user.ID, guestImport())
		require.NoError(t, err)

		res, err := svc.Import(ctx, user.ID, guestImport())
		require.NoError(t, err)
		assert.Equal(t, model.ImportCount{Skipped: 2}, res.Categories)
		assert.Equal(t, model.ImportCount{Skipped: 3}, res.Flashcards)
		assert.Equal(t, model.ImportCount{Skipped: 1}, res.JournalEntries)
		assert.Equal(t, model.ImportCount{Skipped: 1}, res.Goals)
		assert.Equal(t, model.ImportCount{Skipped: 2}, res.Tasks)
		assert.Equal(t, model.ImportCount{Skipped: 1}, res.PomodoroSettings)
		assert.Equal(t, model.ImportCount{Skipped: 1}, res.Preferences)

		var cards int64
		require.NoError(t, db.Model(&model.Flashcard{}).Where("user_id = ?", user.ID).Count(&cards).Error)
		assert.Equal(t, int64(3), cards)
	})

	t.Run("ExistingSettingsWin", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewMigrationService(db, catalog, nil)
		user := createUser(t, db, "member")
		require.NoError(t, db.Create(&model.PomodoroSettings{
			UserID: user.ID, FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, SessionsBeforeLongBreak: 4,
		}).Error)

		res, err := svc.Import(ctx, user.ID, model.ImportRequest{PomodoroSettings: guestImport().PomodoroSettings})
		require.NoError(t, err)
		assert.Equal(t, model.ImportCount{Skipped: 1}, res.PomodoroSettings)

		var settings model.PomodoroSettings
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&settings).Error)
		assert.Equal(t, 25, settings.FocusMinutes)
	})

	t.Run("UnknownSoundDropped", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewMigrationService(db, catalog, nil)
		user := createUser(t, db, "listener")

		_, err := svc.Import(ctx, user.ID, model.ImportRequest{
			Preferences: &model.GuestPreferences{Theme: "neon", AmbientSound: "jackhammer", AmbientVolume: ptr(30)},
		})
		require.NoError(t, err)

		var prefs model.UserPreferences
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&prefs).Error)
		assert.Empty(t, prefs.AmbientSound)
		assert.Equal(t, "system", prefs.Theme)
		assert.Equal(t, 30, prefs.AmbientVolume)
	})

	t.Run("OmittedVolumeKeepsDefault", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewMigrationService(db, catalog, nil)
		user := createUser(t, db, "quiet")

		_, err := svc.Import(ctx, user.ID, model.ImportRequest{
			Preferences: &model.GuestPreferences{Theme: "light"},
		})
		require.NoError(t, err)

		var prefs model.UserPreferences
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&prefs).Error)
		assert.Equal(t, "light", prefs.Theme)
		assert.Equal(t, 50, prefs.AmbientVolume)
	})

	t.Run("MatchesExistingCategoryByName", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewMigrationService(db, catalog, nil)
		user := createUser(t, db, "learner")
		existing := &model.Category{UserID: user.ID, Name: "Biology"}
		require.NoError(t, db.Create(existing).Error)

		res, err := svc.Import(ctx, user.ID, model.ImportRequest{
			Categories: []model.GuestCategory{{LocalID: "x", Name: "Biology"}},
			Flashcards: []model.GuestFlashcard{{CategoryLocalID: "x", Front: "ATP", Back: "Energy"}},
		})
		require.NoError(t, err)
		assert.Equal(t, model.ImportCount{Skipped: 1}, res.Categories)
		assert.Equal(t, model.ImportCount{Imported: 1}, res.Flashcards)

		var card model.Flashcard
		require.NoError(t, db.Where("front = ?", "ATP").First(&card).Error)
		require.NotNil(t, card.CategoryID)
		assert.Equal(t, existing.ID, *card.CategoryID)
	})
}
