package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/quocanhngo/focushub/pkg/sounds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPomodoroService(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewPomodoroService(repository.NewPomodoroRepository(db), repository.NewRoomRepository(db), nil)
	now := time.Date(2026, 6, 10, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	user := createUser(t, db, "focus")
	outsider := createUser(t, db, "outsider")
	room := createRoom(t, db, user)

	t.Run("DefaultsUntilSaved", func(t *testing.T) {
		s, err := svc.GetSettings(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultFocusMinutes, s.FocusMinutes)

		req := model.UpdatePomodoroSettingsRequest{FocusMinutes: 45, ShortBreakMinutes: 10, LongBreakMinutes: 20, SessionsBeforeLongBreak: 3}
		_, err = svc.UpdateSettings(ctx, user.ID, req)
		require.NoError(t, err)

		// saving twice updates the same row
		req.AutoStart = true
		saved, err := svc.UpdateSettings(ctx, user.ID, req)
		require.NoError(t, err)
		assert.True(t, saved.AutoStart)

		s, err = svc.GetSettings(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 45, s.FocusMinutes)
		assert.True(t, s.AutoStart)
	})

	t.Run("RejectsOutOfRange", func(t *testing.T) {
		_, err := svc.UpdateSettings(ctx, user.ID, model.UpdatePomodoroSettingsRequest{FocusMinutes: 0, ShortBreakMinutes: 5, LongBreakMinutes: 15, SessionsBeforeLongBreak: 4})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))
	})

	t.Run("RoomSessionsNeedMembership", func(t *testing.T) {
		_, err := svc.RecordSession(ctx, outsider.ID, model.RecordSessionRequest{
			Kind: model.SessionKindFocus, StartedAt: now.Add(-time.Hour), DurationSeconds: 1500, RoomID: &room.ID,
		})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeForbidden))

		_, err = svc.RecordSession(ctx, user.ID, model.RecordSessionRequest{
			Kind: model.SessionKindFocus, StartedAt: now.Add(time.Hour), DurationSeconds: 1500,
		})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation), "future sessions rejected")
	})

	t.Run("Summary", func(t *testing.T) {
		record := func(kind model.SessionKind, at time.Time, seconds int) {
			_, err := svc.RecordSession(ctx, user.ID, model.RecordSessionRequest{Kind: kind, StartedAt: at, DurationSeconds: seconds})
			require.NoError(t, err)
		}
		record(model.SessionKindFocus, now.Add(-2*time.Hour), 1500)
		record(model.SessionKindFocus, now.Add(-time.Hour), 1500)
		record(model.SessionKindShortBreak, now.Add(-30*time.Minute), 300)
		record(model.SessionKindFocus, now.AddDate(0, 0, -2), 3000)
		record(model.SessionKindFocus, now.AddDate(0, 0, -30), 3000)

		summary, err := svc.Summary(ctx, user.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, defaultSummaryDays, summary.Days)
		require.Len(t, summary.Daily, defaultSummaryDays)

		today := summary.Daily[len(summary.Daily)-1]
		assert.Equal(t, "2026-06-10", today.Date)
		assert.Equal(t, 50, today.FocusMinutes)
		assert.Equal(t, 2, today.Sessions)
		assert.Equal(t, 50, summary.Daily[len(summary.Daily)-3].FocusMinutes)
		assert.Equal(t, 100, summary.TotalFocusMinutes)
		assert.Equal(t, 3, summary.TotalSessions)

		_, err = svc.Summary(ctx, user.ID, maxSummaryDays+1)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))

		history, err := svc.ListSessions(ctx, user.ID, 0)
		require.NoError(t, err)
		assert.Len(t, history, 5)
	})
}

func TestPreferencesService(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	catalog, err := sounds.Default()
	require.NoError(t, err)
	publisher := &recordingPublisher{}
	svc := NewPreferencesService(repository.NewPreferencesRepository(db), catalog, publisher)
	user := createUser(t, db, "prefs")

	assert.NotEmpty(t, svc.Sounds())

	prefs, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "system", prefs.Theme)

	_, err = svc.Update(ctx, user.ID, model.UpdatePreferencesRequest{AmbientSound: ptr("jackhammer")})
	assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))
	_, err = svc.Update(ctx, user.ID, model.UpdatePreferencesRequest{Theme: ptr("neon")})
	assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))
	_, err = svc.Update(ctx, user.ID, model.UpdatePreferencesRequest{Layout: json.RawMessage(`{broken`)})
	assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))

	_, err = svc.Update(ctx, user.ID, model.UpdatePreferencesRequest{Theme: ptr("dark"), AmbientSound: ptr("rain")})
	require.NoError(t, err)
	updated, err := svc.Update(ctx, user.ID, model.UpdatePreferencesRequest{AmbientVolume: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Theme, "earlier fields kept")
	assert.Equal(t, "rain", updated.AmbientSound)
	assert.Equal(t, 0, updated.AmbientVolume)

	stored, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AmbientVolume)
	assert.Len(t, publisher.changes("user_preferences"), 2)
}
