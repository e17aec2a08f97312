package repository

import (
	"context"
	"testing"
	"time"

	"github.com/quocanhngo/focushub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNotificationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "reader")

	old := &model.Notification{UserID: user.ID, Type: model.NotificationRoomJoined, Title: "old"}
	require.NoError(t, repo.Create(ctx, old))
	read := &model.Notification{UserID: user.ID, Type: model.NotificationRoomJoined, Title: "read"}
	require.NoError(t, repo.Create(ctx, read))
	ok, err := repo.MarkRead(ctx, user.ID, read.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := repo.List(ctx, user.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, old.ID, list[0].ID, "unread first")
	assert.True(t, list[1].IsRead())

	unread, err := repo.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	n, err := repo.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	other := createUser(t, db, "other")
	ok, err = repo.Delete(ctx, other.ID, old.ID)
	require.NoError(t, err)
	assert.False(t, ok, "cannot delete someone else's notification")
}

func TestPomodoroRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPomodoroRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "timer")

	_, err := repo.GetSettings(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	s := model.DefaultPomodoroSettings(user.ID)
	s.FocusMinutes = 50
	require.NoError(t, repo.UpsertSettings(ctx, s))
	firstID := s.ID

	s2 := model.DefaultPomodoroSettings(user.ID)
	s2.FocusMinutes = 45
	require.NoError(t, repo.UpsertSettings(ctx, s2))
	assert.Equal(t, firstID, s2.ID, "upsert keeps the existing row")
	assert.Equal(t, 45, s2.FocusMinutes)

	created, err := repo.CreateSettingsIfAbsent(ctx, model.DefaultPomodoroSettings(user.ID))
	require.NoError(t, err)
	assert.False(t, created)

	now := time.Now()
	for _, kind := range []model.SessionKind{model.SessionKindFocus, model.SessionKindShortBreak, model.SessionKindFocus} {
		require.NoError(t, repo.CreateSession(ctx, &model.PomodoroSession{
			UserID: user.ID, Kind: kind, StartedAt: now.Add(-time.Hour), DurationSeconds: 1500,
		}))
	}
	focus, err := repo.FocusSessionsSince(ctx, user.ID, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, focus, 2)
}

func TestPreferencesRepository_CreateIfAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPreferencesRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "prefs")

	p := model.DefaultPreferences(user.ID)
	p.Theme = "dark"
	created, err := repo.CreateIfAbsent(ctx, p)
	require.NoError(t, err)
	assert.True(t, created)

	again := model.DefaultPreferences(user.ID)
	created, err = repo.CreateIfAbsent(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
}

func TestChatRepository_Cursor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "talker")
	room := createRoom(t, db, user)

	base := time.Now().Add(-time.Hour)
	var msgs []*model.ChatMessage
	for i := 0; i < 5; i++ {
		m := &model.ChatMessage{RoomID: room.ID, UserID: user.ID, Content: "m"}
		m.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, m))
		msgs = append(msgs, m)
	}

	page, err := repo.GetRoomMessages(ctx, room.ID, nil, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, msgs[4].ID, page[0].ID)
	assert.Equal(t, "talker", page[0].User.Name)

	page, err = repo.GetRoomMessages(ctx, room.ID, &page[1].ID, 10)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, msgs[2].ID, page[0].ID)
}

func TestJournalRepository_ExistsOnDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJournalRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "writer")

	day := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &model.JournalEntry{UserID: user.ID, Title: "Pi day", EntryDate: day}))

	ok, err := repo.ExistsOnDay(ctx, user.ID, day.Add(10*time.Hour), "Pi day")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsOnDay(ctx, user.ID, day.Add(24*time.Hour), "Pi day")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPlannerRepository_Calendar(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlannerRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "planner")

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	inside := from.Add(36 * time.Hour)
	outside := to.Add(time.Hour)

	require.NoError(t, repo.CreateTask(ctx, &model.Task{UserID: user.ID, Title: "in", DueAt: &inside}))
	require.NoError(t, repo.CreateTask(ctx, &model.Task{UserID: user.ID, Title: "out", DueAt: &outside}))
	require.NoError(t, repo.CreateTask(ctx, &model.Task{UserID: user.ID, Title: "none"}))
	require.NoError(t, repo.CreateGoal(ctx, &model.Goal{UserID: user.ID, Title: "g", TargetDate: &inside}))

	tasks, err := repo.TasksDueBetween(ctx, user.ID, from, to)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "in", tasks[0].Title)

	goals, err := repo.GoalsTargetingBetween(ctx, user.ID, from, to)
	require.NoError(t, err)
	assert.Len(t, goals, 1)

	exists, err := repo.TaskExists(ctx, user.ID, "none", nil)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.TaskExists(ctx, user.ID, "in", &inside)
	require.NoError(t, err)
	assert.True(t, exists)
}
