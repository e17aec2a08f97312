package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAccountRepository_DeleteUserData(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	doomed := createUser(t, db, "doomed")
	friend := createUser(t, db, "friend")

	owned := createRoom(t, db, doomed, friend)
	friendsRoom := createRoom(t, db, friend, doomed)

	hosted := &model.Match{HostID: doomed.ID, Status: model.MatchStatusLobby, TotalRounds: 1, RoundSeconds: 20,
		Players: []model.MatchPlayer{{UserID: doomed.ID}, {UserID: friend.ID}}}
	require.NoError(t, db.Create(hosted).Error)
	joined := &model.Match{RoomID: &friendsRoom.ID, HostID: friend.ID, Status: model.MatchStatusInProgress, TotalRounds: 1, RoundSeconds: 20,
		Players: []model.MatchPlayer{{UserID: friend.ID}, {UserID: doomed.ID}}}
	require.NoError(t, db.Create(joined).Error)
	round := &model.Round{MatchID: joined.ID, Number: 1, Question: "q", Answer: "a", Status: model.RoundStatusActive}
	require.NoError(t, db.Create(round).Error)
	require.NoError(t, db.Create(&model.Answer{RoundID: round.ID, MatchID: joined.ID, UserID: doomed.ID, Passed: true}).Error)
	require.NoError(t, db.Create(&model.Answer{RoundID: round.ID, MatchID: joined.ID, UserID: friend.ID, Passed: true}).Error)

	cat := &model.Category{UserID: doomed.ID, RoomID: &friendsRoom.ID, Name: "Shared"}
	require.NoError(t, db.Create(cat).Error)
	friendCard := &model.Flashcard{UserID: friend.ID, CategoryID: &cat.ID, Front: "f", Back: "b"}
	require.NoError(t, db.Create(friendCard).Error)

	require.NoError(t, db.Create(&model.ChatMessage{RoomID: friendsRoom.ID, UserID: doomed.ID, Content: "bye"}).Error)
	require.NoError(t, db.Create(&model.JournalEntry{UserID: doomed.ID, Title: "t", EntryDate: time.Now()}).Error)
	require.NoError(t, db.Create(&model.Goal{UserID: doomed.ID, Title: "g"}).Error)
	require.NoError(t, db.Create(&model.Task{UserID: doomed.ID, Title: "t"}).Error)
	require.NoError(t, db.Create(model.DefaultPomodoroSettings(doomed.ID)).Error)
	require.NoError(t, db.Create(model.DefaultPreferences(doomed.ID)).Error)
	require.NoError(t, db.Create(&model.Notification{UserID: doomed.ID, Type: model.NotificationRoomJoined, Title: "x"}).Error)

	require.NoError(t, repo.DeleteUserData(ctx, doomed.ID))

	count := func(m interface{}, query string, args ...interface{}) int64 {
		var n int64
		require.NoError(t, db.Unscoped().Model(m).Where(query, args...).Count(&n).Error)
		return n
	}

	assert.Zero(t, count(&model.User{}, "id = ?", doomed.ID))
	assert.Zero(t, count(&model.Room{}, "id = ?", owned.ID))
	assert.Zero(t, count(&model.RoomMember{}, "user_id = ?", doomed.ID))
	assert.Zero(t, count(&model.Match{}, "id = ?", hosted.ID))
	assert.Zero(t, count(&model.MatchPlayer{}, "user_id = ?", doomed.ID))
	assert.Zero(t, count(&model.Answer{}, "user_id = ?", doomed.ID))
	assert.Zero(t, count(&model.ChatMessage{}, "user_id = ?", doomed.ID))
	assert.Zero(t, count(&model.Category{}, "user_id = ?", doomed.ID))
	assert.Zero(t, count(&model.JournalEntry{}, "user_id = ?", doomed.ID))
	assert.Zero(t, count(&model.Goal{}, "user_id = ?", doomed.ID))
	assert.Zero(t, count(&model.Task{}, "user_id = ?", doomed.ID))
	assert.Zero(t, count(&model.PomodoroSettings{}, "user_id = ?", doomed.ID))
	assert.Zero(t, count(&model.UserPreferences{}, "user_id = ?", doomed.ID))
	assert.Zero(t, count(&model.Notification{}, "user_id = ?", doomed.ID))

	// other people's data survives
	assert.Equal(t, int64(1), count(&model.User{}, "id = ?", friend.ID))
	assert.Equal(t, int64(1), count(&model.Room{}, "id = ?", friendsRoom.ID))
	assert.Equal(t, int64(1), count(&model.Match{}, "id = ?", joined.ID))
	assert.Equal(t, int64(1), count(&model.Answer{}, "user_id = ?", friend.ID))

	var card model.Flashcard
	require.NoError(t, db.First(&card, "id = ?", friendCard.ID).Error)
	assert.Nil(t, card.CategoryID)
}

func TestAccountRepository_DeleteUserDataRollsBackOnError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "answers"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = NewAccountRepository(db).DeleteUserData(context.Background(), uuid.New())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
