package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.com", AuthProvider: model.AuthProviderEmail}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createRoom(t *testing.T, db *gorm.DB, owner *model.User, members ...*model.User) *model.Room {
	t.Helper()
	room := &model.Room{
		Name:       "Study group",
		OwnerID:    owner.ID,
		InviteCode: uuid.NewString()[:12],
		MaxMembers: 20,
		Members:    []model.RoomMember{{UserID: owner.ID, Role: model.RoomRoleOwner}},
	}
	for _, m := range members {
		room.Members = append(room.Members, model.RoomMember{UserID: m.ID, Role: model.RoomRoleMember})
	}
	require.NoError(t, NewRoomRepository(db).Create(context.Background(), room))
	return room
}
