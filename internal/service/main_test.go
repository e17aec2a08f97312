package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
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
		InviteCode: uuid.NewString()[:8],
		MaxMembers: 20,
		Members:    []model.RoomMember{{UserID: owner.ID, Role: model.RoomRoleOwner}},
	}
	for _, m := range members {
		room.Members = append(room.Members, model.RoomMember{UserID: m.ID, Role: model.RoomRoleMember})
	}
	require.NoError(t, repository.NewRoomRepository(db).Create(context.Background(), room))
	return room
}

type sentEvent struct {
	userIDs []uuid.UUID
	roomID  *uuid.UUID
	event   *model.WSEvent
}

// recordingPublisher captures hub traffic
type recordingPublisher struct {
	mu     sync.Mutex
	events []sentEvent
}

func (p *recordingPublisher) SendToUser(userID uuid.UUID, event *model.WSEvent) {
	p.record(sentEvent{userIDs: []uuid.UUID{userID}, event: event})
}

func (p *recordingPublisher) SendToUsers(userIDs []uuid.UUID, event *model.WSEvent) {
	p.record(sentEvent{userIDs: userIDs, event: event})
}

func (p *recordingPublisher) SendToRoom(roomID uuid.UUID, event *model.WSEvent) {
	p.record(sentEvent{roomID: &roomID, event: event})
}

func (p *recordingPublisher) record(e sentEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

// ofType returns the captured events with the given type
func (p *recordingPublisher) ofType(eventType string) []sentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []sentEvent
	for _, e := range p.events {
		if e.event.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// changes returns change events for one table
func (p *recordingPublisher) changes(table string) []model.ChangeEvent {
	var out []model.ChangeEvent
	for _, e := range p.ofType(model.WSEventChange) {
		if c, ok := e.event.Payload.(model.ChangeEvent); ok && c.Table == table {
			out = append(out, c)
		}
	}
	return out
}
