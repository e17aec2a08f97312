package service

import (
	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
)

// Publisher delivers realtime events. *ws.Hub implements it.
type Publisher interface {
	SendToUser(userID uuid.UUID, event *model.WSEvent)
	SendToUsers(userIDs []uuid.UUID, event *model.WSEvent)
	SendToRoom(roomID uuid.UUID, event *model.WSEvent)
}

type nopPublisher struct{}

func (nopPublisher) SendToUser(uuid.UUID, *model.WSEvent)    {}
func (nopPublisher) SendToUsers([]uuid.UUID, *model.WSEvent) {}
func (nopPublisher) SendToRoom(uuid.UUID, *model.WSEvent)    {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// publishChange announces a row change to the room when the row is room
// scoped, otherwise to its owner
func publishChange(p Publisher, userID uuid.UUID, roomID *uuid.UUID, table, action string, record interface{}) {
	event := &model.WSEvent{
		Type: model.WSEventChange,
		Payload: model.ChangeEvent{
			Table:  table,
			Action: action,
			RoomID: roomID,
			Record: record,
		},
	}
	if roomID != nil {
		p.SendToRoom(*roomID, event)
		return
	}
	p.SendToUser(userID, event)
}

// recordRef identifies a changed row when the full record is not sent
type recordRef struct {
	ID uuid.UUID `json:"id"`
}
