package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
)

const (
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteCodeLength   = 8
	defaultMaxMembers  = 20
	inviteCodeAttempts = 3
)

// roomUnsubscriber is implemented by publishers that track room subscriptions
type roomUnsubscriber interface {
	UnsubscribeUser(userID, roomID uuid.UUID)
}

// RoomService handles rooms and their memberships
type RoomService struct {
	roomRepo      *repository.RoomRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
	publisher     Publisher
}

func NewRoomService(
	roomRepo *repository.RoomRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
	publisher Publisher,
) *RoomService {
	return &RoomService{
		roomRepo:      roomRepo,
		userRepo:      userRepo,
		notifications: notifications,
		publisher:     publisherOrNop(publisher),
	}
}

// requireMember returns FORBIDDEN unless userID belongs to the room
func requireMember(ctx context.Context, rooms *repository.RoomRepository, roomID, userID uuid.UUID) error {
	ok, err := rooms.IsMember(ctx, roomID, userID)
	if err != nil {
		return model.NewInternalError(err)
	}
	if !ok {
		return model.NewForbiddenError("you are not a member of this room")
	}
	return nil
}

// CreateRoom creates a room with the creator as its owner
func (s *RoomService) CreateRoom(ctx context.Context, ownerID uuid.UUID, req model.CreateRoomRequest) (*model.Room, error) {
	isPrivate := true
	if req.IsPrivate != nil {
		isPrivate = *req.IsPrivate
	}
	maxMembers := req.MaxMembers
	if maxMembers == 0 {
		maxMembers = defaultMaxMembers
	}

	var room *model.Room
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := gonanoid.Generate(inviteCodeAlphabet, inviteCodeLength)
		if err != nil {
			return nil, model.NewInternalError(fmt.Errorf("generate invite code: %w", err))
		}

		room = &model.Room{
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
			OwnerID:     ownerID,
			InviteCode:  code,
			IsPrivate:   isPrivate,
			MaxMembers:  maxMembers,
			Members: []model.RoomMember{
				{UserID: ownerID, Role: model.RoomRoleOwner},
			},
		}
		err = s.roomRepo.Create(ctx, room)
		if err == nil {
			break
		}
		if !isDuplicate(err) {
			return nil, model.NewInternalError(fmt.Errorf("create room: %w", err))
		}
		room = nil
	}
	if room == nil {
		return nil, model.NewInternalError(fmt.Errorf("could not allocate a unique invite code"))
	}

	created, err := s.roomRepo.FindByID(ctx, room.ID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	publishChange(s.publisher, ownerID, nil, "rooms", model.ChangeInsert, created)
	return created, nil
}

// ListMyRooms returns the rooms the user belongs to
func (s *RoomService) ListMyRooms(ctx context.Context, userID uuid.UUID) ([]model.Room, error) {
	rooms, err := s.roomRepo.GetUserRooms(ctx, userID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	return rooms, nil
}

// GetRoom returns a room with its members. Only members may see it.
func (s *RoomService) GetRoom(ctx context.Context, roomID, userID uuid.UUID) (*model.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return nil, lookupError(err, "Room", roomID)
	}
	if err := requireMember(ctx, s.roomRepo, roomID, userID); err != nil {
		return nil, err
	}
	return room, nil
}

// UpdateRoom changes room settings. Owner only.
func (s *RoomService) UpdateRoom(ctx context.Context, roomID, userID uuid.UUID, req model.UpdateRoomRequest) (*model.Room, error) {
	room, err := s.ownedRoom(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsPrivate != nil {
		updates["is_private"] = *req.IsPrivate
	}
	if req.MaxMembers != nil {
		if int64(*req.MaxMembers) < room.MemberCount {
			return nil, model.NewValidationError("max_members cannot be below the current member count")
		}
		updates["max_members"] = *req.MaxMembers
	}

	if len(updates) > 0 {
		if err := s.roomRepo.Update(ctx, roomID, updates); err != nil {
			return nil, model.NewInternalError(err)
		}
	}

	updated, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	publishChange(s.publisher, userID, &roomID, "rooms", model.ChangeUpdate, updated)
	return updated, nil
}

// DeleteRoom removes the room and everything scoped to it. Owner only.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID, userID uuid.UUID) error {
	room, err := s.ownedRoom(ctx, roomID, userID)
	if err != nil {
		return err
	}

	memberIDs := make([]uuid.UUID, 0, len(room.Members))
	for _, m := range room.Members {
		memberIDs = append(memberIDs, m.UserID)
	}

	if err := s.roomRepo.Delete(ctx, roomID); err != nil {
		return model.NewInternalError(fmt.Errorf("delete room: %w", err))
	}

	s.publisher.SendToUsers(memberIDs, &model.WSEvent{
		Type:    model.WSEventChange,
		Payload: model.ChangeEvent{Table: "rooms", Action: model.ChangeDelete, RoomID: &roomID, Record: recordRef{ID: roomID}},
	})
	if u, ok := s.publisher.(roomUnsubscriber); ok {
		for _, id := range memberIDs {
			u.UnsubscribeUser(id, roomID)
		}
	}
	return nil
}

// JoinRoom adds the caller to the room behind an invite code. Joining a room
// the caller already belongs to succeeds with Joined=false.
func (s *RoomService) JoinRoom(ctx context.Context, userID uuid.UUID, req model.JoinRoomRequest) (*model.JoinRoomResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewUnauthorizedError("user no longer exists")
		}
		return nil, model.NewInternalError(err)
	}

	code := strings.ToUpper(strings.TrimSpace(req.InviteCode))
	room, err := s.roomRepo.FindByInviteCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return nil, &model.AppError{Code: model.ErrCodeNotFound, Message: "no room with that invite code"}
		}
		return nil, model.NewInternalError(err)
	}

	member, err := s.roomRepo.IsMember(ctx, room.ID, userID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	if member {
		full, err := s.roomRepo.FindByID(ctx, room.ID)
		if err != nil {
			return nil, model.NewInternalError(err)
		}
		return &model.JoinRoomResponse{Room: *full, Joined: false}, nil
	}

	count, err := s.roomRepo.CountMembers(ctx, room.ID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	if room.MaxMembers > 0 && count >= int64(room.MaxMembers) {
		return nil, model.NewConflictError("room is full")
	}

	membership := &model.RoomMember{RoomID: room.ID, UserID: userID, Role: model.RoomRoleMember}
	if err := s.roomRepo.AddMember(ctx, membership); err != nil {
		if isDuplicate(err) {
			full, findErr := s.roomRepo.FindByID(ctx, room.ID)
			if findErr != nil {
				return nil, model.NewInternalError(findErr)
			}
			return &model.JoinRoomResponse{Room: *full, Joined: false}, nil
		}
		return nil, model.NewInternalError(fmt.Errorf("add member: %w", err))
	}

	full, err := s.roomRepo.FindByID(ctx, room.ID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}

	membership.User = *user
	roomID := room.ID
	publishChange(s.publisher, userID, &roomID, "room_members", model.ChangeInsert, membership)
	publishChange(s.publisher, userID, nil, "rooms", model.ChangeInsert, full)

	if s.notifications != nil && room.OwnerID != userID {
		_, err := s.notifications.Notify(ctx, room.OwnerID, model.NotificationRoomJoined,
			"New member",
			fmt.Sprintf("%s joined %s", user.Name, room.Name),
			map[string]string{"room_id": room.ID.String(), "user_id": userID.String()},
		)
		if err != nil {
			slog.WarnContext(ctx, "failed to notify room owner", "room_id", room.ID, "error", err)
		}
	}

	return &model.JoinRoomResponse{Room: *full, Joined: true}, nil
}

// LeaveRoom removes the caller from a room. The owner must delete the room instead.
func (s *RoomService) LeaveRoom(ctx context.Context, roomID, userID uuid.UUID) error {
	member, err := s.roomRepo.GetMember(ctx, roomID, userID)
	if err != nil {
		if isNotFound(err) {
			return model.NewForbiddenError("you are not a member of this room")
		}
		return model.NewInternalError(err)
	}
	if member.Role == model.RoomRoleOwner {
		return model.NewValidationError("the owner cannot leave the room; delete it instead")
	}
	return s.dropMember(ctx, roomID, userID)
}

// ListMembers returns the members of a room the caller belongs to
func (s *RoomService) ListMembers(ctx context.Context, roomID, userID uuid.UUID) ([]model.RoomMember, error) {
	if err := requireMember(ctx, s.roomRepo, roomID, userID); err != nil {
		return nil, err
	}
	members, err := s.roomRepo.ListMembers(ctx, roomID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	return members, nil
}

// RemoveMember kicks a member out. Owner only.
func (s *RoomService) RemoveMember(ctx context.Context, roomID, ownerID, memberID uuid.UUID) error {
	if _, err := s.ownedRoom(ctx, roomID, ownerID); err != nil {
		return err
	}
	if memberID == ownerID {
		return model.NewValidationError("the owner cannot remove themselves")
	}
	ok, err := s.roomRepo.IsMember(ctx, roomID, memberID)
	if err != nil {
		return model.NewInternalError(err)
	}
	if !ok {
		return model.NewNotFoundError("Member", memberID)
	}
	return s.dropMember(ctx, roomID, memberID)
}

func (s *RoomService) dropMember(ctx context.Context, roomID, userID uuid.UUID) error {
	if err := s.roomRepo.RemoveMember(ctx, roomID, userID); err != nil {
		return model.NewInternalError(err)
	}

	if u, ok := s.publisher.(roomUnsubscriber); ok {
		u.UnsubscribeUser(userID, roomID)
	}
	publishChange(s.publisher, userID, &roomID, "room_members", model.ChangeDelete, map[string]uuid.UUID{"room_id": roomID, "user_id": userID})
	publishChange(s.publisher, userID, nil, "rooms", model.ChangeDelete, recordRef{ID: roomID})
	return nil
}

// ownedRoom loads a room and checks the caller owns it
func (s *RoomService) ownedRoom(ctx context.Context, roomID, userID uuid.UUID) (*model.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return nil, lookupError(err, "Room", roomID)
	}
	if room.OwnerID != userID {
		return nil, model.NewForbiddenError("only the room owner can do this")
	}
	return room, nil
}
