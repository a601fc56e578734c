// Package service implements the application's use cases on top of the
// storage interfaces: room directory, expense ledger, settlement queries,
// and user bookkeeping.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/splitroom/splitroom/internal/access"
	"github.com/splitroom/splitroom/internal/apperr"
	"github.com/splitroom/splitroom/internal/models"
	"github.com/splitroom/splitroom/internal/settlement"
	"github.com/splitroom/splitroom/internal/storage"
)

// PaymentMethodProvider supplies the ordered payment-method names used to
// seed a personal room's roster. Satisfied by storage.UserStore.
type PaymentMethodProvider interface {
	ListPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error)
}

// RoomService owns room identity, membership, admin rights, and the join
// passcode, and answers settlement queries over a room's expenses.
type RoomService struct {
	rooms    storage.RoomStore
	expenses storage.ExpenseStore
	methods  PaymentMethodProvider
	logger   *slog.Logger
}

// NewRoomService creates a RoomService with the given collaborators.
func NewRoomService(rooms storage.RoomStore, expenses storage.ExpenseStore, methods PaymentMethodProvider, logger *slog.Logger) *RoomService {
	return &RoomService{rooms: rooms, expenses: expenses, methods: methods, logger: logger}
}

// CreateRoomInput carries the fields for room creation.
type CreateRoomInput struct {
	Code     string          `json:"code"`
	Passcode string          `json:"passcode"`
	Kind     models.RoomKind `json:"kind"`
	Notes    string          `json:"notes"`
	Members  []string        `json:"members"`
}

// RoomPatch is a presence-marked partial update. A nil field keeps the
// existing value; a non-nil field overwrites it, including with an empty
// value where that is legal.
type RoomPatch struct {
	Code               *string   `json:"code"`
	DisplayName        *string   `json:"displayName"`
	Notes              *string   `json:"notes"`
	Title              *string   `json:"title"`
	Organizer          *string   `json:"organizer"`
	OrganizerPaymentID *string   `json:"organizerPaymentId"`
	Members            *[]string `json:"members"`
}

// BestOrganizerResult is the settlement summary for a room.
type BestOrganizerResult struct {
	// BestOrganizer is the participant with the maximum net contribution,
	// or nil when the room has no expenses.
	BestOrganizer *string `json:"bestOrganizer"`

	// NetContribution is the best organizer's paid-minus-split balance in
	// cents. Zero when there is no best organizer.
	NetContribution int64 `json:"netContribution"`

	// Contributions is the full per-participant breakdown in first-seen
	// order.
	Contributions []settlement.Contribution `json:"contributions"`
}

// List returns the rooms the user participates in, each annotated with the
// caller's admin status.
func (s *RoomService) List(ctx context.Context, userID string) ([]models.RoomSummary, error) {
	rooms, err := s.rooms.ListRoomsForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list rooms", err)
	}

	summaries := make([]models.RoomSummary, len(rooms))
	for i, room := range rooms {
		summaries[i] = models.RoomSummary{
			ID:          room.ID,
			Code:        room.Code,
			Kind:        room.Kind,
			DisplayName: room.DisplayName,
			IsAdmin:     room.IsAdmin(userID),
		}
	}

	return summaries, nil
}

// Create creates a new room owned by userID. Personal rooms ignore the
// explicit member list and take their roster from the creator's
// payment-method names instead.
func (s *RoomService) Create(ctx context.Context, userID string, in CreateRoomInput) (*models.Room, error) {
	if in.Code == "" {
		return nil, apperr.Validation("code is required")
	}
	if len(in.Code) < 3 || len(in.Code) > 64 {
		return nil, apperr.Validation("code must be 3-64 characters")
	}
	if in.Passcode == "" {
		return nil, apperr.Validation("passcode is required")
	}
	kind := in.Kind
	if kind == "" {
		kind = models.RoomKindPersonal
	}
	if !kind.Valid() {
		return nil, apperr.Validation("kind must be 'personal' or 'group'")
	}

	members := in.Members
	if kind == models.RoomKindPersonal {
		if _, err := s.rooms.FindPersonalRoom(ctx, userID, in.Code); err == nil {
			return nil, apperr.InvalidOperation("a personal room with this code already exists")
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Internal("failed to check for existing personal room", err)
		}

		methods, err := s.methods.ListPaymentMethods(ctx, userID)
		if err != nil {
			return nil, apperr.Internal("failed to load payment methods", err)
		}
		members = nil
		for _, m := range methods {
			members = append(members, m.Name)
		}
	}

	room := &models.Room{
		Code:               in.Code,
		Kind:               kind,
		Passcode:           in.Passcode,
		DisplayName:        in.Code,
		Notes:              in.Notes,
		Members:            members,
		ParticipantUserIDs: []string{userID},
		CreatorUserID:      userID,
	}

	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.InvalidOperation("a personal room with this code already exists")
		}
		return nil, apperr.Internal("failed to create room", err)
	}

	s.logger.Info("room created",
		"room_id", room.ID,
		"kind", room.Kind,
		"creator", userID,
	)

	return room, nil
}

// Get returns the room if the caller is a participant.
func (s *RoomService) Get(ctx context.Context, userID, roomID string) (*models.Room, error) {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !access.CanReadRoom(room, userID) {
		return nil, apperr.Forbidden("you are not a member of this room")
	}
	return room, nil
}

// Update applies a partial patch to the room's metadata. Admin only.
func (s *RoomService) Update(ctx context.Context, userID, roomID string, patch RoomPatch) (*models.Room, error) {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !access.CanAdministerRoom(room, userID) {
		return nil, apperr.Forbidden("only the room creator can edit the room")
	}

	if patch.Code != nil {
		if len(*patch.Code) < 3 || len(*patch.Code) > 64 {
			return nil, apperr.Validation("code must be 3-64 characters")
		}
		room.Code = *patch.Code
	}
	if patch.DisplayName != nil {
		room.DisplayName = *patch.DisplayName
	}
	if patch.Notes != nil {
		room.Notes = *patch.Notes
	}
	if patch.Title != nil {
		room.Title = *patch.Title
	}
	if patch.Organizer != nil {
		room.Organizer = *patch.Organizer
	}
	if patch.OrganizerPaymentID != nil {
		room.OrganizerPaymentID = *patch.OrganizerPaymentID
	}
	if patch.Members != nil {
		room.Members = *patch.Members
	}
	room.UpdatedBy = userID

	if err := s.rooms.UpdateRoom(ctx, room); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.InvalidOperation("a personal room with this code already exists")
		}
		return nil, apperr.Internal("failed to update room", err)
	}

	s.logger.Info("room updated", "room_id", roomID, "editor", userID)
	return room, nil
}

// Join adds the caller to a group room after verifying the passcode.
// Re-joining an already-joined room is a no-op.
func (s *RoomService) Join(ctx context.Context, userID, roomID, passcode string) (*models.Room, error) {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	// Personal rooms are never joinable, regardless of the passcode.
	if room.Kind == models.RoomKindPersonal {
		return nil, apperr.InvalidOperation("cannot join a personal room")
	}
	if room.Passcode != passcode {
		return nil, apperr.Forbidden("incorrect passcode")
	}

	if !room.HasParticipant(userID) {
		if err := s.rooms.AddParticipant(ctx, roomID, userID); err != nil {
			return nil, apperr.Internal("failed to join room", err)
		}
		if err := s.rooms.TouchRoom(ctx, roomID, userID, 0); err != nil {
			return nil, apperr.Internal("failed to update room metadata", err)
		}
		room.ParticipantUserIDs = append(room.ParticipantUserIDs, userID)
		s.logger.Info("user joined room", "room_id", roomID, "user_id", userID)
	}

	return room, nil
}

// Leave removes the caller from the room. The creator can never leave.
// Leaving a room the caller is not in is a no-op.
func (s *RoomService) Leave(ctx context.Context, userID, roomID string) error {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.CreatorUserID == userID {
		return apperr.InvalidOperation("the room creator cannot leave the room")
	}

	if room.HasParticipant(userID) {
		if err := s.rooms.RemoveParticipant(ctx, roomID, userID); err != nil {
			return apperr.Internal("failed to leave room", err)
		}
		if err := s.rooms.TouchRoom(ctx, roomID, userID, 0); err != nil {
			return apperr.Internal("failed to update room metadata", err)
		}
		s.logger.Info("user left room", "room_id", roomID, "user_id", userID)
	}

	return nil
}

// ChangePasscode replaces the room's join passcode. Admin only.
func (s *RoomService) ChangePasscode(ctx context.Context, userID, roomID, newPasscode string) error {
	if newPasscode == "" {
		return apperr.Validation("new passcode is required")
	}

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !access.CanAdministerRoom(room, userID) {
		return apperr.Forbidden("only the room creator can change the passcode")
	}

	room.Passcode = newPasscode
	room.UpdatedBy = userID
	if err := s.rooms.UpdateRoom(ctx, room); err != nil {
		return apperr.Internal("failed to change passcode", err)
	}

	s.logger.Info("room passcode changed", "room_id", roomID, "editor", userID)
	return nil
}

// Delete hard-deletes the room. Admin only. Expenses of the room are left
// in place with a dangling room reference.
func (s *RoomService) Delete(ctx context.Context, userID, roomID string) error {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !access.CanAdministerRoom(room, userID) {
		return apperr.Forbidden("only the room creator can delete the room")
	}

	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("room not found")
		}
		return apperr.Internal("failed to delete room", err)
	}

	s.logger.Info("room deleted", "room_id", roomID, "user_id", userID)
	return nil
}

// BestOrganizer recomputes the room's settlement summary from the full
// expense set. Membership required; every call re-reads the source records.
func (s *RoomService) BestOrganizer(ctx context.Context, userID, roomID string) (*BestOrganizerResult, error) {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !access.CanReadRoom(room, userID) {
		return nil, apperr.Forbidden("you are not a member of this room")
	}

	expenses, err := s.expenses.ListExpensesByRoom(ctx, roomID)
	if err != nil {
		return nil, apperr.Internal("failed to load expenses", err)
	}

	result := &BestOrganizerResult{
		Contributions: settlement.NetContributions(expenses),
	}
	if best, ok := settlement.Best(result.Contributions); ok {
		name := best.Name
		result.BestOrganizer = &name
		result.NetContribution = best.Net()
	}

	s.logger.Info("best organizer computed",
		"room_id", roomID,
		"expenses", len(expenses),
		"participants", len(result.Contributions),
	)

	return result, nil
}

func (s *RoomService) getRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("room not found")
		}
		return nil, apperr.Internal("failed to get room", err)
	}
	return room, nil
}
