package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitroom/splitroom/internal/models"
	"github.com/splitroom/splitroom/internal/storage"
)

// CreateRoom persists a new room, its roster, and its participant set.
func (s *SQLiteStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if room.CreatedAt == 0 {
		room.CreatedAt = now
	}
	if room.UpdatedAt == 0 {
		room.UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO rooms (id, code, kind, passcode, display_name, notes, title,
		 organizer, organizer_payment_id, creator_user_id, updated_by,
		 last_expense_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		room.ID, room.Code, string(room.Kind), room.Passcode, room.DisplayName,
		room.Notes, room.Title, room.Organizer, room.OrganizerPaymentID,
		room.CreatorUserID, room.UpdatedBy, room.LastExpenseAt,
		room.CreatedAt, room.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}

	if err := insertRoomMembers(ctx, tx, room.ID, room.Members); err != nil {
		return err
	}

	for i, userID := range room.ParticipantUserIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO room_participants (room_id, user_id, position) VALUES (?, ?, ?)",
			room.ID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRoom retrieves a room by ID, including roster and participants.
func (s *SQLiteStore) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := s.scanRoom(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = ?", roomID)
	if err != nil {
		return nil, err
	}
	if err := s.loadRoomChildren(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// FindPersonalRoom looks up the creator's personal room with the given code.
func (s *SQLiteStore) FindPersonalRoom(ctx context.Context, creatorUserID, code string) (*models.Room, error) {
	room, err := s.scanRoom(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE kind = 'personal' AND creator_user_id = ? AND code = ?",
		creatorUserID, code,
	)
	if err != nil {
		return nil, err
	}
	if err := s.loadRoomChildren(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// ListRoomsForUser returns all rooms where userID is a participant, ordered
// by creation time.
func (s *SQLiteStore) ListRoomsForUser(ctx context.Context, userID string) ([]*models.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms
		 WHERE id IN (SELECT room_id FROM room_participants WHERE user_id = ?)
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := scanRoomRow(rows, room); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}

	for _, room := range rooms {
		if err := s.loadRoomChildren(ctx, room); err != nil {
			return nil, err
		}
	}

	return rooms, nil
}

// UpdateRoom rewrites the room's scalar fields and member roster.
func (s *SQLiteStore) UpdateRoom(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE rooms SET code = ?, passcode = ?, display_name = ?, notes = ?,
		 title = ?, organizer = ?, organizer_payment_id = ?, updated_by = ?,
		 last_expense_at = ?, updated_at = ?
		 WHERE id = ?`,
		room.Code, room.Passcode, room.DisplayName, room.Notes, room.Title,
		room.Organizer, room.OrganizerPaymentID, room.UpdatedBy,
		room.LastExpenseAt, room.UpdatedAt, room.ID,
	)
	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM room_members WHERE room_id = ?", room.ID); err != nil {
		return fmt.Errorf("failed to clear room members: %w", err)
	}
	if err := insertRoomMembers(ctx, tx, room.ID, room.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AddParticipant grants userID access to the room. No-op if already present.
func (s *SQLiteStore) AddParticipant(ctx context.Context, roomID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO room_participants (room_id, user_id, position)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM room_participants WHERE room_id = ?))`,
		roomID, userID, roomID,
	)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// RemoveParticipant revokes userID's access. No-op if not a participant.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, roomID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM room_participants WHERE room_id = ? AND user_id = ?",
		roomID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

// TouchRoom refreshes the room's editor metadata after an expense
// mutation. A zero lastExpenseAt leaves the existing value untouched.
func (s *SQLiteStore) TouchRoom(ctx context.Context, roomID, editorUserID string, lastExpenseAt int64) error {
	now := time.Now().Unix()
	var err error
	if lastExpenseAt > 0 {
		_, err = s.db.ExecContext(ctx,
			"UPDATE rooms SET updated_by = ?, last_expense_at = ?, updated_at = ? WHERE id = ?",
			editorUserID, lastExpenseAt, now, roomID,
		)
	} else {
		_, err = s.db.ExecContext(ctx,
			"UPDATE rooms SET updated_by = ?, updated_at = ? WHERE id = ?",
			editorUserID, now, roomID,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to touch room: %w", err)
	}
	return nil
}

// AddMemberToPersonalRooms appends name to the roster of every personal room
// created by creatorUserID.
func (s *SQLiteStore) AddMemberToPersonalRooms(ctx context.Context, creatorUserID, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO room_members (room_id, position, name)
		 SELECT r.id,
		        (SELECT COALESCE(MAX(m.position), -1) + 1 FROM room_members m WHERE m.room_id = r.id),
		        ?
		 FROM rooms r WHERE r.kind = 'personal' AND r.creator_user_id = ?`,
		name, creatorUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to add member to personal rooms: %w", err)
	}
	return nil
}

// RemoveMemberFromPersonalRooms removes name from the roster of every
// personal room created by creatorUserID.
func (s *SQLiteStore) RemoveMemberFromPersonalRooms(ctx context.Context, creatorUserID, name string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM room_members WHERE name = ? AND room_id IN
		 (SELECT id FROM rooms WHERE kind = 'personal' AND creator_user_id = ?)`,
		name, creatorUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member from personal rooms: %w", err)
	}
	return nil
}

// DeleteRoom hard-deletes the room. Expenses keep their dangling room_id.
func (s *SQLiteStore) DeleteRoom(ctx context.Context, roomID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", roomID)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const roomColumns = `id, code, kind, passcode, display_name, notes, title,
	organizer, organizer_payment_id, creator_user_id, updated_by,
	last_expense_at, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoomRow(row rowScanner, room *models.Room) error {
	var kind string
	err := row.Scan(&room.ID, &room.Code, &kind, &room.Passcode,
		&room.DisplayName, &room.Notes, &room.Title, &room.Organizer,
		&room.OrganizerPaymentID, &room.CreatorUserID, &room.UpdatedBy,
		&room.LastExpenseAt, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to scan room: %w", err)
	}
	room.Kind = models.RoomKind(kind)
	return nil
}

func (s *SQLiteStore) scanRoom(ctx context.Context, query string, args ...any) (*models.Room, error) {
	room := &models.Room{}
	err := scanRoomRow(s.db.QueryRowContext(ctx, query, args...), room)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *SQLiteStore) loadRoomChildren(ctx context.Context, room *models.Room) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM room_members WHERE room_id = ? ORDER BY position",
		room.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get room members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan member: %w", err)
		}
		room.Members = append(room.Members, name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate members: %w", err)
	}

	pRows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM room_participants WHERE room_id = ? ORDER BY position",
		room.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer pRows.Close()

	for pRows.Next() {
		var userID string
		if err := pRows.Scan(&userID); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		room.ParticipantUserIDs = append(room.ParticipantUserIDs, userID)
	}
	if err := pRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	return nil
}

func insertRoomMembers(ctx context.Context, tx *sql.Tx, roomID string, members []string) error {
	for i, name := range members {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO room_members (room_id, position, name) VALUES (?, ?, ?)",
			roomID, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert room member: %w", err)
		}
	}
	return nil
}
