// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitroom/splitroom/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (username, or the per-creator personal room code).
var ErrDuplicate = errors.New("duplicate record")

// RoomStore defines the persistence operations for rooms.
// The service layer performs read-merge-write for partial updates;
// UpdateRoom always writes the full record.
type RoomStore interface {
	// CreateRoom persists a new room. The room.ID and timestamp fields are
	// populated by the store if unset. Returns ErrDuplicate for a personal
	// room that collides on (code, creator).
	CreateRoom(ctx context.Context, room *models.Room) error

	// GetRoom retrieves a room by ID, including roster and participants.
	// Returns ErrNotFound if absent.
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)

	// FindPersonalRoom looks up the creator's personal room with the given
	// code. Returns ErrNotFound if absent.
	FindPersonalRoom(ctx context.Context, creatorUserID, code string) (*models.Room, error)

	// ListRoomsForUser returns all rooms where userID is a participant,
	// ordered by creation time.
	ListRoomsForUser(ctx context.Context, userID string) ([]*models.Room, error)

	// UpdateRoom rewrites the room's scalar fields and member roster.
	// Participants are managed through AddParticipant/RemoveParticipant.
	UpdateRoom(ctx context.Context, room *models.Room) error

	// AddParticipant grants userID authenticated access. No-op if already
	// a participant.
	AddParticipant(ctx context.Context, roomID, userID string) error

	// RemoveParticipant revokes userID's access. No-op if not a participant.
	RemoveParticipant(ctx context.Context, roomID, userID string) error

	// TouchRoom refreshes the room's UpdatedBy (and LastExpenseAt
	// when lastExpenseAt is non-zero) after an expense-side mutation.
	TouchRoom(ctx context.Context, roomID, editorUserID string, lastExpenseAt int64) error

	// AddMemberToPersonalRooms appends name to the roster of every personal
	// room created by creatorUserID.
	AddMemberToPersonalRooms(ctx context.Context, creatorUserID, name string) error

	// RemoveMemberFromPersonalRooms removes name from the roster of every
	// personal room created by creatorUserID.
	RemoveMemberFromPersonalRooms(ctx context.Context, creatorUserID, name string) error

	// DeleteRoom hard-deletes the room. Expenses referencing it are left
	// in place (no cascade). Returns ErrNotFound if absent.
	DeleteRoom(ctx context.Context, roomID string) error
}

// ExpenseStore defines the persistence operations for expenses.
type ExpenseStore interface {
	// CreateExpense persists a new expense. ID and timestamps are populated
	// by the store if unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID, including its share lines.
	// Returns ErrNotFound if absent.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByRoom returns all expenses for a room, newest first.
	ListExpensesByRoom(ctx context.Context, roomID string) ([]*models.Expense, error)

	// ListExpensesInvolving returns all expenses where the user is the
	// creator or appears by display name as a payer or beneficiary,
	// newest first.
	ListExpensesInvolving(ctx context.Context, userID, username string) ([]*models.Expense, error)

	// UpdateExpense rewrites the expense record and its share lines.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense hard-deletes the expense. Returns ErrNotFound if absent.
	DeleteExpense(ctx context.Context, expenseID string) error
}

// UserStore defines the persistence operations for users and their attached
// income and payment-method records.
type UserStore interface {
	// CreateUser persists a new user. Returns ErrDuplicate if the username
	// is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves a user by username. Returns ErrNotFound
	// if absent.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	AddIncome(ctx context.Context, userID string, income *models.Income) error
	ListIncomes(ctx context.Context, userID string) ([]models.Income, error)
	UpdateIncome(ctx context.Context, userID string, income *models.Income) error
	DeleteIncome(ctx context.Context, userID, incomeID string) error

	AddPaymentMethod(ctx context.Context, userID string, method *models.PaymentMethod) error
	ListPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error)

	// DeletePaymentMethod removes the method and returns the deleted record
	// so callers can sync dependent rosters. Returns ErrNotFound if absent.
	DeletePaymentMethod(ctx context.Context, userID, methodID string) (*models.PaymentMethod, error)
}

// Store bundles all persistence interfaces and resource cleanup. The SQLite
// implementation satisfies the whole bundle with one handle.
type Store interface {
	RoomStore
	ExpenseStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
