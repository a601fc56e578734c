package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/splitroom/splitroom/internal/access"
	"github.com/splitroom/splitroom/internal/apperr"
	"github.com/splitroom/splitroom/internal/models"
	"github.com/splitroom/splitroom/internal/storage"
)

// ExpenseService owns creation, mutation, and deletion of expense records
// and the authorization rule for who may read or write them.
type ExpenseService struct {
	expenses storage.ExpenseStore
	rooms    storage.RoomStore
	logger   *slog.Logger
}

// NewExpenseService creates an ExpenseService with the given collaborators.
func NewExpenseService(expenses storage.ExpenseStore, rooms storage.RoomStore, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{expenses: expenses, rooms: rooms, logger: logger}
}

// CreateExpenseInput carries the fields for expense creation. Total,
// SpentBy, and SpentFor are pointers so that an absent field can be told
// apart from a present-but-zero one.
type CreateExpenseInput struct {
	RoomID      string              `json:"roomId"`
	Description string              `json:"description"`
	Total       *int64              `json:"total"`
	SpentBy     *[]models.ShareLine `json:"spentBy"`
	SpentFor    *[]models.ShareLine `json:"spentFor"`
}

// ExpensePatch is a presence-marked partial update for an expense. The
// owning room cannot be changed after creation.
type ExpensePatch struct {
	Description *string             `json:"description"`
	Total       *int64              `json:"total"`
	SpentBy     *[]models.ShareLine `json:"spentBy"`
	SpentFor    *[]models.ShareLine `json:"spentFor"`
}

// List returns expenses visible to the caller, newest first. With a roomID
// the caller must be a member of that room and all of its expenses are
// returned; without one, the expenses where the caller is creator, payer,
// or beneficiary.
func (s *ExpenseService) List(ctx context.Context, userID, username, roomID string) ([]*models.Expense, error) {
	if roomID != "" {
		room, err := s.getRoom(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if !access.CanReadRoom(room, userID) {
			return nil, apperr.Forbidden("you are not a member of this room")
		}

		expenses, err := s.expenses.ListExpensesByRoom(ctx, roomID)
		if err != nil {
			return nil, apperr.Internal("failed to list expenses", err)
		}
		return expenses, nil
	}

	expenses, err := s.expenses.ListExpensesInvolving(ctx, userID, username)
	if err != nil {
		return nil, apperr.Internal("failed to list expenses", err)
	}
	return expenses, nil
}

// Create records a new expense against an existing room and refreshes the
// room's last-expense metadata.
func (s *ExpenseService) Create(ctx context.Context, userID, username string, in CreateExpenseInput) (*models.Expense, error) {
	if in.RoomID == "" {
		return nil, apperr.Validation("roomId is required")
	}
	if in.Total == nil {
		return nil, apperr.Validation("total is required")
	}
	if in.SpentBy == nil || in.SpentFor == nil {
		return nil, apperr.Validation("spentBy and spentFor are required")
	}
	if err := validateSplit(*in.Total, *in.SpentBy, *in.SpentFor); err != nil {
		return nil, err
	}

	if _, err := s.getRoom(ctx, in.RoomID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		RoomID:          in.RoomID,
		Description:     in.Description,
		Total:           *in.Total,
		SpentBy:         *in.SpentBy,
		SpentFor:        *in.SpentFor,
		CreatorUserID:   userID,
		CreatorUsername: username,
	}

	if err := s.expenses.CreateExpense(ctx, expense); err != nil {
		return nil, apperr.Internal("failed to create expense", err)
	}

	if err := s.rooms.TouchRoom(ctx, in.RoomID, userID, time.Now().Unix()); err != nil {
		return nil, apperr.Internal("failed to update room metadata", err)
	}

	s.logger.Info("expense created",
		"expense_id", expense.ID,
		"room_id", expense.RoomID,
		"total", expense.Total,
		"creator", userID,
	)

	return expense, nil
}

// Get returns the expense if the caller is its creator, appears on a share
// line by display name, or is a member of the owning room.
func (s *ExpenseService) Get(ctx context.Context, userID, username, expenseID string) (*models.Expense, error) {
	expense, err := s.getExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	// Creator and share-line checks need no room lookup.
	if access.CanReadExpense(expense, nil, userID, username) {
		return expense, nil
	}

	room, err := s.rooms.GetRoom(ctx, expense.RoomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("related room not found")
		}
		return nil, apperr.Internal("failed to get room", err)
	}
	if !access.CanReadExpense(expense, room, userID, username) {
		return nil, apperr.Forbidden("you do not have access to this expense")
	}

	return expense, nil
}

// Update applies a partial patch to the expense. Creator only; the room's
// last-expense metadata is refreshed as a side effect.
func (s *ExpenseService) Update(ctx context.Context, userID string, expenseID string, patch ExpensePatch) (*models.Expense, error) {
	expense, err := s.getExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !access.CanWriteExpense(expense, userID) {
		return nil, apperr.Forbidden("only the expense creator can update this expense")
	}

	if patch.Description != nil {
		expense.Description = *patch.Description
	}
	if patch.Total != nil {
		expense.Total = *patch.Total
	}
	if patch.SpentBy != nil {
		expense.SpentBy = *patch.SpentBy
	}
	if patch.SpentFor != nil {
		expense.SpentFor = *patch.SpentFor
	}
	if err := validateSplit(expense.Total, expense.SpentBy, expense.SpentFor); err != nil {
		return nil, err
	}
	expense.LastEditorUserID = userID

	if err := s.expenses.UpdateExpense(ctx, expense); err != nil {
		return nil, apperr.Internal("failed to update expense", err)
	}

	if err := s.rooms.TouchRoom(ctx, expense.RoomID, userID, time.Now().Unix()); err != nil {
		return nil, apperr.Internal("failed to update room metadata", err)
	}

	s.logger.Info("expense updated", "expense_id", expenseID, "editor", userID)
	return expense, nil
}

// Delete removes the expense. Creator only. The owning room's editor
// metadata is touched best-effort: a failure there never fails the delete.
func (s *ExpenseService) Delete(ctx context.Context, userID, expenseID string) error {
	expense, err := s.getExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if !access.CanWriteExpense(expense, userID) {
		return apperr.Forbidden("only the expense creator can delete this expense")
	}

	if err := s.expenses.DeleteExpense(ctx, expenseID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("expense not found")
		}
		return apperr.Internal("failed to delete expense", err)
	}

	if err := s.rooms.TouchRoom(ctx, expense.RoomID, userID, 0); err != nil {
		s.logger.Warn("failed to touch room after expense delete",
			"room_id", expense.RoomID,
			"expense_id", expenseID,
			"error", err,
		)
	}

	s.logger.Info("expense deleted", "expense_id", expenseID, "user_id", userID)
	return nil
}

// validateSplit enforces the split-sum invariant: a non-negative total, and
// non-empty payer/beneficiary sequences summing exactly to it. Empty
// sequences are legal (a degenerate split) and skip the sum check.
func validateSplit(total int64, spentBy, spentFor []models.ShareLine) error {
	if total < 0 {
		return apperr.Validation("total must be non-negative")
	}
	for _, line := range spentBy {
		if line.Name == "" {
			return apperr.Validation("spentBy entries require a name")
		}
		if line.Amount < 0 {
			return apperr.Validation("spentBy amounts must be non-negative")
		}
	}
	for _, line := range spentFor {
		if line.Name == "" {
			return apperr.Validation("spentFor entries require a name")
		}
		if line.Amount < 0 {
			return apperr.Validation("spentFor amounts must be non-negative")
		}
	}
	if len(spentBy) > 0 && models.SumLines(spentBy) != total {
		return apperr.Validation("spentBy amounts must sum to total")
	}
	if len(spentFor) > 0 && models.SumLines(spentFor) != total {
		return apperr.Validation("spentFor amounts must sum to total")
	}
	return nil
}

func (s *ExpenseService) getRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("room not found")
		}
		return nil, apperr.Internal("failed to get room", err)
	}
	return room, nil
}

func (s *ExpenseService) getExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := s.expenses.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("expense not found")
		}
		return nil, apperr.Internal("failed to get expense", err)
	}
	return expense, nil
}
