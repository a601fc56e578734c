package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/splitroom/splitroom/internal/apperr"
	"github.com/splitroom/splitroom/internal/models"
	"github.com/splitroom/splitroom/internal/storage"
)

// UserService owns the user's attached bookkeeping records: incomes and
// payment methods. Payment-method names double as the roster of the user's
// personal rooms, so method mutations sync those rosters.
type UserService struct {
	users  storage.UserStore
	rooms  storage.RoomStore
	logger *slog.Logger
}

// NewUserService creates a UserService with the given collaborators.
func NewUserService(users storage.UserStore, rooms storage.RoomStore, logger *slog.Logger) *UserService {
	return &UserService{users: users, rooms: rooms, logger: logger}
}

// IncomeInput carries the fields for adding an income record.
type IncomeInput struct {
	Note   string `json:"note"`
	Amount *int64 `json:"amount"`
	Date   *int64 `json:"date"`
}

// IncomePatch is a presence-marked partial update for an income record.
type IncomePatch struct {
	Note   *string `json:"note"`
	Amount *int64  `json:"amount"`
	Date   *int64  `json:"date"`
}

// MethodInput carries the fields for adding a payment method.
type MethodInput struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Current returns the authenticated user's account record.
func (s *UserService) Current(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to get user", err)
	}
	return user, nil
}

// AddIncome attaches an income record to the user.
func (s *UserService) AddIncome(ctx context.Context, userID string, in IncomeInput) (*models.Income, error) {
	if in.Note == "" {
		return nil, apperr.Validation("note is required")
	}
	if in.Amount == nil {
		return nil, apperr.Validation("amount is required")
	}
	if in.Date == nil {
		return nil, apperr.Validation("date is required")
	}

	income := &models.Income{Note: in.Note, Amount: *in.Amount, Date: *in.Date}
	if err := s.users.AddIncome(ctx, userID, income); err != nil {
		return nil, apperr.Internal("failed to add income", err)
	}

	s.logger.Info("income added", "user_id", userID, "income_id", income.ID)
	return income, nil
}

// ListIncomes returns the user's income records, newest first.
func (s *UserService) ListIncomes(ctx context.Context, userID string) ([]models.Income, error) {
	incomes, err := s.users.ListIncomes(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list incomes", err)
	}
	return incomes, nil
}

// UpdateIncome applies a partial patch to one of the user's income records.
func (s *UserService) UpdateIncome(ctx context.Context, userID, incomeID string, patch IncomePatch) (*models.Income, error) {
	incomes, err := s.users.ListIncomes(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list incomes", err)
	}

	var income *models.Income
	for i := range incomes {
		if incomes[i].ID == incomeID {
			income = &incomes[i]
			break
		}
	}
	if income == nil {
		return nil, apperr.NotFound("income not found")
	}

	if patch.Note != nil {
		income.Note = *patch.Note
	}
	if patch.Amount != nil {
		income.Amount = *patch.Amount
	}
	if patch.Date != nil {
		income.Date = *patch.Date
	}

	if err := s.users.UpdateIncome(ctx, userID, income); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("income not found")
		}
		return nil, apperr.Internal("failed to update income", err)
	}

	return income, nil
}

// DeleteIncome removes one of the user's income records.
func (s *UserService) DeleteIncome(ctx context.Context, userID, incomeID string) error {
	if err := s.users.DeleteIncome(ctx, userID, incomeID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("income not found")
		}
		return apperr.Internal("failed to delete income", err)
	}
	return nil
}

// AddMethod attaches a payment method to the user and appends its name to
// the roster of every personal room the user created.
func (s *UserService) AddMethod(ctx context.Context, userID string, in MethodInput) (*models.PaymentMethod, error) {
	if in.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if in.Type == "" {
		return nil, apperr.Validation("type is required")
	}

	method := &models.PaymentMethod{Name: in.Name, Type: in.Type}
	if err := s.users.AddPaymentMethod(ctx, userID, method); err != nil {
		return nil, apperr.Internal("failed to add payment method", err)
	}

	if err := s.rooms.AddMemberToPersonalRooms(ctx, userID, method.Name); err != nil {
		return nil, apperr.Internal("failed to sync personal room rosters", err)
	}

	s.logger.Info("payment method added", "user_id", userID, "method_id", method.ID)
	return method, nil
}

// ListMethods returns the user's payment methods in insertion order.
func (s *UserService) ListMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	methods, err := s.users.ListPaymentMethods(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list payment methods", err)
	}
	return methods, nil
}

// DeleteMethod removes a payment method and pulls its name out of the
// rosters of the user's personal rooms.
func (s *UserService) DeleteMethod(ctx context.Context, userID, methodID string) error {
	method, err := s.users.DeletePaymentMethod(ctx, userID, methodID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("payment method not found")
		}
		return apperr.Internal("failed to delete payment method", err)
	}

	if err := s.rooms.RemoveMemberFromPersonalRooms(ctx, userID, method.Name); err != nil {
		return apperr.Internal("failed to sync personal room rosters", err)
	}

	s.logger.Info("payment method deleted", "user_id", userID, "method_id", methodID)
	return nil
}
