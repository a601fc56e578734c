package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitroom/splitroom/internal/models"
	"github.com/splitroom/splitroom/internal/storage"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Username, user.PasswordHash, user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByUsername retrieves a user by their username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	)
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?",
		id,
	)
}

func (s *SQLiteStore) getUser(ctx context.Context, query string, arg string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// AddIncome inserts an income record for the user.
func (s *SQLiteStore) AddIncome(ctx context.Context, userID string, income *models.Income) error {
	if income.ID == "" {
		income.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO incomes (id, user_id, note, amount, date) VALUES (?, ?, ?, ?, ?)",
		income.ID, userID, income.Note, income.Amount, income.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert income: %w", err)
	}
	return nil
}

// ListIncomes returns the user's income records ordered by date, newest first.
func (s *SQLiteStore) ListIncomes(ctx context.Context, userID string) ([]models.Income, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, note, amount, date FROM incomes WHERE user_id = ? ORDER BY date DESC, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []models.Income
	for rows.Next() {
		var income models.Income
		if err := rows.Scan(&income.ID, &income.Note, &income.Amount, &income.Date); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, income)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incomes: %w", err)
	}

	return incomes, nil
}

// UpdateIncome rewrites an income record owned by the user.
func (s *SQLiteStore) UpdateIncome(ctx context.Context, userID string, income *models.Income) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE incomes SET note = ?, amount = ?, date = ? WHERE id = ? AND user_id = ?",
		income.Note, income.Amount, income.Date, income.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update income: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteIncome removes an income record owned by the user.
func (s *SQLiteStore) DeleteIncome(ctx context.Context, userID, incomeID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM incomes WHERE id = ? AND user_id = ?",
		incomeID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
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

// AddPaymentMethod inserts a payment method for the user, appended to the
// end of the user's method ordering.
func (s *SQLiteStore) AddPaymentMethod(ctx context.Context, userID string, method *models.PaymentMethod) error {
	if method.ID == "" {
		method.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_methods (id, user_id, name, type, position)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM payment_methods WHERE user_id = ?))`,
		method.ID, userID, method.Name, method.Type, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment method: %w", err)
	}
	return nil
}

// ListPaymentMethods returns the user's payment methods in insertion order.
func (s *SQLiteStore) ListPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, type FROM payment_methods WHERE user_id = ? ORDER BY position",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		var method models.PaymentMethod
		if err := rows.Scan(&method.ID, &method.Name, &method.Type); err != nil {
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		methods = append(methods, method)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment methods: %w", err)
	}

	return methods, nil
}

// DeletePaymentMethod removes a method and returns the deleted record so the
// caller can sync personal-room rosters.
func (s *SQLiteStore) DeletePaymentMethod(ctx context.Context, userID, methodID string) (*models.PaymentMethod, error) {
	method := &models.PaymentMethod{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, type FROM payment_methods WHERE id = ? AND user_id = ?",
		methodID, userID,
	).Scan(&method.ID, &method.Name, &method.Type)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM payment_methods WHERE id = ? AND user_id = ?",
		methodID, userID,
	); err != nil {
		return nil, fmt.Errorf("failed to delete payment method: %w", err)
	}

	return method, nil
}
