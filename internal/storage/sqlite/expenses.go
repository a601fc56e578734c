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

const expenseColumns = `id, room_id, description, total, creator_user_id,
	creator_username, last_editor_user_id, created_at, updated_at`

// CreateExpense persists a new expense and its share lines.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, room_id, description, total, creator_user_id,
		 creator_username, last_editor_user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.RoomID, expense.Description, expense.Total,
		expense.CreatorUserID, expense.CreatorUsername,
		expense.LastEditorUserID, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertExpenseLines(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its share lines.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := scanExpenseRow(s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", expenseID,
	), expense)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadExpenseLines(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesByRoom returns all expenses for a room, newest first.
func (s *SQLiteStore) ListExpensesByRoom(ctx context.Context, roomID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE room_id = ? ORDER BY created_at DESC, id",
		roomID,
	)
}

// ListExpensesInvolving returns expenses where the user is the creator or
// appears by display name on a share line, newest first.
func (s *SQLiteStore) ListExpensesInvolving(ctx context.Context, userID, username string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE creator_user_id = ?
		    OR id IN (SELECT expense_id FROM expense_lines WHERE name = ?)
		 ORDER BY created_at DESC, id`,
		userID, username,
	)
}

// UpdateExpense rewrites the expense record and its share lines.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET room_id = ?, description = ?, total = ?,
		 last_editor_user_id = ?, updated_at = ?
		 WHERE id = ?`,
		expense.RoomID, expense.Description, expense.Total,
		expense.LastEditorUserID, expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_lines WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense lines: %w", err)
	}
	if err := insertExpenseLines(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense hard-deletes the expense and its lines.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
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

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := scanExpenseRow(rows, expense); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadExpenseLines(ctx, expense); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

func scanExpenseRow(row rowScanner, expense *models.Expense) error {
	err := row.Scan(&expense.ID, &expense.RoomID, &expense.Description,
		&expense.Total, &expense.CreatorUserID, &expense.CreatorUsername,
		&expense.LastEditorUserID, &expense.CreatedAt, &expense.UpdatedAt)
	if err == sql.ErrNoRows {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to scan expense: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadExpenseLines(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, name, amount FROM expense_lines WHERE expense_id = ? ORDER BY kind, position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var line models.ShareLine
		if err := rows.Scan(&kind, &line.Name, &line.Amount); err != nil {
			return fmt.Errorf("failed to scan expense line: %w", err)
		}
		switch kind {
		case "owed":
			expense.SpentFor = append(expense.SpentFor, line)
		case "paid":
			expense.SpentBy = append(expense.SpentBy, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense lines: %w", err)
	}

	return nil
}

func insertExpenseLines(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	insert := func(kind string, lines []models.ShareLine) error {
		for i, line := range lines {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO expense_lines (expense_id, kind, position, name, amount) VALUES (?, ?, ?, ?, ?)",
				expense.ID, kind, i, line.Name, line.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense line: %w", err)
			}
		}
		return nil
	}
	if err := insert("paid", expense.SpentBy); err != nil {
		return err
	}
	return insert("owed", expense.SpentFor)
}
