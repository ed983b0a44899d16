package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/repospector/repospector/shared/domain"
	internal_errors "github.com/repospector/repospector/shared/errors"
)

// IncrementInspectionCount creates the user_info row when it is missing.
func (s *Storage) IncrementInspectionCount(ctx context.Context, userId domain.UserId) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_info(user_id, total_inspections) VALUES($1, 1)
		ON CONFLICT (user_id) DO UPDATE SET total_inspections = user_info.total_inspections + 1`,
		userId)
	if err != nil {
		return fmt.Errorf("failed to increment inspection count: %w", err)
	}
	return nil
}

// DecrementInspectionCount never takes the counter below zero. A missing
// user_info row or a counter already at zero is reported as not found so the
// caller can record the drift.
func (s *Storage) DecrementInspectionCount(ctx context.Context, userId domain.UserId) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE user_info SET total_inspections = total_inspections - 1 WHERE user_id = $1 AND total_inspections > 0",
		userId)
	if err != nil {
		return fmt.Errorf("failed to decrement inspection count: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for counter decrement: %w", err)
	}
	if rows == 0 {
		return internal_errors.NotFound("No inspection count to decrement")
	}
	return nil
}

// Info returns a zero counter when the row does not exist yet.
func (s *Storage) Info(ctx context.Context, userId domain.UserId) (domain.UserInfo, error) {
	info := domain.UserInfo{UserId: userId}
	err := s.db.QueryRowContext(ctx,
		"SELECT total_inspections FROM user_info WHERE user_id = $1", userId,
	).Scan(&info.TotalInspections)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.UserInfo{}, fmt.Errorf("failed to query user info: %w", err)
	}
	return info, nil
}

// ReconcileInspectionCounts recomputes every counter from the inspections
// table and returns how many rows it had to correct or create.
func (s *Storage) ReconcileInspectionCounts(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		WITH actual AS (
			SELECT u.id AS user_id, count(i.id)::integer AS total
			FROM users u LEFT JOIN inspections i ON i.owner_id = u.id
			GROUP BY u.id
		)
		INSERT INTO user_info(user_id, total_inspections)
		SELECT user_id, total FROM actual
		ON CONFLICT (user_id) DO UPDATE SET total_inspections = EXCLUDED.total_inspections
		WHERE user_info.total_inspections <> EXCLUDED.total_inspections`)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile inspection counts: %w", err)
	}
	return result.RowsAffected()
}
