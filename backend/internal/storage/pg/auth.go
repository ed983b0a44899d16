package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/repospector/repospector/shared/domain"
	internal_errors "github.com/repospector/repospector/shared/errors"
)

// =========================================================================
// Public Methods (satisfy service.AuthStorage)
// =========================================================================

// SaveUser inserts a user together with an empty user_info row.
// Emails are stored lowercased.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(ctx, tx, user)
		return err
	})
	return id, err
}

// User looks a user up by email, case-insensitively.
func (s *Storage) User(ctx context.Context, email domain.Email) (domain.User, error) {
	return s.user(ctx, s.db, email)
}

// =========================================================================
// Internal Methods (transaction-agnostic)
// =========================================================================

func (s *Storage) saveUser(ctx context.Context, q Querier, user domain.User) (domain.UserId, error) {
	id := user.Id
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := q.ExecContext(ctx,
		"INSERT INTO users(id, email, name, password_hash, is_admin) VALUES($1, $2, $3, $4, $5)",
		id, strings.ToLower(user.Email), user.Name, user.PassHash, user.Admin)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert user: %w", err)
	}
	_, err = q.ExecContext(ctx, "INSERT INTO user_info(user_id, total_inspections) VALUES($1, 0)", id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert user info: %w", err)
	}
	return id, nil
}

func (s *Storage) user(ctx context.Context, q Querier, email domain.Email) (domain.User, error) {
	var user domain.User
	err := q.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, is_admin, created_at FROM users WHERE lower(email) = lower($1)",
		email,
	).Scan(&user.Id, &user.Email, &user.Name, &user.PassHash, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) updatePassword(ctx context.Context, q Querier, userId domain.UserId, passHash string) error {
	result, err := q.ExecContext(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", passHash, userId)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for password update: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("User not found for password update")
	}
	return nil
}
