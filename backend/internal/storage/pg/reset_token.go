package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/repospector/repospector/shared/domain"
	internal_errors "github.com/repospector/repospector/shared/errors"
)

// ErrInvalidResetToken covers absent, expired and already used tokens alike.
var ErrInvalidResetToken = internal_errors.Validation("Invalid or expired token")

func (s *Storage) SaveResetToken(ctx context.Context, token domain.ResetToken) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO reset_tokens(token_hash, user_id, created_at) VALUES($1, $2, $3)",
		token.TokenHash, token.UserId, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reset token: %w", err)
	}
	return nil
}

// DeleteResetToken removes a token regardless of age. Deleting a missing token is not an error.
func (s *Storage) DeleteResetToken(ctx context.Context, tokenHash string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM reset_tokens WHERE token_hash = $1", tokenHash); err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken claims the token and sets the new password hash in one
// transaction. The claim is a conditional DELETE ... RETURNING, so of two
// concurrent consumers only one gets a row back.
func (s *Storage) ConsumeResetToken(ctx context.Context, tokenHash string, issuedAfter time.Time, passHash string) (domain.UserId, error) {
	var userId domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		userId, err = s.claimResetToken(ctx, tx, tokenHash, issuedAfter)
		if err != nil {
			return err
		}
		if err := s.updatePassword(ctx, tx, userId, passHash); err != nil {
			if internal_errors.IsNotFound(err) {
				return ErrInvalidResetToken
			}
			return err
		}
		// any other outstanding links for this user die with the password
		_, err = tx.ExecContext(ctx, "DELETE FROM reset_tokens WHERE user_id = $1", userId)
		return err
	})
	if err != nil {
		return uuid.Nil, err
	}
	return userId, nil
}

func (s *Storage) claimResetToken(ctx context.Context, q Querier, tokenHash string, issuedAfter time.Time) (domain.UserId, error) {
	var userId domain.UserId
	err := q.QueryRowContext(ctx,
		"DELETE FROM reset_tokens WHERE token_hash = $1 AND created_at > $2 RETURNING user_id",
		tokenHash, issuedAfter,
	).Scan(&userId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, ErrInvalidResetToken
		}
		return uuid.Nil, fmt.Errorf("failed to claim reset token: %w", err)
	}
	return userId, nil
}

// DeleteExpiredResetTokens drops tokens created at or before cutoff.
func (s *Storage) DeleteExpiredResetTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM reset_tokens WHERE created_at <= $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return result.RowsAffected()
}
