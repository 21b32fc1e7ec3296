package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
	"github.com/jmoiron/sqlx"
)

// =========================================================================
// Public Methods (satisfy the service.UserStorage interface)
// =========================================================================

// SaveUser inserts a new user. A primary key collision is reported as
// ErrDuplicateId, which is what makes concurrent identical signups safe.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return s.saveUser(ctx, tx, user)
	})
}

// User fetches a user by id.
func (s *Storage) User(ctx context.Context, id domain.UserId) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.user(ctx, s.db, id)
}

// UpdateUser overwrites password hash, name and email of an existing user.
func (s *Storage) UpdateUser(ctx context.Context, user domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return s.updateUser(ctx, tx, user)
	})
}

// DeleteUser removes the account. ON DELETE CASCADE drops the user's posts and
// their file rows; files on disk are the service's job.
func (s *Storage) DeleteUser(ctx context.Context, id domain.UserId) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return s.deleteUser(ctx, tx, id)
	})
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) saveUser(ctx context.Context, q Querier, user domain.User) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO users(id, password_hash, name, email) VALUES($1, $2, $3, $4)",
		user.Id, user.PassHash, user.Name, user.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return internal_errors.ErrDuplicateId
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Storage) user(ctx context.Context, q Querier, id domain.UserId) (domain.User, error) {
	var user domain.User
	err := q.GetContext(ctx, &user,
		"SELECT id, password_hash, name, email, created_at FROM users WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) updateUser(ctx context.Context, q Querier, user domain.User) error {
	result, err := q.ExecContext(ctx,
		"UPDATE users SET password_hash = $1, name = $2, email = $3 WHERE id = $4",
		user.PassHash, user.Name, user.Email, user.Id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return checkAffected(result, internal_errors.NotFound("User not found for update"))
}

func (s *Storage) deleteUser(ctx context.Context, q Querier, id domain.UserId) error {
	result, err := q.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(result, internal_errors.NotFound("User not found for deletion"))
}
