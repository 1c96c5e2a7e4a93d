package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/repositories"
)

// SuperUserRepository implements the repositories.SuperUserRepository interface
type SuperUserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSuperUserRepository creates a new super user repository
func NewSuperUserRepository(db *DB, logger *zap.Logger) repositories.SuperUserRepository {
	return &SuperUserRepository{
		db:     db,
		logger: logger,
	}
}

// Add grants super user to userID
func (r *SuperUserRepository) Add(ctx context.Context, userID int64) (*models.SuperUser, error) {
	query := `
		WITH inserted AS (
			INSERT INTO super_users (user_id)
			VALUES ($1)
			RETURNING id, user_id, created_at
		)
		SELECT i.id, i.user_id, u.email, i.created_at
		FROM inserted i
		JOIN users u ON u.id = i.user_id
	`

	su := &models.SuperUser{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(
		&su.ID,
		&su.UserID,
		&su.Email,
		&su.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: user %d is already a super user", shared.ErrAlreadyMember, userID)
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: id %d", shared.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to add super user: %w", err)
	}

	r.logger.Debug("super user added", zap.Int64("user_id", userID))
	return su, nil
}

// Remove revokes super user from userID
func (r *SuperUserRepository) Remove(ctx context.Context, userID int64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM super_users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to remove super user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: user %d is not a super user", shared.ErrMembershipNotFound, userID)
	}

	r.logger.Debug("super user removed", zap.Int64("user_id", userID))
	return nil
}

// Exists reports whether userID is a super user
func (r *SuperUserRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM super_users WHERE user_id = $1)`
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check super user: %w", err)
	}
	return exists, nil
}

// Count returns the number of super users
func (r *SuperUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM super_users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count super users: %w", err)
	}
	return count, nil
}

// List retrieves all super users
func (r *SuperUserRepository) List(ctx context.Context) ([]*models.SuperUser, error) {
	query := `
		SELECT s.id, s.user_id, u.email, s.created_at
		FROM super_users s
		JOIN users u ON u.id = s.user_id
		ORDER BY u.email
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query super users: %w", err)
	}
	defer rows.Close()

	var out []*models.SuperUser
	for rows.Next() {
		su := &models.SuperUser{}
		if err := rows.Scan(&su.ID, &su.UserID, &su.Email, &su.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan super user: %w", err)
		}
		out = append(out, su)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating super user rows: %w", err)
	}

	return out, nil
}
