package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/repositories"
)

// MembershipRepository implements the repositories.MembershipRepository
// interface over the channel_owners, channel_admins and channel_members tables.
type MembershipRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *DB, logger *zap.Logger) repositories.MembershipRepository {
	return &MembershipRepository{
		db:     db,
		logger: logger,
	}
}

func tableFor(relation models.Relation) (string, error) {
	if !relation.IsValid() {
		return "", fmt.Errorf("unknown relation %q", relation)
	}
	return relation.TableName(), nil
}

// Add grants relation on channelID to userID
func (r *MembershipRepository) Add(ctx context.Context, relation models.Relation, channelID, userID int64) (*models.Membership, error) {
	table, err := tableFor(relation)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO %s (channel_id, user_id)
			VALUES ($1, $2)
			RETURNING id, channel_id, user_id, created_at
		)
		SELECT i.id, i.channel_id, i.user_id, u.email, i.created_at
		FROM inserted i
		JOIN users u ON u.id = i.user_id
	`, table)

	m := &models.Membership{Relation: relation}
	err = GetExecutor(ctx, r.db).QueryRowContext(ctx, query, channelID, userID).Scan(
		&m.ID,
		&m.ChannelID,
		&m.UserID,
		&m.Email,
		&m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: user %d is already %s of channel %d", shared.ErrAlreadyMember, userID, relation, channelID)
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: channel %d or user %d does not exist", shared.ErrMembershipNotFound, channelID, userID)
		}
		return nil, fmt.Errorf("failed to add %s: %w", relation, err)
	}

	r.logger.Debug("membership added",
		zap.String("relation", string(relation)),
		zap.Int64("channel_id", channelID),
		zap.Int64("user_id", userID),
	)
	return m, nil
}

// Remove revokes relation on channelID from userID
func (r *MembershipRepository) Remove(ctx context.Context, relation models.Relation, channelID, userID int64) error {
	table, err := tableFor(relation)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE channel_id = $1 AND user_id = $2`, table)
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, channelID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", relation, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: user %d is not %s of channel %d", shared.ErrMembershipNotFound, userID, relation, channelID)
	}

	r.logger.Debug("membership removed",
		zap.String("relation", string(relation)),
		zap.Int64("channel_id", channelID),
		zap.Int64("user_id", userID),
	)
	return nil
}

// Exists reports whether userID holds relation on channelID
func (r *MembershipRepository) Exists(ctx context.Context, relation models.Relation, channelID, userID int64) (bool, error) {
	table, err := tableFor(relation)
	if err != nil {
		return false, err
	}

	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE channel_id = $1 AND user_id = $2)`, table)
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, channelID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", relation, err)
	}
	return exists, nil
}

// Count returns how many users hold relation on channelID
func (r *MembershipRepository) Count(ctx context.Context, relation models.Relation, channelID int64) (int, error) {
	table, err := tableFor(relation)
	if err != nil {
		return 0, err
	}

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE channel_id = $1`, table)
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", relation, err)
	}
	return count, nil
}

// List retrieves every user holding relation on channelID
func (r *MembershipRepository) List(ctx context.Context, relation models.Relation, channelID int64) ([]*models.Membership, error) {
	table, err := tableFor(relation)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT m.id, m.channel_id, m.user_id, u.email, m.created_at
		FROM %s m
		JOIN users u ON u.id = m.user_id
		WHERE m.channel_id = $1
		ORDER BY u.email
	`, table)

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", relation, err)
	}
	defer rows.Close()

	var out []*models.Membership
	for rows.Next() {
		m := &models.Membership{Relation: relation}
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.UserID, &m.Email, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", relation, err)
		}
		out = append(out, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", relation, err)
	}

	return out, nil
}
