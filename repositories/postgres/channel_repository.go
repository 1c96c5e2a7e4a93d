package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/repositories"
)

const channelColumns = `c.id, c.name, c.description, c.visibility, c.created_at`

// ChannelRepository implements the repositories.ChannelRepository interface
type ChannelRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewChannelRepository creates a new channel repository
func NewChannelRepository(db *DB, logger *zap.Logger) repositories.ChannelRepository {
	return &ChannelRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new channel
func (r *ChannelRepository) Create(ctx context.Context, channel *models.Channel) error {
	query := `
		INSERT INTO channels (name, description, visibility, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		channel.Name,
		channel.Description,
		channel.Visibility,
		channel.CreatedAt,
	).Scan(&channel.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", shared.ErrDuplicateChannelName, channel.Name)
		}
		return fmt.Errorf("failed to create channel: %w", err)
	}

	r.logger.Debug("channel created", zap.Int64("id", channel.ID), zap.String("name", channel.Name))
	return nil
}

// GetByID retrieves a channel by ID
func (r *ChannelRepository) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels c WHERE c.id = $1`

	channel, err := scanChannel(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", shared.ErrChannelNotFound, id)
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	return channel, nil
}

// List retrieves every channel matching the filter
func (r *ChannelRepository) List(ctx context.Context, filter models.ChannelFilter) ([]*models.Channel, error) {
	limit, offset := pageArgs(filter.Limit, filter.Offset)
	query := `
		SELECT ` + channelColumns + `
		FROM channels c
		WHERE $1 = '' OR c.name ILIKE $2
		ORDER BY c.name
		LIMIT $3 OFFSET $4
	`

	return r.query(ctx, query, filter.Search, likePattern(filter.Search), limit, offset)
}

// ListVisibleTo retrieves public channels plus channels where the user holds
// any relation
func (r *ChannelRepository) ListVisibleTo(ctx context.Context, userID int64, filter models.ChannelFilter) ([]*models.Channel, error) {
	limit, offset := pageArgs(filter.Limit, filter.Offset)
	query := `
		SELECT ` + channelColumns + `
		FROM channels c
		WHERE ($1 = '' OR c.name ILIKE $2)
		  AND (
			c.visibility = 'PUBLIC'
			OR EXISTS (SELECT 1 FROM channel_owners o WHERE o.channel_id = c.id AND o.user_id = $3)
			OR EXISTS (SELECT 1 FROM channel_admins a WHERE a.channel_id = c.id AND a.user_id = $3)
			OR EXISTS (SELECT 1 FROM channel_members m WHERE m.channel_id = c.id AND m.user_id = $3)
		  )
		ORDER BY c.name
		LIMIT $4 OFFSET $5
	`

	return r.query(ctx, query, filter.Search, likePattern(filter.Search), userID, limit, offset)
}

// Update updates a channel
func (r *ChannelRepository) Update(ctx context.Context, channel *models.Channel) error {
	query := `
		UPDATE channels
		SET name = $2,
		    description = $3,
		    visibility = $4
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		channel.ID,
		channel.Name,
		channel.Description,
		channel.Visibility,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", shared.ErrDuplicateChannelName, channel.Name)
		}
		return fmt.Errorf("failed to update channel: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrChannelNotFound, channel.ID)
	}

	r.logger.Debug("channel updated", zap.Int64("id", channel.ID))
	return nil
}

// Delete deletes a channel
func (r *ChannelRepository) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM channels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrChannelNotFound, id)
	}

	r.logger.Debug("channel deleted", zap.Int64("id", id))
	return nil
}

func (r *ChannelRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Channel, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	defer rows.Close()

	var channels []*models.Channel
	for rows.Next() {
		channel, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, channel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel rows: %w", err)
	}

	return channels, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChannel(row rowScanner) (*models.Channel, error) {
	channel := &models.Channel{}
	err := row.Scan(
		&channel.ID,
		&channel.Name,
		&channel.Description,
		&channel.Visibility,
		&channel.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return channel, nil
}
