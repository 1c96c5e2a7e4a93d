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

const channelLinkSelect = `
	SELECT cl.id, cl.channel_id, cl.link_id, cl.title, cl.created_at, l.url, l.user_id
	FROM channel_links cl
	JOIN links l ON l.id = cl.link_id
`

// ChannelLinkRepository implements the repositories.ChannelLinkRepository interface
type ChannelLinkRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewChannelLinkRepository creates a new channel link repository
func NewChannelLinkRepository(db *DB, logger *zap.Logger) repositories.ChannelLinkRepository {
	return &ChannelLinkRepository{
		db:     db,
		logger: logger,
	}
}

// Create posts a link into a channel
func (r *ChannelLinkRepository) Create(ctx context.Context, link *models.ChannelLink) error {
	query := `
		INSERT INTO channel_links (channel_id, link_id, title, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		link.ChannelID,
		link.LinkID,
		link.Title,
		link.CreatedAt,
	).Scan(&link.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: channel %d or link %d does not exist", shared.ErrChannelNotFound, link.ChannelID, link.LinkID)
		}
		return fmt.Errorf("failed to create channel link: %w", err)
	}

	r.logger.Debug("channel link created", zap.Int64("id", link.ID), zap.Int64("channel_id", link.ChannelID))
	return nil
}

// GetByID retrieves a channel link scoped to its channel
func (r *ChannelLinkRepository) GetByID(ctx context.Context, channelID, id int64) (*models.ChannelLink, error) {
	query := channelLinkSelect + `WHERE cl.channel_id = $1 AND cl.id = $2`

	link, err := scanChannelLink(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, channelID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d in channel %d", shared.ErrChannelLinkNotFound, id, channelID)
		}
		return nil, fmt.Errorf("failed to get channel link: %w", err)
	}

	return link, nil
}

// ListByChannel retrieves the links of a channel, optionally filtered by title
func (r *ChannelLinkRepository) ListByChannel(ctx context.Context, channelID int64, filter models.LinkFilter) ([]*models.ChannelLink, error) {
	limit, offset := pageArgs(filter.Limit, filter.Offset)
	query := channelLinkSelect + `
		WHERE cl.channel_id = $1
		  AND ($2 = '' OR cl.title ILIKE $3)
		ORDER BY cl.created_at DESC, cl.id DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, channelID, filter.Search, likePattern(filter.Search), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query channel links: %w", err)
	}
	defer rows.Close()

	var links []*models.ChannelLink
	for rows.Next() {
		link, err := scanChannelLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel link rows: %w", err)
	}

	return links, nil
}

// Update updates the title of a channel link
func (r *ChannelLinkRepository) Update(ctx context.Context, link *models.ChannelLink) error {
	query := `UPDATE channel_links SET title = $3 WHERE channel_id = $1 AND id = $2`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, link.ChannelID, link.ID, link.Title)
	if err != nil {
		return fmt.Errorf("failed to update channel link: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d in channel %d", shared.ErrChannelLinkNotFound, link.ID, link.ChannelID)
	}

	r.logger.Debug("channel link updated", zap.Int64("id", link.ID))
	return nil
}

// Delete removes a link from a channel
func (r *ChannelLinkRepository) Delete(ctx context.Context, channelID, id int64) error {
	query := `DELETE FROM channel_links WHERE channel_id = $1 AND id = $2`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, channelID, id)
	if err != nil {
		return fmt.Errorf("failed to delete channel link: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d in channel %d", shared.ErrChannelLinkNotFound, id, channelID)
	}

	r.logger.Debug("channel link deleted", zap.Int64("id", id), zap.Int64("channel_id", channelID))
	return nil
}

func scanChannelLink(row rowScanner) (*models.ChannelLink, error) {
	link := &models.ChannelLink{}
	err := row.Scan(
		&link.ID,
		&link.ChannelID,
		&link.LinkID,
		&link.Title,
		&link.CreatedAt,
		&link.URL,
		&link.UserID,
	)
	if err != nil {
		return nil, err
	}
	return link, nil
}
