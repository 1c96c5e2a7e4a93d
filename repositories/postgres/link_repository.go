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

// LinkRepository implements the repositories.LinkRepository interface
type LinkRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(db *DB, logger *zap.Logger) repositories.LinkRepository {
	return &LinkRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new link
func (r *LinkRepository) Create(ctx context.Context, link *models.Link) error {
	query := `
		INSERT INTO links (user_id, url, title, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		link.UserID,
		link.URL,
		link.Title,
		link.Description,
		link.CreatedAt,
	).Scan(&link.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: id %d", shared.ErrUserNotFound, link.UserID)
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	r.logger.Debug("link created", zap.Int64("id", link.ID), zap.Int64("user_id", link.UserID))
	return nil
}

// GetByID retrieves a link by ID
func (r *LinkRepository) GetByID(ctx context.Context, id int64) (*models.Link, error) {
	query := `
		SELECT id, user_id, url, title, description, created_at
		FROM links
		WHERE id = $1
	`

	link := &models.Link{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&link.ID,
		&link.UserID,
		&link.URL,
		&link.Title,
		&link.Description,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", shared.ErrLinkNotFound, id)
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

// ListByUser retrieves a user's links, optionally filtered by title
func (r *LinkRepository) ListByUser(ctx context.Context, userID int64, filter models.LinkFilter) ([]*models.Link, error) {
	limit, offset := pageArgs(filter.Limit, filter.Offset)
	query := `
		SELECT id, user_id, url, title, description, created_at
		FROM links
		WHERE user_id = $1
		  AND ($2 = '' OR title ILIKE $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, userID, filter.Search, likePattern(filter.Search), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []*models.Link
	for rows.Next() {
		link := &models.Link{}
		err := rows.Scan(
			&link.ID,
			&link.UserID,
			&link.URL,
			&link.Title,
			&link.Description,
			&link.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating link rows: %w", err)
	}

	return links, nil
}

// Update updates a link
func (r *LinkRepository) Update(ctx context.Context, link *models.Link) error {
	query := `
		UPDATE links
		SET url = $2,
		    title = $3,
		    description = $4
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		link.ID,
		link.URL,
		link.Title,
		link.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrLinkNotFound, link.ID)
	}

	r.logger.Debug("link updated", zap.Int64("id", link.ID))
	return nil
}

// Delete deletes a link
func (r *LinkRepository) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrLinkNotFound, id)
	}

	r.logger.Debug("link deleted", zap.Int64("id", id))
	return nil
}
