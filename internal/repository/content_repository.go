package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anoexpected/stemhub-backend/internal/model"
)

const contentColumns = `id, kind, owner_id, topic_id, title, body, status,
	reviewer_id, feedback, created_at, updated_at, submitted_at, reviewed_at, published_at`

// ContentRepository handles content item data access. Lifecycle writes go
// through UpdateStateCAS so a concurrent review can never be silently
// overwritten.
type ContentRepository struct {
	pool *pgxpool.Pool
}

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

// Create inserts a new content item in its initial state.
func (r *ContentRepository) Create(ctx context.Context, item *model.ContentItem) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO content_items (kind, owner_id, topic_id, title, body, status, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		item.Kind, item.OwnerID, item.TopicID, item.Title, item.Body, item.State, item.PublishedAt,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

// GetByID retrieves a content item by id.
func (r *ContentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ContentItem, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+contentColumns+` FROM content_items WHERE id = $1`, id)
	item, err := scanContent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

// UpdateDraft persists title/body edits to a draft. The state predicate
// guards against editing an item that has already been submitted.
func (r *ContentRepository) UpdateDraft(ctx context.Context, item *model.ContentItem) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE content_items
		 SET title = $1, body = $2, updated_at = NOW()
		 WHERE id = $3 AND status = $4`,
		item.Title, item.Body, item.ID, model.StateDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStateConflict
	}
	return nil
}

// UpdateStateCAS persists a lifecycle transition with a compare-and-swap
// on the row's current state. If another writer already moved the item out
// of expectedState, zero rows match and ErrStateConflict is returned so
// the losing reviewer's decision and audit metadata never overwrite the
// winner's.
func (r *ContentRepository) UpdateStateCAS(ctx context.Context, item *model.ContentItem, expectedState model.ContentState) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE content_items
		 SET status = $1, reviewer_id = $2, feedback = $3,
		     submitted_at = $4, reviewed_at = $5, published_at = $6, updated_at = NOW()
		 WHERE id = $7 AND status = $8`,
		item.State, item.ReviewerID, item.Feedback,
		item.SubmittedAt, item.ReviewedAt, item.PublishedAt,
		item.ID, expectedState)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStateConflict
	}
	return nil
}

// ListByOwner retrieves a user's own content with pagination.
func (r *ContentRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.ContentItem, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM content_items WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+contentColumns+` FROM content_items
		 WHERE owner_id = $1
		 ORDER BY updated_at DESC LIMIT $2 OFFSET $3`, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectContent(rows)
	return items, total, err
}

// ListPending retrieves the review queue, oldest submissions first.
func (r *ContentRepository) ListPending(ctx context.Context, limit, offset int) ([]model.ContentItem, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM content_items WHERE status = $1`, model.StatePending).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+contentColumns+` FROM content_items
		 WHERE status = $1
		 ORDER BY submitted_at ASC LIMIT $2 OFFSET $3`, model.StatePending, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectContent(rows)
	return items, total, err
}

// ListPublishedByTopic retrieves published content for a topic, optionally
// filtered by kind.
func (r *ContentRepository) ListPublishedByTopic(ctx context.Context, topicID uuid.UUID, kind model.ContentKind) ([]model.ContentItem, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items
		 WHERE topic_id = $1 AND status = $2`
	args := []interface{}{topicID, model.StatePublished}
	if kind != "" {
		query += ` AND kind = $3`
		args = append(args, kind)
	}
	query += ` ORDER BY published_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContent(rows)
}

// ListStalePending returns items that have sat in pending since before
// the cutoff. Used by the reminder sweeper.
func (r *ContentRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]model.ContentItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contentColumns+` FROM content_items
		 WHERE status = $1 AND submitted_at < $2
		 ORDER BY submitted_at ASC`, model.StatePending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContent(rows)
}

func scanContent(row pgx.Row) (*model.ContentItem, error) {
	item := &model.ContentItem{}
	err := row.Scan(&item.ID, &item.Kind, &item.OwnerID, &item.TopicID,
		&item.Title, &item.Body, &item.State,
		&item.ReviewerID, &item.Feedback,
		&item.CreatedAt, &item.UpdatedAt,
		&item.SubmittedAt, &item.ReviewedAt, &item.PublishedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func collectContent(rows pgx.Rows) ([]model.ContentItem, error) {
	var items []model.ContentItem
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
