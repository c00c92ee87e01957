package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"content-backend/internal/config"
	"content-backend/internal/domains/content/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresSource - raw SQL over pgxpool against the authoritative store.
type postgresSource struct {
	pool     *pgxpool.Pool
	timeouts config.DatabaseConfig
}

// NewPostgresSource - Constructor
func NewPostgresSource(pool *pgxpool.Pool, timeouts config.DatabaseConfig) Source {
	return &postgresSource{
		pool:     pool,
		timeouts: timeouts,
	}
}

const recordColumns = `id, kind, title, body, excerpt, category,
	location_tags, freeform_tags, status, placement_flags, image_ref,
	effective_date, created_at, updated_at`

// classify maps driver failures onto the error taxonomy. Only failures to
// reach the server (timeouts, transport errors) count as Unavailable; an
// error the server itself returned, a constraint violation say, is a real
// failure and must not degrade the write to snapshot-only.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", model.ErrNotFound, op)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s timed out", model.ErrUnavailable, op)
	}
	return fmt.Errorf("%w: %s: %v", model.ErrUnavailable, op, err)
}

// ========================= QUERY =====================

// buildWhereClause translates the listing filter into SQL conditions.
func buildWhereClause(req model.ListContentRequest) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	add := func(cond string, vals ...interface{}) {
		conditions = append(conditions, cond)
		args = append(args, vals...)
		argIndex += len(vals)
	}

	if req.Kind != "" {
		add(fmt.Sprintf("kind = $%d", argIndex), req.Kind)
	}
	if req.Category != "" {
		// Exact match, case-insensitive, same as the in-process filter.
		add(fmt.Sprintf("category ILIKE $%d", argIndex), req.Category)
	}
	if req.Location != "" {
		add(fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(location_tags) AS tag WHERE tag ILIKE '%%' || $%d || '%%')",
			argIndex), req.Location)
	}
	if req.Search != "" {
		add(fmt.Sprintf("(title ILIKE '%%' || $%d || '%%' OR excerpt ILIKE '%%' || $%d || '%%')",
			argIndex, argIndex), req.Search)
	}
	if req.PlacementFlag != "" {
		add(fmt.Sprintf("COALESCE((placement_flags ->> $%d)::boolean, false)", argIndex), req.PlacementFlag)
	}

	// Drafts stay out of listings unless explicitly requested.
	switch req.Status {
	case model.StatusFilterAll:
		// no status condition
	case string(model.StatusDraft):
		add(fmt.Sprintf("status = $%d", argIndex), string(model.StatusDraft))
	default:
		add(fmt.Sprintf("status = $%d", argIndex), string(model.StatusPublished))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func orderClause(sort string) string {
	switch sort {
	case model.SortOldest:
		return "ORDER BY created_at ASC"
	case model.SortTitle:
		return "ORDER BY title ASC"
	case model.SortEffectiveDate:
		return "ORDER BY effective_date DESC"
	default: // newest
		return "ORDER BY created_at DESC"
	}
}

// Query - one filtered page plus total count for pagination.
func (r *postgresSource) Query(ctx context.Context, req model.ListContentRequest) ([]model.ContentRecord, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeouts.QueryTimeout)
	defer cancel()

	whereClause, args := buildWhereClause(req)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM content_records %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, classify("count query", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM content_records %s %s LIMIT $%d OFFSET $%d",
		recordColumns, whereClause, orderClause(req.Sort), len(args)+1, len(args)+2,
	)
	args = append(args, req.PageSize, (req.Page-1)*req.PageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify("list query", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, 0, classify("list scan", err)
	}

	return records, total, nil
}

// QueryAll - full pull for resync, under the bulk deadline.
func (r *postgresSource) QueryAll(ctx context.Context) ([]model.ContentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeouts.SyncTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM content_records ORDER BY created_at DESC", recordColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, classify("bulk query", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, classify("bulk scan", err)
	}

	return records, nil
}

func (r *postgresSource) GetByID(ctx context.Context, id string) (*model.ContentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeouts.ReadTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM content_records WHERE id = $1", recordColumns)

	record, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classify("point read", err)
	}

	return record, nil
}

// ========================= MUTATIONS =====================

// Create assigns the canonical id and timestamps and persists the record.
func (r *postgresSource) Create(ctx context.Context, record model.ContentRecord) (*model.ContentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeouts.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	record.ID = uuid.NewString()
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.Kind != model.KindEvent {
		record.EffectiveDate = now
	}

	query := `
		INSERT INTO content_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		record.ID, record.Kind, record.Title, record.Body, record.Excerpt,
		record.Category, record.LocationTags, record.FreeformTags,
		record.Status, record.PlacementFlags, record.ImageRef,
		record.EffectiveDate, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return nil, classify("create", err)
	}

	return &record, nil
}

// Update replaces the stored record wholesale. The id never changes.
func (r *postgresSource) Update(ctx context.Context, id string, record model.ContentRecord) (*model.ContentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeouts.WriteTimeout)
	defer cancel()

	record.ID = id
	record.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE content_records SET
			kind = $2, title = $3, body = $4, excerpt = $5, category = $6,
			location_tags = $7, freeform_tags = $8, status = $9,
			placement_flags = $10, image_ref = $11, effective_date = $12,
			updated_at = $13
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		record.ID, record.Kind, record.Title, record.Body, record.Excerpt,
		record.Category, record.LocationTags, record.FreeformTags,
		record.Status, record.PlacementFlags, record.ImageRef,
		record.EffectiveDate, record.UpdatedAt,
	)
	if err != nil {
		return nil, classify("update", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: update id %s", model.ErrNotFound, id)
	}

	return &record, nil
}

func (r *postgresSource) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeouts.WriteTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, "DELETE FROM content_records WHERE id = $1", id)
	if err != nil {
		return classify("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: delete id %s", model.ErrNotFound, id)
	}

	return nil
}

// ========================= SCANNING =====================

func scanRecord(row pgx.Row) (*model.ContentRecord, error) {
	var record model.ContentRecord
	err := row.Scan(
		&record.ID,
		&record.Kind,
		&record.Title,
		&record.Body,
		&record.Excerpt,
		&record.Category,
		&record.LocationTags,
		&record.FreeformTags,
		&record.Status,
		&record.PlacementFlags,
		&record.ImageRef,
		&record.EffectiveDate,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func scanRecords(rows pgx.Rows) ([]model.ContentRecord, error) {
	records := []model.ContentRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
