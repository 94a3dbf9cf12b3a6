package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *FeedbackRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS raw_feedback (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	user_type TEXT NOT NULL,
	country TEXT NOT NULL,
	product_area TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS enriched_feedback (
	id TEXT PRIMARY KEY REFERENCES raw_feedback(id),
	theme TEXT NOT NULL,
	sentiment TEXT NOT NULL,
	urgency TEXT NOT NULL,
	value TEXT NOT NULL,
	summary TEXT NOT NULL,
	keywords JSONB NOT NULL DEFAULT '[]'::jsonb,
	fallback_reason TEXT NOT NULL DEFAULT '',
	processed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_raw_feedback_created_at ON raw_feedback(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_enriched_feedback_theme ON enriched_feedback(theme);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// InsertRaw writes records idempotently on id so a re-seed replaces rows
// instead of duplicating them.
func (r *FeedbackRepository) InsertRaw(ctx context.Context, records []domain.RawFeedback) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO raw_feedback (id, source, user_type, country, product_area, content, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
	source = EXCLUDED.source,
	user_type = EXCLUDED.user_type,
	country = EXCLUDED.country,
	product_area = EXCLUDED.product_area,
	content = EXCLUDED.content,
	created_at = EXCLUDED.created_at
`
	for _, record := range records {
		if _, err := tx.ExecContext(ctx, query,
			record.ID, record.Source, record.UserType, record.Country,
			record.ProductArea, record.Content, record.CreatedAt,
		); err != nil {
			return 0, fmt.Errorf("insert raw feedback %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert tx: %w", err)
	}
	return len(records), nil
}

func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*domain.RawFeedback, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, source, user_type, country, product_area, content, created_at
FROM raw_feedback
WHERE id = $1
`, id)

	var record domain.RawFeedback
	err := row.Scan(
		&record.ID, &record.Source, &record.UserType, &record.Country,
		&record.ProductArea, &record.Content, &record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrFeedbackNotFound, "fetch raw feedback", err)
		}
		return nil, fmt.Errorf("scan raw feedback: %w", err)
	}
	return &record, nil
}

// FindUnprocessed selects raw records with no enriched counterpart, oldest
// first so backlog drains in arrival order.
func (r *FeedbackRepository) FindUnprocessed(ctx context.Context, limit int) ([]domain.RawFeedback, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT r.id, r.source, r.user_type, r.country, r.product_area, r.content, r.created_at
FROM raw_feedback r
LEFT JOIN enriched_feedback e ON r.id = e.id
WHERE e.id IS NULL
ORDER BY r.created_at, r.id
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("select unprocessed feedback: %w", err)
	}
	defer rows.Close()

	var records []domain.RawFeedback
	for rows.Next() {
		var record domain.RawFeedback
		if err := rows.Scan(
			&record.ID, &record.Source, &record.UserType, &record.Country,
			&record.ProductArea, &record.Content, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan unprocessed feedback: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unprocessed feedback: %w", err)
	}
	return records, nil
}

// UpsertEnriched replaces or inserts the enriched row in a single statement,
// so a partial classification is never visible.
func (r *FeedbackRepository) UpsertEnriched(ctx context.Context, enriched *domain.EnrichedFeedback) error {
	keywordsJSON, err := json.Marshal(enriched.Keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO enriched_feedback (id, theme, sentiment, urgency, value, summary, keywords, fallback_reason, processed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
	theme = EXCLUDED.theme,
	sentiment = EXCLUDED.sentiment,
	urgency = EXCLUDED.urgency,
	value = EXCLUDED.value,
	summary = EXCLUDED.summary,
	keywords = EXCLUDED.keywords,
	fallback_reason = EXCLUDED.fallback_reason,
	processed_at = EXCLUDED.processed_at
`,
		enriched.ID, enriched.Theme, string(enriched.Sentiment), string(enriched.Urgency),
		string(enriched.Value), enriched.Summary, keywordsJSON, enriched.FallbackReason, enriched.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert enriched feedback: %w", err)
	}
	return nil
}

// GetEnrichedByID reads back one enriched row; used by the read-through
// feedback endpoint. A missing row is not an error there, so nil, nil.
func (r *FeedbackRepository) GetEnrichedByID(ctx context.Context, id string) (*domain.EnrichedFeedback, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, theme, sentiment, urgency, value, summary, keywords, fallback_reason, processed_at
FROM enriched_feedback
WHERE id = $1
`, id)

	var enriched domain.EnrichedFeedback
	var keywordsRaw []byte
	var sentiment, urgency, value string
	err := row.Scan(
		&enriched.ID, &enriched.Theme, &sentiment, &urgency, &value,
		&enriched.Summary, &keywordsRaw, &enriched.FallbackReason, &enriched.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan enriched feedback: %w", err)
	}

	if err := json.Unmarshal(keywordsRaw, &enriched.Keywords); err != nil {
		return nil, fmt.Errorf("unmarshal keywords: %w", err)
	}
	enriched.Sentiment = domain.Sentiment(sentiment)
	enriched.Urgency = domain.Urgency(urgency)
	enriched.Value = domain.Value(value)
	return &enriched, nil
}
