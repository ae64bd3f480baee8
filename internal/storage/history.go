package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ashita-ai/kotae/internal/model"
)

// insertRetries bounds the transient-conflict retry on history writes.
const (
	insertRetries   = 3
	insertBaseDelay = 50 * time.Millisecond
)

// InsertQueryRecord appends one history record. The record is immutable after
// this call; a duplicate query_id is a programming error and surfaces as a
// unique-violation, not an upsert.
func (db *DB) InsertQueryRecord(ctx context.Context, rec model.HistoryRecord) error {
	sources, err := json.Marshal(rec.Sources)
	if err != nil {
		return fmt.Errorf("storage: marshal sources: %w", err)
	}

	err = WithRetry(ctx, insertRetries, insertBaseDelay, func() error {
		_, execErr := db.pool.Exec(ctx,
			`INSERT INTO `+db.table+` (query_id, created_at, user_query, response, source_documents)
			 VALUES ($1, $2, $3, $4, $5)`,
			rec.QueryID, rec.Timestamp, rec.UserQuery, rec.Response, sources,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("storage: insert query record: %w", err)
	}
	return nil
}

// GetQueryRecord retrieves a history record by its query_id.
func (db *DB) GetQueryRecord(ctx context.Context, queryID uuid.UUID) (model.HistoryRecord, error) {
	var rec model.HistoryRecord
	var sources []byte

	err := db.pool.QueryRow(ctx,
		`SELECT query_id, created_at, user_query, response, source_documents
		 FROM `+db.table+` WHERE query_id = $1`, queryID,
	).Scan(&rec.QueryID, &rec.Timestamp, &rec.UserQuery, &rec.Response, &sources)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.HistoryRecord{}, ErrNotFound
		}
		return model.HistoryRecord{}, fmt.Errorf("storage: get query record: %w", err)
	}

	if err := json.Unmarshal(sources, &rec.Sources); err != nil {
		return model.HistoryRecord{}, fmt.Errorf("storage: unmarshal sources: %w", err)
	}
	return rec, nil
}

// ListRecentQueries returns history records ordered by creation time
// descending, plus the total record count for pagination.
func (db *DB) ListRecentQueries(ctx context.Context, limit, offset int) ([]model.HistoryRecord, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.pool.QueryRow(ctx, `SELECT count(*) FROM `+db.table).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("storage: count query records: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT query_id, created_at, user_query, response, source_documents
		 FROM `+db.table+` ORDER BY created_at DESC, query_id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("storage: list query records: %w", err)
	}
	defer rows.Close()

	var recs []model.HistoryRecord
	for rows.Next() {
		var rec model.HistoryRecord
		var sources []byte
		if err := rows.Scan(&rec.QueryID, &rec.Timestamp, &rec.UserQuery, &rec.Response, &sources); err != nil {
			return nil, 0, fmt.Errorf("storage: scan query record: %w", err)
		}
		if err := json.Unmarshal(sources, &rec.Sources); err != nil {
			return nil, 0, fmt.Errorf("storage: unmarshal sources: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("storage: iterate query records: %w", err)
	}

	return recs, total, nil
}
