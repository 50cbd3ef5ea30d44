package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cexsync/cexsync/internal/domain"
)

// ResolutionStore implements domain.ResolutionStore using PostgreSQL.
type ResolutionStore struct {
	pool *pgxpool.Pool
}

// NewResolutionStore creates a new ResolutionStore backed by the given
// connection pool.
func NewResolutionStore(pool *pgxpool.Pool) *ResolutionStore {
	return &ResolutionStore{pool: pool}
}

// Insert appends one resolver run. A zero ID gets a fresh UUID; a zero
// CreatedAt gets the current time.
func (s *ResolutionStore) Insert(ctx context.Context, rec domain.ResolutionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	matchesJSON, err := json.Marshal(rec.Matches)
	if err != nil {
		return fmt.Errorf("postgres: marshal matches: %w", err)
	}
	var notesJSON []byte
	if len(rec.Notes) > 0 {
		notesJSON, err = json.Marshal(rec.Notes)
		if err != nil {
			return fmt.Errorf("postgres: marshal notes: %w", err)
		}
	}

	const query = `
		INSERT INTO resolutions (id, query, match_count, matches, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = s.pool.Exec(ctx, query,
		rec.ID, rec.Query, rec.MatchCount, matchesJSON, notesJSON, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: insert resolution %s: %w", rec.Query, err)
	}
	return nil
}

// List returns resolver runs, newest first, with pagination and optional time
// filtering.
func (s *ResolutionStore) List(ctx context.Context, opts domain.ListOpts) ([]domain.ResolutionRecord, error) {
	query := `SELECT id, query, match_count, matches, notes, created_at FROM resolutions WHERE 1=1`
	args := []any{}
	argIdx := 1

	if opts.Since != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *opts.Since)
		argIdx++
	}
	if opts.Until != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *opts.Until)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list resolutions: %w", err)
	}
	defer rows.Close()

	var records []domain.ResolutionRecord
	for rows.Next() {
		var rec domain.ResolutionRecord
		var matchesJSON, notesJSON []byte

		if err := rows.Scan(&rec.ID, &rec.Query, &rec.MatchCount, &matchesJSON, &notesJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan resolution: %w", err)
		}

		if matchesJSON != nil {
			if err := json.Unmarshal(matchesJSON, &rec.Matches); err != nil {
				return nil, fmt.Errorf("postgres: unmarshal matches: %w", err)
			}
		}
		if notesJSON != nil {
			if err := json.Unmarshal(notesJSON, &rec.Notes); err != nil {
				return nil, fmt.Errorf("postgres: unmarshal notes: %w", err)
			}
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list resolutions rows: %w", err)
	}
	return records, nil
}

// Count returns the total number of stored resolver runs.
func (s *ResolutionStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM resolutions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres: count resolutions: %w", err)
	}
	return count, nil
}

// Compile-time interface check.
var _ domain.ResolutionStore = (*ResolutionStore)(nil)
