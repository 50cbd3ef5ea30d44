package domain

import (
	"context"
	"time"
)

// ResolutionRecord is one archived resolver run. Matches holds the verified
// matches exactly as returned to the caller; Notes carries the diagnostic
// notes from the same run.
type ResolutionRecord struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	MatchCount int       `json:"match_count"`
	Matches    []Match   `json:"matches"`
	Notes      []string  `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ResolutionStore persists resolver runs for operator audit.
type ResolutionStore interface {
	Insert(ctx context.Context, rec ResolutionRecord) error
	List(ctx context.Context, opts ListOpts) ([]ResolutionRecord, error)
	Count(ctx context.Context) (int64, error)
}

// ListOpts carries standard pagination and time-window filters.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}
