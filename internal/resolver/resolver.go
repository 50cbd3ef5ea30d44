package resolver

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/cexsync/cexsync/internal/domain"
)

// Resolver resolves query symbols against catalog snapshots. Construct once
// and share; Resolve holds no mutable state.
type Resolver struct {
	std    *Standardizer
	logger *slog.Logger
}

func New(std *Standardizer, logger *slog.Logger) *Resolver {
	if std == nil {
		std = NewStandardizer(DefaultAliasGroups())
	}
	return &Resolver{
		std:    std,
		logger: logger.With(slog.String("component", "resolver")),
	}
}

// Standardizer exposes the resolver's network standardizer so transport
// layers can canonicalize labels consistently with resolution output.
func (r *Resolver) Standardizer() *Standardizer { return r.std }

// Resolve runs the full pipeline for one query symbol: traditional symbol
// matching, then contract-closure discovery, then a stable merge. The empty
// snapshot resolves to an empty (never nil) match list. Per-venue fetch
// errors recorded on the snapshot surface as notes on the resolution.
func (r *Resolver) Resolve(query string, snap domain.Snapshot) domain.Resolution {
	venues := snap.Venues
	if len(venues) == 0 {
		venues = make([]string, 0, len(snap.Catalog))
		for venue := range snap.Catalog {
			venues = append(venues, venue)
		}
		sort.Strings(venues)
	}

	idx := buildContractIndex(r.std, venues, snap.Catalog)
	traditional := matchTraditional(query, venues, snap.Catalog)
	smart := matchSmart(r.std, query, venues, snap.Catalog, idx)
	merged := dedupe(append(traditional, smart...))

	var notes []string
	for _, venue := range venues {
		if msg, ok := snap.Errors[venue]; ok {
			notes = append(notes, fmt.Sprintf("%s: catalog unavailable: %s", venue, msg))
		}
	}

	r.logger.Debug("resolved query",
		slog.String("query", query),
		slog.Int("traditional", len(traditional)),
		slog.Int("smart", len(smart)),
		slog.Int("merged", len(merged)))

	return domain.Resolution{
		Query:           query,
		VerifiedMatches: merged,
		PossibleMatches: []domain.Match{},
		Notes:           notes,
	}
}

// dedupe removes duplicate matches while preserving first-seen order, so
// traditional matches win over smart matches for the same listing. Two
// matches collide when venue, symbol and network agree and their contract
// addresses agree case-insensitively after trimming; a match with a blank
// contract address only collides with other blank-address matches.
func dedupe(matches []domain.Match) []domain.Match {
	out := make([]domain.Match, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		key := m.Venue + "\x00" + m.Symbol + "\x00" + m.Network
		if contract := strings.TrimSpace(m.ContractAddress); contract != "" {
			key += "\x00" + strings.ToLower(contract)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}
