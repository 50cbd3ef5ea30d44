package domain

import "time"

// MatchSource tags the strategy that discovered a match.
type MatchSource string

const (
	// MatchSourceTraditional marks matches found by literal or
	// denomination-aware symbol comparison.
	MatchSourceTraditional MatchSource = "traditional"
	// MatchSourceSmart marks matches found by following shared on-chain
	// contract identity across venues.
	MatchSourceSmart MatchSource = "smart"
)

// NetworkListing is one network's terms for one coin on one venue, exactly as
// the venue reports them. The Network label is free text; canonicalization
// happens inside the resolver, never here.
type NetworkListing struct {
	Network           string  `json:"network"`
	ChainType         string  `json:"chain_type,omitempty"`
	ContractAddress   string  `json:"contract_address,omitempty"`
	MinWithdrawal     float64 `json:"min_withdrawal"`
	WithdrawalFee     float64 `json:"withdrawal_fee"`
	DepositEnabled    bool    `json:"deposit_enabled"`
	WithdrawalEnabled bool    `json:"withdrawal_enabled"`
	BrowserURL        string  `json:"browser_url,omitempty"`
}

// CoinListing is one coin on one venue. Denomination, when greater than 1,
// means the listed symbol represents that many base units per displayed unit
// (e.g. 1000SATS carries Denomination 1000).
type CoinListing struct {
	Venue        string           `json:"venue"`
	Symbol       string           `json:"symbol"`
	Name         string           `json:"name"`
	Denomination int64            `json:"denomination,omitempty"`
	Networks     []NetworkListing `json:"networks"`
}

// Catalog maps a venue identifier to its ordered coin listings. The resolver
// treats a Catalog as an immutable snapshot; iteration over venues uses the
// Snapshot's recorded venue order so output stays deterministic.
type Catalog map[string][]CoinListing

// Match is one (venue, symbol, network) triple the resolver asserts denotes
// the queried asset. Symbol is the symbol as listed by the venue, which may
// differ from the query when a denomination match fired.
type Match struct {
	Venue           string      `json:"venue"`
	Symbol          string      `json:"symbol"`
	Network         string      `json:"network"`
	ContractAddress string      `json:"contract_address,omitempty"`
	Verified        bool        `json:"verified"`
	Source          MatchSource `json:"source"`
}

// Resolution is the resolver's output for one query. PossibleMatches is a
// reserved tier for lower-confidence matches; the current matching strategy
// never populates it but it remains part of the contract shape.
type Resolution struct {
	Query           string   `json:"query"`
	VerifiedMatches []Match  `json:"verified_matches"`
	PossibleMatches []Match  `json:"possible_matches"`
	Notes           []string `json:"notes,omitempty"`
}

// Snapshot is a point-in-time view of every venue's catalog. Venues preserves
// the configured venue order so downstream iteration is deterministic; Errors
// records per-venue fetch failures (a failed venue contributes an empty
// catalog, never an aborted snapshot).
type Snapshot struct {
	Venues    []string          `json:"venues"`
	Catalog   Catalog           `json:"catalog"`
	Errors    map[string]string `json:"errors,omitempty"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// VenueOrder returns the snapshot's venue order, falling back to nothing when
// the snapshot is empty. Callers must not mutate the returned slice.
func (s Snapshot) VenueOrder() []string {
	return s.Venues
}
