package domain

import "time"

// One persisted proximity result: a provider's 1-based position in a
// client's sorted-by-distance candidate list. Snapshot fields are
// denormalized at computation time so reports need no joins.
type RankingEntry struct {
	ID         int
	ClientID   int
	ProviderID int
	DistanceKm float64
	Rank       int
	AnalyzedAt time.Time

	ClientName       string
	ClientCEP        string
	ClientUF         string
	ClientLocation   Location
	ProviderName     string
	ProviderCEP      string
	ProviderUF       string
	ProviderLocation Location
	Plans            string
	Specialties      string
}

// Aggregates derived from the persisted ranking set, not from the full
// reference tables.
type Statistics struct {
	ClientCount   int
	ProviderCount int
	AvgDistanceKm float64
	TotalEntries  int
}
