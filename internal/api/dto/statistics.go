package dto

type StatisticsResponse struct {
	ClientCount   int     `json:"client_count"`
	ProviderCount int     `json:"provider_count"`
	AvgDistanceKm float64 `json:"avg_distance_km"`
	TotalEntries  int     `json:"total_entries"`
}
