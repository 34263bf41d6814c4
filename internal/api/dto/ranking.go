package dto

import "time"

type RankingEntryResponse struct {
	ClientID          int       `json:"client_id"`
	ProviderID        int       `json:"provider_id"`
	DistanceKm        float64   `json:"distance_km"`
	Rank              int       `json:"rank"`
	AnalyzedAt        time.Time `json:"analyzed_at"`
	ClientName        string    `json:"client_name"`
	ClientCEP         string    `json:"client_cep,omitempty"`
	ClientUF          string    `json:"client_uf"`
	ClientLatitude    float64   `json:"client_latitude"`
	ClientLongitude   float64   `json:"client_longitude"`
	ProviderName      string    `json:"provider_name"`
	ProviderCEP       string    `json:"provider_cep,omitempty"`
	ProviderUF        string    `json:"provider_uf"`
	ProviderLatitude  float64   `json:"provider_latitude"`
	ProviderLongitude float64   `json:"provider_longitude"`
	Plans             string    `json:"plans,omitempty"`
	Specialties       string    `json:"specialties,omitempty"`
}

type ListRankingsResponse struct {
	Rankings []RankingEntryResponse `json:"rankings"`
}

type CalculateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CalculateAllResponse struct {
	Success   bool `json:"success"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`
}
