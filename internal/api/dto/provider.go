package dto

type ProviderResponse struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	UF           string   `json:"uf"`
	Municipality string   `json:"municipality"`
	CEP          string   `json:"cep,omitempty"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ServiceType  string   `json:"service_type,omitempty"`
	Specialties  []string `json:"specialties,omitempty"`
	Plans        []string `json:"plans,omitempty"`
}

type ListProvidersResponse struct {
	Providers []ProviderResponse `json:"providers"`
}
