package dto

type ClientResponse struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	UF        string   `json:"uf"`
	CEP       string   `json:"cep,omitempty"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}
