package domain

// A candidate service location ranked by distance to a client.
// Providers are read-only reference data relative to the ranking engine;
// one without a location is excluded from the candidate set.
type Provider struct {
	ID           int
	Name         string
	UF           string
	Municipality string
	CEP          string
	Location     *Location
	ServiceType  string
	Specialties  []string
	Plans        []string
}

// Locatable reports whether the provider can participate in distance
// computation.
func (p *Provider) Locatable() bool {
	return p != nil && p.Location != nil && p.Location.Valid()
}
