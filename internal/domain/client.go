package domain

// Represents a party whose proximity to service providers is analyzed.
// A Client without a location cannot be analyzed and is skipped by the
// ranking engine. Client records are read-only reference data during a
// ranking run.
type Client struct {
	ID       int
	Name     string
	UF       string
	CEP      string
	Location *Location
}

// Analyzable reports whether the client carries a usable location.
func (c *Client) Analyzable() bool {
	return c != nil && c.Location != nil && c.Location.Valid()
}
