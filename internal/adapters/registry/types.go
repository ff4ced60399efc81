package registry

import (
	"github.com/webnazakazku/Ares/internal/core/address"
)

// Subject is one parsed company before address reconciliation
// Exactly one of Seat or Addr is set: the JSON basic-info shape delivers a
// raw candidate that still needs reconciling, the legacy detail XML already
// carries flat address fields
type Subject struct {
	ID    string
	TaxID string
	Name  string

	Seat *address.Candidate
	Addr *address.Address
}

// SearchHit is one row of a fulltext search result
type SearchHit struct {
	ID    string
	Name  string
	TaxID string
}
