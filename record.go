package ares

import (
	"encoding/json"
	"strings"

	perr "github.com/webnazakazku/Ares/internal/platform/errors"
)

// Record is the canonical company record resolved from the registry
// Identifiers are strings on purpose: leading zeros are significant and
// registry house numbers may carry letters
type Record struct {
	CompanyID               string `json:"company_id"`
	TaxID                   string `json:"tax_id,omitempty"`
	CompanyName             string `json:"company_name"`
	Street                  string `json:"street,omitempty"`
	StreetHouseNumber       string `json:"street_house_number,omitempty"`
	StreetOrientationNumber string `json:"street_orientation_number,omitempty"`
	Town                    string `json:"town,omitempty"`
	Zip                     string `json:"zip,omitempty"`
}

// StreetWithNumbers renders the street line the way Czech postal
// addresses are written: "Dlouhá 730/35", "Obděnice 15"
func (r *Record) StreetWithNumbers() string {
	s := r.Street
	switch {
	case r.StreetHouseNumber != "" && r.StreetOrientationNumber != "":
		s += " " + r.StreetHouseNumber + "/" + r.StreetOrientationNumber
	case r.StreetHouseNumber != "":
		s += " " + r.StreetHouseNumber
	case r.StreetOrientationNumber != "":
		s += " " + r.StreetOrientationNumber
	}
	return strings.TrimSpace(s)
}

// FullAddress renders a single postal address line
func (r *Record) FullAddress() string {
	parts := make([]string, 0, 3)
	if s := r.StreetWithNumbers(); s != "" {
		parts = append(parts, s)
	}
	town := strings.TrimSpace(r.Zip + " " + r.Town)
	if town != "" {
		parts = append(parts, town)
	}
	return strings.Join(parts, ", ")
}

// TaxRecord is the resolved canonical tax identifier
type TaxRecord struct {
	TaxID string `json:"tax_id"`
}

// Records is an ordered search result set
type Records []*Record

// Person is one company person from the judicial register
type Person struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// cacheVersion tags serialized cache blobs; bump when the envelope shape
// changes so stale files from older builds read as misses
const cacheVersion = 1

// cacheEnvelope is the versioned serialization wrapper for cache files
// Exactly one payload field is populated depending on the lookup kind
type cacheEnvelope struct {
	Version int       `json:"v"`
	Record  *Record   `json:"record,omitempty"`
	Records Records   `json:"records,omitempty"`
	Tax     *TaxRecord `json:"tax,omitempty"`
}

func encodeEnvelope(env cacheEnvelope) ([]byte, error) {
	env.Version = cacheVersion
	return json.Marshal(env)
}

func decodeEnvelope(b []byte) (cacheEnvelope, error) {
	var env cacheEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return env, perr.Wrap(err, perr.ErrorCodeMalformed, "cache entry undecodable")
	}
	if env.Version != cacheVersion {
		return env, perr.Malformedf("cache entry version %d, want %d", env.Version, cacheVersion)
	}
	return env, nil
}
