package registry

import (
	"encoding/xml"
	"strings"

	perr "github.com/webnazakazku/Ares/internal/platform/errors"
)

// ParseSearch decodes the fulltext search XML into ordered hits
// Zero result rows is "nothing found", not an empty success
func ParseSearch(body []byte) ([]SearchHit, error) {
	var doc esDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "Databáze ARES není dostupná.")
	}

	rows := doc.Odpoved.V.S
	if len(rows) == 0 {
		return nil, perr.New(perr.ErrorCodeNotFound, "Nic nebylo nalezeno.")
	}

	hits := make([]SearchHit, 0, len(rows))
	for _, r := range rows {
		hit := SearchHit{
			ID:   strings.TrimSpace(r.ICO),
			Name: strings.TrimSpace(r.OJM),
		}
		// the tax id only means anything when the VAT-payer flag element
		// is populated
		if strings.TrimSpace(r.DPH) != "" {
			hit.TaxID = canonicalTaxID(r.PDPH)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
