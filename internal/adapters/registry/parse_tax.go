package registry

import (
	"encoding/xml"
	"strings"

	perr "github.com/webnazakazku/Ares/internal/platform/errors"
)

// esDocument mirrors the ares_es.cgi XML used by both the tax-detail and
// fulltext-search responses: repeated dtt:S subject rows under dtt:V
type esDocument struct {
	XMLName xml.Name `xml:"Ares_odpovedi"`
	Odpoved struct {
		V struct {
			S []esSubject `xml:"S"`
		} `xml:"V"`
	} `xml:"Odpoved"`
}

type esSubject struct {
	ICO  string `xml:"ico"`
	OJM  string `xml:"ojm"`
	JMN  string `xml:"jmn"`
	DPH  string `xml:"dph"`
	PDPH string `xml:"p_dph"`
}

// canonicalTaxID rewrites the raw "dic=XXXXXXXX" field into the canonical
// CZ-prefixed tax identifier
func canonicalTaxID(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), "dic=", "CZ")
}

// ParseTax decodes the tax-detail XML for one subject
// An unparseable document counts as the service being down, an echoed id
// mismatch as the tax id not existing
func ParseTax(body []byte, wantID string) (string, error) {
	var doc esDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "Databáze MFČR není dostupná.")
	}

	rows := doc.Odpoved.V.S
	if len(rows) == 0 || strings.TrimSpace(rows[0].ICO) != wantID {
		return "", perr.New(perr.ErrorCodeNotFound, "DIČ firmy nebylo nalezeno.")
	}

	return canonicalTaxID(rows[0].PDPH), nil
}
