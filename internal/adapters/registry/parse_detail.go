package registry

import (
	"encoding/xml"
	"strings"

	"github.com/webnazakazku/Ares/internal/core/address"
	perr "github.com/webnazakazku/Ares/internal/platform/errors"
)

// detailDocument mirrors the darv_res.cgi XML: the D-namespaced Vypis_RES
// block nested under the are-namespaced answer element. Tags match on
// local names so the two namespace prefixes need no special handling
type detailDocument struct {
	XMLName xml.Name `xml:"Ares_odpovedi"`
	Odpoved struct {
		VypisRES struct {
			ZAU struct {
				ICO string `xml:"ICO"`
				OF  string `xml:"OF"`
			} `xml:"ZAU"`
			SI struct {
				NU  string `xml:"NU"`
				CD  string `xml:"CD"`
				CO  string `xml:"CO"`
				N   string `xml:"N"`
				PSC string `xml:"PSC"`
			} `xml:"SI"`
		} `xml:"Vypis_RES"`
	} `xml:"Odpoved"`
}

// ParseDetail decodes the legacy company-detail XML for one subject
// The tax id is not part of this document; the orchestrator composes it
// from the tax endpoint
func ParseDetail(body []byte, wantID string) (*Subject, error) {
	var doc detailDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeMalformed, "Databáze ARES není dostupná.")
	}

	v := doc.Odpoved.VypisRES
	if strings.TrimSpace(v.ZAU.ICO) != wantID {
		return nil, perr.New(perr.ErrorCodeNotFound, "IČ firmy nebylo nalezeno.")
	}

	return &Subject{
		ID:   wantID,
		Name: strings.TrimSpace(v.ZAU.OF),
		Addr: &address.Address{
			Street:            strings.TrimSpace(v.SI.NU),
			HouseNumber:       strings.TrimSpace(v.SI.CD),
			OrientationNumber: strings.TrimSpace(v.SI.CO),
			Town:              strings.TrimSpace(v.SI.N),
			Zip:               strings.TrimSpace(v.SI.PSC),
		},
	}, nil
}
