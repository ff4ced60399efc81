package registry

import (
	"encoding/json"
	"strings"

	"github.com/webnazakazku/Ares/internal/core/address"
	perr "github.com/webnazakazku/Ares/internal/platform/errors"
)

// basicSeat mirrors the "sidlo" object of the REST basic-info payload
// Numeric house fields arrive as JSON numbers, everything else as strings;
// json.Number keeps absent numbers as empty without inventing zeros
type basicSeat struct {
	NazevUlice              string      `json:"nazevUlice"`
	NazevCastiObce          string      `json:"nazevCastiObce"`
	NazevObce               string      `json:"nazevObce"`
	CisloDomovni            json.Number `json:"cisloDomovni"`
	CisloDoAdresy           json.Number `json:"cisloDoAdresy"`
	CisloOrientacni         json.Number `json:"cisloOrientacni"`
	CisloOrientacniPismeno  string      `json:"cisloOrientacniPismeno"`
	NazevMestskeCastiObvodu string      `json:"nazevMestskeCastiObvodu"`
	NazevMestskehoObvodu    string      `json:"nazevMestskehoObvodu"`
	PSC                     json.Number `json:"psc"`
	PSCTxt                  string      `json:"pscTxt"`
	TextovaAdresa           string      `json:"textovaAdresa"`
}

type basicResponse struct {
	ICO           string    `json:"ico"`
	DIC           string    `json:"dic"`
	ObchodniJmeno string    `json:"obchodniJmeno"`
	Sidlo         basicSeat `json:"sidlo"`
}

// ParseBasic decodes the JSON basic-info payload for one subject
// Undecodable payloads are malformed; an echoed company id differing from
// wantID means the subject does not exist, HTTP success notwithstanding
func ParseBasic(body []byte, wantID string) (*Subject, error) {
	var resp basicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeMalformed, "Databáze ARES není dostupná.")
	}
	if resp.ICO != wantID {
		return nil, perr.New(perr.ErrorCodeNotFound, "IČ firmy nebylo nalezeno.")
	}

	name := resp.ObchodniJmeno
	// registry sometimes stores names wrapped in literal quotes, strip one
	// layer when both ends carry one
	if len(name) >= 2 && strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) {
		name = name[1 : len(name)-1]
	}

	return &Subject{
		ID:    resp.ICO,
		TaxID: resp.DIC,
		Name:  name,
		Seat: &address.Candidate{
			Street:            resp.Sidlo.NazevUlice,
			TownPart:          resp.Sidlo.NazevCastiObce,
			Town:              resp.Sidlo.NazevObce,
			HouseNumber:       resp.Sidlo.CisloDomovni.String(),
			DescriptiveNumber: resp.Sidlo.CisloDoAdresy.String(),
			OrientationNumber: resp.Sidlo.CisloOrientacni.String(),
			OrientationLetter: resp.Sidlo.CisloOrientacniPismeno,
			BoroughPart:       resp.Sidlo.NazevMestskeCastiObvodu,
			Borough:           resp.Sidlo.NazevMestskehoObvodu,
			Zip:               resp.Sidlo.PSC.String(),
			ZipText:           resp.Sidlo.PSCTxt,
			FreeText:          resp.Sidlo.TextovaAdresa,
		},
	}, nil
}
