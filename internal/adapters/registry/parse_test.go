package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	perr "github.com/webnazakazku/Ares/internal/platform/errors"
)

const basicFixture = `{
	"ico": "73263753",
	"obchodniJmeno": "\"Dennis Fridrich\"",
	"sidlo": {
		"nazevCastiObce": "Obděnice",
		"nazevObce": "Petrovice",
		"cisloDomovni": 15,
		"psc": 26255
	}
}`

const detailFixture = `<?xml version="1.0" encoding="UTF-8"?>
<are:Ares_odpovedi xmlns:are="http://wwwinfo.mfcr.cz/ares/xml_doc/schemas/ares/ares_answer/v_1.0.1"
                   xmlns:D="http://wwwinfo.mfcr.cz/ares/xml_doc/schemas/ares/ares_datatypes/v_1.0.1">
  <are:Odpoved>
    <D:Vypis_RES>
      <D:ZAU>
        <D:ICO>27074358</D:ICO>
        <D:OF>Burda Praha, spol. s r.o.</D:OF>
      </D:ZAU>
      <D:SI>
        <D:NU>Přemyslovská</D:NU>
        <D:CD>2845</D:CD>
        <D:CO>43</D:CO>
        <D:N>Praha 3</D:N>
        <D:PSC>13000</D:PSC>
      </D:SI>
    </D:Vypis_RES>
  </are:Odpoved>
</are:Ares_odpovedi>`

const taxFixture = `<?xml version="1.0" encoding="UTF-8"?>
<are:Ares_odpovedi xmlns:are="http://wwwinfo.mfcr.cz/ares/xml_doc/schemas/ares/ares_answer/v_1.0.1"
                   xmlns:dtt="http://wwwinfo.mfcr.cz/ares/xml_doc/schemas/ares/ares_datatypes/v_1.0.4">
  <are:Odpoved>
    <dtt:V>
      <dtt:S>
        <dtt:ico>12345678</dtt:ico>
        <dtt:p_dph>dic=12345678</dtt:p_dph>
      </dtt:S>
    </dtt:V>
  </are:Odpoved>
</are:Ares_odpovedi>`

const searchFixture = `<?xml version="1.0" encoding="UTF-8"?>
<are:Ares_odpovedi xmlns:are="http://wwwinfo.mfcr.cz/ares/xml_doc/schemas/ares/ares_answer/v_1.0.1"
                   xmlns:dtt="http://wwwinfo.mfcr.cz/ares/xml_doc/schemas/ares/ares_datatypes/v_1.0.4">
  <are:Odpoved>
    <dtt:V>
      <dtt:S>
        <dtt:ico>27074358</dtt:ico>
        <dtt:ojm>Burda Praha, spol. s r.o.</dtt:ojm>
        <dtt:dph>true</dtt:dph>
        <dtt:p_dph>dic=27074358</dtt:p_dph>
      </dtt:S>
      <dtt:S>
        <dtt:ico>73263753</dtt:ico>
        <dtt:ojm>Dennis Fridrich</dtt:ojm>
      </dtt:S>
    </dtt:V>
  </are:Odpoved>
</are:Ares_odpovedi>`

const emptySearchFixture = `<?xml version="1.0" encoding="UTF-8"?>
<are:Ares_odpovedi xmlns:are="http://wwwinfo.mfcr.cz/ares/xml_doc/schemas/ares/ares_answer/v_1.0.1"
                   xmlns:dtt="http://wwwinfo.mfcr.cz/ares/xml_doc/schemas/ares/ares_datatypes/v_1.0.4">
  <are:Odpoved>
    <dtt:V></dtt:V>
  </are:Odpoved>
</are:Ares_odpovedi>`

func TestParseBasic(t *testing.T) {
	subj, err := ParseBasic([]byte(basicFixture), "73263753")
	require.NoError(t, err)

	require.Equal(t, "73263753", subj.ID)
	require.Empty(t, subj.TaxID)
	// one layer of literal quotes gets stripped
	require.Equal(t, "Dennis Fridrich", subj.Name)

	require.NotNil(t, subj.Seat)
	require.Nil(t, subj.Addr)
	require.Equal(t, "Obděnice", subj.Seat.TownPart)
	require.Equal(t, "Petrovice", subj.Seat.Town)
	require.Equal(t, "15", subj.Seat.HouseNumber)
	require.Equal(t, "26255", subj.Seat.Zip)
}

func TestParseBasicEchoedIDMismatch(t *testing.T) {
	_, err := ParseBasic([]byte(basicFixture), "99999999")
	require.Error(t, err)
	require.True(t, perr.IsNotFound(err), "id mismatch must read as not found, got %v", err)
}

func TestParseBasicMalformed(t *testing.T) {
	_, err := ParseBasic([]byte("<html>gateway error</html>"), "73263753")
	require.Error(t, err)
	require.True(t, perr.IsMalformed(err), "got %v", err)
}

func TestParseDetail(t *testing.T) {
	subj, err := ParseDetail([]byte(detailFixture), "27074358")
	require.NoError(t, err)

	require.Equal(t, "27074358", subj.ID)
	require.Equal(t, "Burda Praha, spol. s r.o.", subj.Name)
	require.Nil(t, subj.Seat)
	require.NotNil(t, subj.Addr)
	require.Equal(t, "Přemyslovská", subj.Addr.Street)
	require.Equal(t, "2845", subj.Addr.HouseNumber)
	require.Equal(t, "43", subj.Addr.OrientationNumber)
	require.Equal(t, "Praha 3", subj.Addr.Town)
	require.Equal(t, "13000", subj.Addr.Zip)
}

func TestParseDetailEchoedIDMismatch(t *testing.T) {
	_, err := ParseDetail([]byte(detailFixture), "00000000")
	require.True(t, perr.IsNotFound(err), "got %v", err)
}

func TestParseDetailMalformed(t *testing.T) {
	_, err := ParseDetail([]byte("not xml at all"), "27074358")
	require.True(t, perr.IsMalformed(err), "got %v", err)
}

func TestParseTaxRewritesPrefix(t *testing.T) {
	taxID, err := ParseTax([]byte(taxFixture), "12345678")
	require.NoError(t, err)
	require.Equal(t, "CZ12345678", taxID)
}

func TestParseTaxEchoedIDMismatch(t *testing.T) {
	_, err := ParseTax([]byte(taxFixture), "87654321")
	require.True(t, perr.IsNotFound(err), "got %v", err)
}

func TestParseTaxUnparseableIsUnavailable(t *testing.T) {
	_, err := ParseTax([]byte("database offline"), "12345678")
	require.True(t, perr.IsUnavailable(err), "got %v", err)
}

func TestParseSearch(t *testing.T) {
	hits, err := ParseSearch([]byte(searchFixture))
	require.NoError(t, err)
	require.Len(t, hits, 2)

	require.Equal(t, "27074358", hits[0].ID)
	require.Equal(t, "Burda Praha, spol. s r.o.", hits[0].Name)
	require.Equal(t, "CZ27074358", hits[0].TaxID)

	// second row has no VAT flag, so no tax id
	require.Equal(t, "73263753", hits[1].ID)
	require.Empty(t, hits[1].TaxID)
}

func TestParseSearchNothingFound(t *testing.T) {
	_, err := ParseSearch([]byte(emptySearchFixture))
	require.True(t, perr.IsNotFound(err), "got %v", err)
}

func TestParseSearchUnparseableIsUnavailable(t *testing.T) {
	_, err := ParseSearch([]byte("<broken"))
	require.True(t, perr.IsUnavailable(err), "got %v", err)
}
