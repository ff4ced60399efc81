package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/webnazakazku/Ares"
	perr "github.com/webnazakazku/Ares/internal/platform/errors"
)

// stubResolver returns canned values per method
type stubResolver struct {
	record *ares.Record
	tax    *ares.TaxRecord
	recs   ares.Records
	people []ares.Person
	err    error

	gotID, gotName, gotCity string
}

func (s *stubResolver) FindByCompanyID(_ context.Context, id string) (*ares.Record, error) {
	s.gotID = id
	return s.record, s.err
}

func (s *stubResolver) FindByResID(_ context.Context, id string) (*ares.Record, error) {
	s.gotID = id
	return s.record, s.err
}

func (s *stubResolver) FindTaxID(_ context.Context, id string) (*ares.TaxRecord, error) {
	s.gotID = id
	return s.tax, s.err
}

func (s *stubResolver) FindByName(_ context.Context, name, city string) (ares.Records, error) {
	s.gotName, s.gotCity = name, city
	return s.recs, s.err
}

func (s *stubResolver) CompanyPeople(_ context.Context, id string) ([]ares.Person, error) {
	s.gotID = id
	return s.people, s.err
}

func serve(t *testing.T, s *stubResolver, target string) *httptest.ResponseRecorder {
	t.Helper()
	m := chi.NewRouter()
	Mount(m, Options{Resolver: s})
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       int             `json:"code"`
	Error      string          `json:"error"`
	RequestID  string          `json:"request_id"`
	Data       json.RawMessage `json:"data"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestSubjectOK(t *testing.T) {
	s := &stubResolver{record: &ares.Record{CompanyID: "27074358", CompanyName: "Burda Praha, spol. s r.o."}}
	rr := serve(t, s, "/v1/subjects/27074358")

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "27074358", s.gotID)

	env := decode(t, rr)
	require.NotEmpty(t, env.RequestID)

	var rec ares.Record
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	require.Equal(t, "Burda Praha, spol. s r.o.", rec.CompanyName)
}

func TestSubjectNotFound(t *testing.T) {
	s := &stubResolver{err: perr.NotFoundf("IČ firmy nebylo nalezeno.")}
	rr := serve(t, s, "/v1/subjects/99999999")

	require.Equal(t, http.StatusNotFound, rr.Code)
	env := decode(t, rr)
	require.Equal(t, "IČ firmy nebylo nalezeno.", env.Error)
	require.Equal(t, http.StatusNotFound, env.StatusCode)
}

func TestSubjectInvalidID(t *testing.T) {
	s := &stubResolver{err: perr.InvalidArgf("IČ firmy musí být číslo.")}
	rr := serve(t, s, "/v1/subjects/abc")

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Equal(t, "IČ firmy musí být číslo.", decode(t, rr).Error)
}

func TestSubjectUpstreamDown(t *testing.T) {
	s := &stubResolver{err: perr.Unavailablef("Databáze ARES není dostupná.")}
	rr := serve(t, s, "/v1/subjects/27074358")

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestSubjectTax(t *testing.T) {
	s := &stubResolver{tax: &ares.TaxRecord{TaxID: "CZ27074358"}}
	rr := serve(t, s, "/v1/subjects/27074358/tax")

	require.Equal(t, http.StatusOK, rr.Code)
	var tax ares.TaxRecord
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &tax))
	require.Equal(t, "CZ27074358", tax.TaxID)
}

func TestSubjectPeople(t *testing.T) {
	s := &stubResolver{people: []ares.Person{{Role: "jednatel", Name: "Jan Novák"}}}
	rr := serve(t, s, "/v1/subjects/27074358/people")

	require.Equal(t, http.StatusOK, rr.Code)
	var people []ares.Person
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &people))
	require.Len(t, people, 1)
	require.Equal(t, "Jan Novák", people[0].Name)
}

func TestSearch(t *testing.T) {
	s := &stubResolver{recs: ares.Records{{CompanyID: "27074358"}}}
	rr := serve(t, s, "/v1/search?name=Burda&city=Praha")

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Burda", s.gotName)
	require.Equal(t, "Praha", s.gotCity)
}

func TestSearchQueryTooShort(t *testing.T) {
	s := &stubResolver{}
	rr := serve(t, s, "/v1/search?name=ab")

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Equal(t, "Zadejte minimálně 3 znaky pro hledání.", decode(t, rr).Error)
	// the resolver is never consulted
	require.Empty(t, s.gotName)
}

func TestHealthz(t *testing.T) {
	rr := serve(t, &stubResolver{}, "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
}
