package ares

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/zeebo/xxh3"

	"github.com/webnazakazku/Ares/internal/adapters/registry"
	"github.com/webnazakazku/Ares/internal/core/address"
	"github.com/webnazakazku/Ares/internal/core/normalize"
	perr "github.com/webnazakazku/Ares/internal/platform/errors"
	"github.com/webnazakazku/Ares/internal/platform/metrics"
)

// cache kinds, one per lookup source
const (
	kindBasic  = "bas"
	kindDetail = "res"
	kindTax    = "tax"
	kindSearch = "find"
)

// FindByCompanyID resolves one subject through the JSON basic-info source
func (c *Client) FindByCompanyID(ctx context.Context, id string) (*Record, error) {
	if err := validateID(id); err != nil {
		metrics.Lookups.WithLabelValues(kindBasic, "invalid").Inc()
		return nil, err
	}
	if rec, ok := c.cachedRecord(kindBasic, id); ok {
		return rec, nil
	}

	body, err := c.fetcher.Fetch(ctx, registry.BasicURL(id))
	if err != nil {
		return nil, c.finish(kindBasic, err)
	}
	c.cache.PutRaw(kindBasic, id, body)

	subj, err := registry.ParseBasic(body, id)
	if err != nil {
		return nil, c.finish(kindBasic, err)
	}

	rec := recordFromSubject(subj)
	c.storeRecord(kindBasic, id, rec)
	metrics.Lookups.WithLabelValues(kindBasic, "ok").Inc()
	return rec, nil
}

// FindByResID resolves one subject through the legacy company-detail XML
// source. The tax id is composed from the tax source, so a tax outage
// fails this lookup too
func (c *Client) FindByResID(ctx context.Context, id string) (*Record, error) {
	if err := validateID(id); err != nil {
		metrics.Lookups.WithLabelValues(kindDetail, "invalid").Inc()
		return nil, err
	}
	if rec, ok := c.cachedRecord(kindDetail, id); ok {
		return rec, nil
	}

	body, err := c.fetcher.Fetch(ctx, registry.DetailURL(id))
	if err != nil {
		return nil, c.finish(kindDetail, err)
	}
	c.cache.PutRaw(kindDetail, id, body)

	subj, err := registry.ParseDetail(body, id)
	if err != nil {
		return nil, c.finish(kindDetail, err)
	}

	tax, err := c.FindTaxID(ctx, id)
	if err != nil {
		return nil, c.finish(kindDetail, err)
	}

	rec := recordFromSubject(subj)
	rec.TaxID = tax.TaxID
	c.storeRecord(kindDetail, id, rec)
	metrics.Lookups.WithLabelValues(kindDetail, "ok").Inc()
	return rec, nil
}

// FindTaxID resolves the canonical CZ-prefixed tax identifier of one subject
func (c *Client) FindTaxID(ctx context.Context, id string) (*TaxRecord, error) {
	if err := validateID(id); err != nil {
		metrics.Lookups.WithLabelValues(kindTax, "invalid").Inc()
		return nil, err
	}
	if b, ok := c.cacheGet(kindTax, id); ok {
		if env, err := decodeEnvelope(b); err == nil && env.Tax != nil {
			return env.Tax, nil
		}
	}

	body, err := c.fetcher.Fetch(ctx, registry.TaxURL(id))
	if err != nil {
		return nil, c.finish(kindTax, err)
	}
	c.cache.PutRaw(kindTax, id, body)

	taxID, err := registry.ParseTax(body, id)
	if err != nil {
		return nil, c.finish(kindTax, err)
	}

	tax := &TaxRecord{TaxID: taxID}
	c.storeEnvelope(kindTax, id, cacheEnvelope{Tax: tax})
	metrics.Lookups.WithLabelValues(kindTax, "ok").Inc()
	return tax, nil
}

// FindByName searches subjects by company name and optional city through
// the fulltext source. The query must be at least three characters; both
// terms are diacritic-normalized before URL construction
func (c *Client) FindByName(ctx context.Context, name, city string) (Records, error) {
	if utf8.RuneCountInString(name) < 3 {
		metrics.Lookups.WithLabelValues(kindSearch, "invalid").Inc()
		return nil, perr.InvalidArgf("Zadejte minimálně 3 znaky pro hledání.")
	}

	key := searchKey(name, city)
	if b, ok := c.cacheGet(kindSearch, key); ok {
		if env, err := decodeEnvelope(b); err == nil && env.Records != nil {
			return env.Records, nil
		}
	}

	url := registry.SearchURL(
		normalize.StripDiacritics(name),
		normalize.StripDiacritics(city),
	)
	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, c.finish(kindSearch, err)
	}
	c.cache.PutRaw(kindSearch, key, body)

	hits, err := registry.ParseSearch(body)
	if err != nil {
		return nil, c.finish(kindSearch, err)
	}

	records := make(Records, 0, len(hits))
	for _, h := range hits {
		records = append(records, &Record{
			CompanyID:   h.ID,
			CompanyName: h.Name,
			TaxID:       h.TaxID,
		})
	}
	c.storeEnvelope(kindSearch, key, cacheEnvelope{Records: records})
	metrics.Lookups.WithLabelValues(kindSearch, "ok").Inc()
	return records, nil
}

// CompanyPeople enriches a subject with director and shareholder names
// scraped from the judicial register. Never cached: the source is a UI
// scrape and page layouts rot quickly
func (c *Client) CompanyPeople(ctx context.Context, id string) ([]Person, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	rec, err := c.justice.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	people := make([]Person, 0, len(rec.People))
	for _, p := range rec.People {
		people = append(people, Person{Role: p.Role, Name: p.Name})
	}
	return people, nil
}

// validateID enforces the numeric-string identifier contract before any
// cache or network access
func validateID(id string) error {
	if id == "" {
		return perr.InvalidArgf("IČ firmy musí být zadáno.")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return perr.InvalidArgf("IČ firmy musí být číslo.")
		}
	}
	return nil
}

// searchKey derives a stable cache key from the raw query terms
func searchKey(name, city string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(name+"\x00"+city))
}

func recordFromSubject(s *registry.Subject) *Record {
	var addr address.Address
	switch {
	case s.Seat != nil:
		addr = address.Reconcile(*s.Seat)
	case s.Addr != nil:
		addr = *s.Addr
	}
	return &Record{
		CompanyID:               s.ID,
		TaxID:                   s.TaxID,
		CompanyName:             s.Name,
		Street:                  addr.Street,
		StreetHouseNumber:       addr.HouseNumber,
		StreetOrientationNumber: addr.OrientationNumber,
		Town:                    addr.Town,
		Zip:                     addr.Zip,
	}
}

// cacheGet reads one raw envelope, counting hit/miss
func (c *Client) cacheGet(kind, key string) ([]byte, bool) {
	b, ok := c.cache.Get(kind, key)
	if ok {
		metrics.Cache.WithLabelValues(kind, "hit").Inc()
	} else {
		metrics.Cache.WithLabelValues(kind, "miss").Inc()
	}
	return b, ok
}

// cachedRecord reads one single-record envelope. Undecodable or
// wrong-shaped entries count as misses
func (c *Client) cachedRecord(kind, key string) (*Record, bool) {
	b, ok := c.cacheGet(kind, key)
	if !ok {
		return nil, false
	}
	env, err := decodeEnvelope(b)
	if err != nil || env.Record == nil {
		c.log.Warn().Err(err).Str("kind", kind).Str("key", key).Msg("discarding undecodable cache entry")
		return nil, false
	}
	return env.Record, true
}

// storeRecord persists one record, best effort: a failed write is logged
// and the already-computed record still flows to the caller
func (c *Client) storeRecord(kind, key string, rec *Record) {
	c.storeEnvelope(kind, key, cacheEnvelope{Record: rec})
}

func (c *Client) storeEnvelope(kind, key string, env cacheEnvelope) {
	b, err := encodeEnvelope(env)
	if err == nil {
		err = c.cache.Put(kind, key, b)
	}
	if err != nil {
		c.log.Warn().Err(err).Str("kind", kind).Str("key", key).Msg("cache write failed")
	}
}

// finish records the failure outcome for one lookup kind and passes the
// error through untouched
func (c *Client) finish(kind string, err error) error {
	switch {
	case perr.IsNotFound(err):
		metrics.Lookups.WithLabelValues(kind, "not_found").Inc()
	case perr.IsUnavailable(err), perr.IsMalformed(err):
		metrics.Lookups.WithLabelValues(kind, "unavailable").Inc()
	default:
		metrics.Lookups.WithLabelValues(kind, "error").Inc()
	}
	return err
}
