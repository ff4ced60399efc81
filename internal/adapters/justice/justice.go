// Package justice scrapes the public commercial register at or.justice.cz
// to enrich a company record with director and shareholder names
//
// There is no machine API for this data, so the adapter walks the public
// search UI: subject search by IČO, then the full-extract detail page,
// then the labeled record tables on it
package justice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	perr "github.com/webnazakazku/Ares/internal/platform/errors"
	"github.com/webnazakazku/Ares/internal/platform/logger"
)

const (
	baseURL     = "https://or.justice.cz/ias/ui/"
	subjectsURL = "https://or.justice.cz/ias/ui/rejstrik-$firma?ico=%s"

	defaultTimeout = 15 * time.Second
)

// Person is one named person attached to a company record
type Person struct {
	Role string
	Name string
}

// Record is the scraped result for one company
type Record struct {
	People []Person
}

// Client scrapes the register UI
type Client struct {
	http *http.Client
	base string
	log  *logger.Logger
}

// NewClient builds a scraper client; hc may be nil for defaults
func NewClient(hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		http: hc,
		base: baseURL,
		log:  logger.Named("justice"),
	}
}

// WithBase overrides the register base URL, used by tests
func (c *Client) WithBase(base string) *Client {
	c.base = base
	return c
}

// FindByID returns the people listed on the full extract of one subject
func (c *Client) FindByID(ctx context.Context, id string) (*Record, error) {
	searchURL := fmt.Sprintf(subjectsURL, id)
	if c.base != baseURL {
		searchURL = fmt.Sprintf(c.base+"rejstrik-$firma?ico=%s", id)
	}

	doc, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	detailPath, ok := extractDetailPath(doc)
	if !ok {
		return nil, perr.New(perr.ErrorCodeNotFound, "Subjekt nebyl nalezen.")
	}

	doc, err = c.get(ctx, c.base+detailPath)
	if err != nil {
		return nil, err
	}

	return &Record{People: extractPeople(doc)}, nil
}

func (c *Client) get(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "justice request build failed")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "Justice.cz není dostupné.")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "Justice.cz není dostupné.")
	}
	if resp.StatusCode >= 400 {
		return nil, perr.Unavailablef("Justice.cz není dostupné. Zpráva: HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeMalformed, "Justice.cz není dostupné.")
	}
	return doc, nil
}

// extractDetailPath picks the full-extract link from the subject search
// results. The second result link is the "úplný výpis"; a page without it
// means the subject does not exist in the register
func extractDetailPath(doc *goquery.Document) (string, bool) {
	links := doc.Find(".result-links > li > a")
	if links.Length() < 2 {
		return "", false
	}
	href, ok := links.Eq(1).Attr("href")
	if !ok || href == "" {
		return "", false
	}
	return href, true
}

// titles of record tables that carry people we care about
var personTitles = map[string]string{
	"jednatel:":  "jednatel",
	"Jednatel:":  "jednatel",
	"Společník:": "společník",
}

// extractPeople walks the labeled record tables of the full extract and
// collects unique director and shareholder names
func extractPeople(doc *goquery.Document) []Person {
	var people []Person
	seen := map[string]bool{}

	doc.Find(".aunp-content .div-table").Each(func(_ int, table *goquery.Selection) {
		title := strings.TrimSpace(table.Find(".vr-hlavicka").First().Text())
		role, ok := personTitles[title]
		if !ok {
			return
		}
		name := strings.TrimSpace(table.Find(".vr-obsah span").First().Text())
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		people = append(people, Person{Role: role, Name: name})
	})

	return people
}
