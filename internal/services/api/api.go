// Package api exposes registry lookups as a small read-only HTTP API
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/webnazakazku/Ares"
	perr "github.com/webnazakazku/Ares/internal/platform/errors"
	"github.com/webnazakazku/Ares/internal/platform/metrics"
	phttp "github.com/webnazakazku/Ares/internal/platform/net/http"
	"github.com/webnazakazku/Ares/internal/platform/net/middleware"
)

// Resolver is the lookup surface the handlers need
// *ares.Client satisfies it; tests substitute stubs
type Resolver interface {
	FindByCompanyID(ctx context.Context, id string) (*ares.Record, error)
	FindByResID(ctx context.Context, id string) (*ares.Record, error)
	FindTaxID(ctx context.Context, id string) (*ares.TaxRecord, error)
	FindByName(ctx context.Context, name, city string) (ares.Records, error)
	CompanyPeople(ctx context.Context, id string) ([]ares.Person, error)
}

// Options configure the API surface
type Options struct {
	Resolver Resolver

	// CORSOrigins restricts cross-origin callers, empty allows any
	CORSOrigins []string
}

type handlers struct {
	resolver Resolver
	validate *validator.Validate
}

// Mount wires middleware and routes onto the mux
func Mount(m *chi.Mux, opt Options) {
	h := &handlers{
		resolver: opt.Resolver,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	m.Use(middleware.RequestID)
	m.Use(middleware.AccessLog(middleware.AccessLogOptions{Slow: 2 * time.Second}))
	m.Use(middleware.CORS(middleware.CORSOptions{AllowedOrigins: opt.CORSOrigins}))

	m.Get("/healthz", h.health)
	m.Handle("/metrics", metrics.Handler())

	m.Route("/v1", func(r chi.Router) {
		r.Get("/subjects/{id}", h.subject)
		r.Get("/subjects/{id}/detail", h.subjectDetail)
		r.Get("/subjects/{id}/tax", h.subjectTax)
		r.Get("/subjects/{id}/people", h.subjectPeople)
		r.Get("/search", h.search)
	})
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	phttp.RespondOK(w, r, map[string]string{"status": "ok"})
}

func (h *handlers) subject(w http.ResponseWriter, r *http.Request) {
	rec, err := h.resolver.FindByCompanyID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondOK(w, r, rec)
}

func (h *handlers) subjectDetail(w http.ResponseWriter, r *http.Request) {
	rec, err := h.resolver.FindByResID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondOK(w, r, rec)
}

func (h *handlers) subjectTax(w http.ResponseWriter, r *http.Request) {
	tax, err := h.resolver.FindTaxID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondOK(w, r, tax)
}

func (h *handlers) subjectPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.resolver.CompanyPeople(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondOK(w, r, people)
}

// searchQuery binds and validates the /v1/search query string
type searchQuery struct {
	Name string `validate:"required,min=3"`
	City string
}

func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	q := searchQuery{
		Name: r.URL.Query().Get("name"),
		City: r.URL.Query().Get("city"),
	}
	if err := h.validate.Struct(q); err != nil {
		phttp.RespondError(w, r, perr.InvalidArgf("Zadejte minimálně 3 znaky pro hledání."))
		return
	}

	recs, err := h.resolver.FindByName(r.Context(), q.Name, q.City)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondOK(w, r, recs)
}
