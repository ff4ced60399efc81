package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	perr "github.com/webnazakazku/Ares/internal/platform/errors"
)

func TestFetchReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ico":"123"}`))
	}))
	defer srv.Close()

	c := NewClient(Options{})
	body, err := c.Fetch(context.Background(), srv.URL+"/x")
	require.NoError(t, err)
	require.Equal(t, `{"ico":"123"}`, string(body))
	require.Equal(t, srv.URL+"/x", c.LastURL())
}

func TestFetch404IsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such subject", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Options{})
	_, err := c.Fetch(context.Background(), srv.URL)
	require.True(t, perr.IsNotFound(err), "got %v", err)
}

func TestFetchUpstreamErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"kod":"DOCASNE_NEDOSTUPNE","popis":"Služba je dočasně nedostupná","subKod":"RES"}`))
	}))
	defer srv.Close()

	c := NewClient(Options{})
	_, err := c.Fetch(context.Background(), srv.URL)
	require.True(t, perr.IsUnavailable(err), "got %v", err)
	require.Contains(t, err.Error(), "DOCASNE_NEDOSTUPNE")
	require.Contains(t, err.Error(), "Služba je dočasně nedostupná")
}

func TestFetchPlainErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Options{})
	_, err := c.Fetch(context.Background(), srv.URL)
	require.True(t, perr.IsUnavailable(err), "got %v", err)
	require.Contains(t, err.Error(), "HTTP 500")
}

func TestFetchTransportFailureIsUnavailable(t *testing.T) {
	c := NewClient(Options{})
	// nothing listens here
	_, err := c.Fetch(context.Background(), "http://127.0.0.1:1/nothing")
	require.True(t, perr.IsUnavailable(err), "got %v", err)
}

func TestBalancerWrapsTargetURL(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	target := "http://wwwinfo.mfcr.cz/cgi-bin/ares/darv_res.cgi?ICO=26168685"
	c := NewClient(Options{Balancer: srv.URL})
	body, err := c.Fetch(context.Background(), target)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))

	// the balancer receives the original target as its url parameter
	require.Equal(t, target, gotQuery.Get("url"))

	// and LastURL reports what actually went on the wire
	require.Equal(t, srv.URL+"?url="+url.QueryEscape(target), c.LastURL())
}
