package fetcher

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("page body"))
	}))
	defer srv.Close()

	f := New("blogscrapper-test/0.1", 0, false)
	body, err := f.Fetch(context.Background(), srv.URL+"/post")
	require.NoError(t, err)

	assert.Equal(t, "page body", string(body))
	assert.Equal(t, "blogscrapper-test/0.1", gotUA)
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := New("blogscrapper-test/0.1", 0, false)
	_, err := f.Fetch(context.Background(), srv.URL+"/missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFetchGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("compressed body"))
		gz.Close()
	}))
	defer srv.Close()

	f := New("blogscrapper-test/0.1", 0, false)
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "compressed body", string(body))
}

func TestFetchRobotsDisallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		w.Write([]byte("page"))
	}))
	defer srv.Close()

	f := New("blogscrapper-test/0.1", 0, true)

	_, err := f.Fetch(context.Background(), srv.URL+"/private/post")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "robots.txt disallows")

	body, err := f.Fetch(context.Background(), srv.URL+"/public/post")
	require.NoError(t, err)
	assert.Equal(t, "page", string(body))
}

func TestFetchRobotsMissingAllows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("page"))
	}))
	defer srv.Close()

	f := New("blogscrapper-test/0.1", 0, true)
	body, err := f.Fetch(context.Background(), srv.URL+"/post")
	require.NoError(t, err)

	assert.Equal(t, "page", string(body))
}

func TestFetchRobotsIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /\n"))
			return
		}
		w.Write([]byte("page"))
	}))
	defer srv.Close()

	f := New("blogscrapper-test/0.1", 0, false)
	body, err := f.Fetch(context.Background(), srv.URL+"/post")
	require.NoError(t, err)

	assert.Equal(t, "page", string(body))
}
