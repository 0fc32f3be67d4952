package preview

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booknest/internal/shared"
)

const ogPage = `<!doctype html>
<html><head>
<title>Fallback Title</title>
<meta property="og:title" content="The Left Hand of Darkness">
<meta property="og:description" content="A classic of speculative fiction.">
<meta property="og:image" content="/covers/lhod.jpg">
<meta property="og:site_name" content="Open Shelf">
</head><body></body></html>`

const plainPage = `<html><head>
<title>  Dune  </title>
<meta name="description" content="Desert planet.">
</head></html>`

func TestParse_OpenGraph(t *testing.T) {
	base, _ := url.Parse("https://books.example.org/lhod")

	meta, err := Parse(strings.NewReader(ogPage), base)
	require.NoError(t, err)

	assert.Equal(t, "The Left Hand of Darkness", meta.Title)
	assert.Equal(t, "A classic of speculative fiction.", meta.Description)
	assert.Equal(t, "https://books.example.org/covers/lhod.jpg", meta.Image)
	assert.Equal(t, "Open Shelf", meta.SiteName)
	assert.Equal(t, "https://books.example.org/lhod", meta.URL)
}

func TestParse_TitleFallback(t *testing.T) {
	base, _ := url.Parse("https://dune.example.com/book")

	meta, err := Parse(strings.NewReader(plainPage), base)
	require.NoError(t, err)

	assert.Equal(t, "Dune", meta.Title)
	assert.Equal(t, "Desert planet.", meta.Description)
	assert.Empty(t, meta.Image)
	assert.Equal(t, "dune.example.com", meta.SiteName)
}

func newTestFetcher() *Fetcher {
	return NewFetcher(Config{
		Timeout:           2 * time.Second,
		UserAgent:         "BookNestTest/1.0",
		MaxBytes:          1 << 20,
		AllowPrivateHosts: true,
	})
}

func TestFetch_FromServer(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(ogPage))
	}))
	defer srv.Close()

	meta, err := newTestFetcher().Fetch(context.Background(), srv.URL+"/lhod")
	require.NoError(t, err)

	assert.Equal(t, "BookNestTest/1.0", gotUA)
	assert.Equal(t, "The Left Hand of Darkness", meta.Title)
	assert.Equal(t, srv.URL+"/covers/lhod.jpg", meta.Image)
}

func TestFetch_FollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(plainPage))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	meta, err := newTestFetcher().Fetch(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, "Dune", meta.Title)
	assert.Equal(t, srv.URL+"/new", meta.URL)
}

func TestFetch_Rejections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	f := newTestFetcher()
	for _, target := range []string{srv.URL + "/missing", srv.URL + "/json", "ftp://example.com/file", "not a url"} {
		_, err := f.Fetch(context.Background(), target)
		assert.True(t, shared.IsKind(err, shared.KindValidation), target)
	}
}

func TestFetch_BlocksPrivateHosts(t *testing.T) {
	f := NewFetcher(Config{Timeout: time.Second, UserAgent: "t"})

	for _, target := range []string{"http://127.0.0.1:8080/", "http://10.1.2.3/", "http://[::1]/", "http://169.254.169.254/latest"} {
		_, err := f.Fetch(context.Background(), target)
		require.Error(t, err, target)

		appErr, ok := shared.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "url must point to a public host", appErr.Message, target)
	}
}

func TestFetch_BlocksHostnameResolvingToLoopback(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hit = true
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(ogPage))
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	f := NewFetcher(Config{Timeout: 2 * time.Second, UserAgent: "t"})
	_, err = f.Fetch(context.Background(), "http://localhost:"+u.Port()+"/lhod")
	require.Error(t, err)

	appErr, ok := shared.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "url must point to a public host", appErr.Message)
	assert.False(t, hit)
}

func TestIsPublic(t *testing.T) {
	blocked := []string{
		"127.0.0.1", "10.0.0.8", "172.16.4.4", "192.168.1.1", "169.254.169.254",
		"100.64.0.1", "100.127.255.254", "0.0.0.0", "198.18.0.1",
		"::1", "fc00::1", "fd12:3456::1", "fe80::1", "::", "::ffff:127.0.0.1", "ff02::1",
	}
	for _, addr := range blocked {
		assert.False(t, isPublic(net.ParseIP(addr)), addr)
	}

	for _, addr := range []string{"93.184.216.34", "100.128.0.1", "2606:4700::1111"} {
		assert.True(t, isPublic(net.ParseIP(addr)), addr)
	}
}
