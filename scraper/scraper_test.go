package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<!doctype html>
<html><head>
<title>Fallback title</title>
<meta property="og:title" content="Campera de jean oversize" />
<meta property="og:site_name" content="DenimCo" />
<meta property="og:image" content="%s/main.jpg" />
</head><body><img src="/thumb.jpg"></body></html>`

func TestFetchGarmentFromOpenGraph(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/producto":
			fmt.Fprintf(w, productPage, srv.URL)
		case "/main.jpg":
			w.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s := New()
	g, err := s.FetchGarment(context.Background(), srv.URL+"/producto")
	require.NoError(t, err)
	assert.Equal(t, "Campera de jean oversize", g.Nombre)
	assert.Equal(t, "DenimCo", g.Marca)
	assert.Equal(t, srv.URL+"/main.jpg", g.ImageURL)

	data, err := s.DownloadImage(context.Background(), g.ImageURL)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0}, data)
}

func TestFetchGarmentFallbacks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title> Remera lisa </title></head><body><img src="/r.jpg"></body></html>`)
	}))
	defer srv.Close()

	g, err := New().FetchGarment(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Remera lisa", g.Nombre)
	assert.Equal(t, "/r.jpg", g.ImageURL)
	assert.Empty(t, g.Marca)
}

func TestFetchGarmentNoImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Sin foto</title></head><body></body></html>`)
	}))
	defer srv.Close()

	_, err := New().FetchGarment(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "no image")
}

func TestFetchGarmentBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New().FetchGarment(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "status 404")
}
