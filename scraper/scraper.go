// Package scraper imports garments from product pages: it pulls the title,
// brand and main image out of a page's Open Graph tags.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// PageGarment is what could be extracted from a product page.
type PageGarment struct {
	Nombre   string
	Marca    string
	ImageURL string
}

// Scraper fetches product pages and their images.
type Scraper struct {
	Client *http.Client
}

func New() *Scraper {
	return &Scraper{Client: &http.Client{Timeout: 30 * time.Second}}
}

// FetchGarment downloads the page and extracts garment metadata. Fails when
// the page is unreachable or exposes no image.
func (s *Scraper) FetchGarment(ctx context.Context, pageURL string) (*PageGarment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid product URL: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product page: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product page returned status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse product page: %w", err)
	}

	g := &PageGarment{
		Nombre:   metaContent(doc, "og:title"),
		Marca:    metaContent(doc, "og:site_name"),
		ImageURL: metaContent(doc, "og:image"),
	}

	if g.Nombre == "" {
		g.Nombre = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if g.ImageURL == "" {
		if src, ok := doc.Find("img[src]").First().Attr("src"); ok {
			g.ImageURL = src
		}
	}
	if g.ImageURL == "" {
		return nil, fmt.Errorf("product page has no image")
	}
	return g, nil
}

// DownloadImage fetches the raw bytes of a product image.
func (s *Scraper) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned status %d", res.StatusCode)
	}
	return io.ReadAll(res.Body)
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
	return strings.TrimSpace(content)
}
