// Package api exposes the HTTP surface. Handlers hang off an API value
// whose collaborators (store, repositories, model clients) are injected at
// startup, so each of them can be swapped for a fake in tests.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/zarpado/zarpado-api/db"
	"github.com/zarpado/zarpado-api/history"
	"github.com/zarpado/zarpado-api/models"
	"github.com/zarpado/zarpado-api/scraper"
	"github.com/zarpado/zarpado-api/storage"
)

const (
	dbTimeout        = 10 * time.Second
	describeTimeout  = 2 * time.Minute
	compositeTimeout = 5 * time.Minute
)

// GarmentDescriber produces a free-text description of a garment photo.
type GarmentDescriber interface {
	DescribeGarment(ctx context.Context, garmentJPEG []byte) (string, error)
}

// CompositeGenerator edits the subject photo to wear the described garment.
type CompositeGenerator interface {
	GenerateComposite(ctx context.Context, description string, garmentJPEG, subjectJPEG []byte) ([]byte, error)
}

// UserStore is the user persistence the handlers need.
type UserStore interface {
	Insert(ctx context.Context, u *models.User) (string, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	SetFavorites(ctx context.Context, id string, entries []string) error
}

// GarmentStore is the garment persistence the handlers need.
type GarmentStore interface {
	Insert(ctx context.Context, g *models.Garment) (string, error)
	FindByID(ctx context.Context, id string) (*models.Garment, error)
	List(ctx context.Context) ([]models.Garment, error)
	ListByTipo(ctx context.Context, tipo string) ([]models.Garment, error)
	ListByMarca(ctx context.Context, marca string) ([]models.Garment, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// WelcomeMailer greets new users; failures are logged, never surfaced.
type WelcomeMailer interface {
	SendWelcome(toName, toEmail string) error
}

// GarmentImporter pulls garment metadata and images out of product pages.
type GarmentImporter interface {
	FetchGarment(ctx context.Context, pageURL string) (*scraper.PageGarment, error)
	DownloadImage(ctx context.Context, imageURL string) ([]byte, error)
}

// API holds the wired collaborators for every handler.
type API struct {
	Users      UserStore
	Garments   GarmentStore
	Describer  GarmentDescriber
	Compositor CompositeGenerator
	Store      storage.Store
	Ledger     *history.Ledger
	Mailer     WelcomeMailer
	Importer   GarmentImporter
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrUserNotFound), errors.Is(err, db.ErrGarmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, history.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// mediaURLs maps stored history keys to client-addressable URLs.
func (a *API) mediaURLs(ctx context.Context, keys []string) []string {
	urls := make([]string, 0, len(keys))
	for _, k := range keys {
		urls = append(urls, a.Store.URL(ctx, k))
	}
	return urls
}
