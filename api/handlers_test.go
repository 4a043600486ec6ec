package api

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zarpado/zarpado-api/db"
	"github.com/zarpado/zarpado-api/history"
	"github.com/zarpado/zarpado-api/models"
	"github.com/zarpado/zarpado-api/storage"
)

// fakeUsers is an in-memory UserStore that also satisfies
// history.UserHistories, so the ledger and the handlers share state.
type fakeUsers struct {
	users map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*models.User{}}
}

func (f *fakeUsers) add(u *models.User) string {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Historial == nil {
		u.Historial = []string{}
	}
	if u.Favoritos == nil {
		u.Favoritos = []string{}
	}
	f.users[u.ID.Hex()] = u
	return u.ID.Hex()
}

func (f *fakeUsers) get(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) Insert(_ context.Context, u *models.User) (string, error) {
	return f.add(u), nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	return f.get(id)
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, db.ErrUserNotFound
}

func (f *fakeUsers) List(_ context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	u, err := f.get(id)
	if err != nil {
		return err
	}
	if v, ok := fields["username"].(string); ok {
		u.Username = v
	}
	if v, ok := fields["email"].(string); ok {
		u.Email = v
	}
	if v, ok := fields["profile_image_path"].(string); ok {
		u.ProfileImagePath = v
	}
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if _, err := f.get(id); err != nil {
		return err
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) SetFavorites(_ context.Context, id string, entries []string) error {
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.Favoritos = entries
	return nil
}

func (f *fakeUsers) History(_ context.Context, id string) ([]string, error) {
	u, err := f.get(id)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), u.Historial...), nil
}

func (f *fakeUsers) SetHistory(_ context.Context, id string, entries []string) error {
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.Historial = entries
	return nil
}

// fakeDescriber counts calls and returns a fixed description.
type fakeDescriber struct {
	calls int
	err   error
}

func (f *fakeDescriber) DescribeGarment(context.Context, []byte) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "Anorak: lightweight nylon, short zipper, drawstring hood", nil
}

// fakeCompositor returns canned JPEG bytes or a configured error.
type fakeCompositor struct {
	calls  int
	result []byte
	err    error
}

func (f *fakeCompositor) GenerateComposite(_ context.Context, _ string, _, _ []byte) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fixture struct {
	api        *API
	users      *fakeUsers
	store      *storage.DiskStore
	describer  *fakeDescriber
	compositor *fakeCompositor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := newFakeUsers()
	store := storage.NewDiskStore(t.TempDir())
	describer := &fakeDescriber{}
	compositor := &fakeCompositor{result: jpegBytes(t)}
	return &fixture{
		api: &API{
			Users:      users,
			Describer:  describer,
			Compositor: compositor,
			Store:      store,
			Ledger:     history.NewLedger(users, store),
		},
		users:      users,
		store:      store,
		describer:  describer,
		compositor: compositor,
	}
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 4; i++ {
		img.Set(i, i, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// tryOnRequest builds the multipart POST the pipeline endpoint expects.
func tryOnRequest(t *testing.T, userID string, garment, subject []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("user_id", userID))

	fw, err := mw.CreateFormFile("file_prenda", "prenda.png")
	require.NoError(t, err)
	_, err = fw.Write(garment)
	require.NoError(t, err)

	fw, err = mw.CreateFormFile("file_usuario", "usuario.jpg")
	require.NoError(t, err)
	_, err = fw.Write(subject)
	require.NoError(t, err)

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/probar_prenda", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
