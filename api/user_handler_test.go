package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarpado/zarpado-api/models"
)

type listResponse struct {
	Historial []string `json:"historial"`
	Favoritos []string `json:"favoritos"`
	Error     string   `json:"error"`
}

func pathRequest(method, path string, params map[string]string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range params {
		req.SetPathValue(k, v)
	}
	return req
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) listResponse {
	t.Helper()
	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestDeleteHistoryAt(t *testing.T) {
	fx := newFixture(t)
	userID := fx.users.add(&models.User{Username: "ana"})

	keys := []string{"historial/a.jpg", "historial/b.jpg", "historial/c.jpg"}
	for _, k := range keys {
		require.NoError(t, fx.store.Save(t.Context(), k, []byte("img"), "image/jpeg"))
	}
	fx.users.users[userID].Historial = append([]string(nil), keys...)

	rec := httptest.NewRecorder()
	fx.api.DeleteHistoryAtHandler(rec, pathRequest(http.MethodDelete, "/api/usuarios/x/historial/1",
		map[string]string{"user_id": userID, "img_idx": "1"}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"historial/a.jpg", "historial/c.jpg"}, decodeList(t, rec).Historial)

	// The removed entry's file is gone, the others remain.
	_, err := os.Stat(filepath.Join(fx.store.Root, "historial", "b.jpg"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(fx.store.Root, "historial", "a.jpg"))
	assert.NoError(t, err)
}

func TestDeleteHistoryAtBadIndex(t *testing.T) {
	fx := newFixture(t)
	userID := fx.users.add(&models.User{Username: "ana", Historial: []string{"historial/a.jpg"}})

	for _, idx := range []string{"1", "-1", "zzz"} {
		rec := httptest.NewRecorder()
		fx.api.DeleteHistoryAtHandler(rec, pathRequest(http.MethodDelete, "/x",
			map[string]string{"user_id": userID, "img_idx": idx}, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "idx=%s", idx)
		assert.Equal(t, "Index out of range", decodeList(t, rec).Error)
	}
	assert.Equal(t, []string{"historial/a.jpg"}, fx.users.users[userID].Historial, "list unchanged")
}

func TestDeleteHistoryAtUnknownUser(t *testing.T) {
	fx := newFixture(t)

	rec := httptest.NewRecorder()
	fx.api.DeleteHistoryAtHandler(rec, pathRequest(http.MethodDelete, "/x",
		map[string]string{"user_id": "missing", "img_idx": "0"}, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddFavoriteDeduplicates(t *testing.T) {
	fx := newFixture(t)
	userID := fx.users.add(&models.User{Username: "ana"})

	form := url.Values{"image_path": {"historial/a.jpg"}}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		fx.api.AddFavoriteHandler(rec, pathRequest(http.MethodPost, "/x",
			map[string]string{"user_id": userID}, form))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"historial/a.jpg"}, decodeList(t, rec).Favoritos)
	}

	// A differently formatted path to the same file is not deduplicated.
	rec := httptest.NewRecorder()
	fx.api.AddFavoriteHandler(rec, pathRequest(http.MethodPost, "/x",
		map[string]string{"user_id": userID}, url.Values{"image_path": {"historial//a.jpg"}}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec).Favoritos, 2)
}

func TestDeleteFavoriteAtKeepsFiles(t *testing.T) {
	fx := newFixture(t)
	userID := fx.users.add(&models.User{Username: "ana", Favoritos: []string{"historial/a.jpg", "prendas/b.jpg"}})
	require.NoError(t, fx.store.Save(t.Context(), "historial/a.jpg", []byte("img"), "image/jpeg"))

	rec := httptest.NewRecorder()
	fx.api.DeleteFavoriteAtHandler(rec, pathRequest(http.MethodDelete, "/x",
		map[string]string{"user_id": userID, "img_idx": "0"}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"prendas/b.jpg"}, decodeList(t, rec).Favoritos)

	// Favorites removal never deletes files; history owns them.
	_, err := os.Stat(filepath.Join(fx.store.Root, "historial", "a.jpg"))
	assert.NoError(t, err)
}

func TestDeleteFavoriteAtBadIndex(t *testing.T) {
	fx := newFixture(t)
	userID := fx.users.add(&models.User{Username: "ana", Favoritos: []string{"a"}})

	rec := httptest.NewRecorder()
	fx.api.DeleteFavoriteAtHandler(rec, pathRequest(http.MethodDelete, "/x",
		map[string]string{"user_id": userID, "img_idx": "5"}, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"a"}, fx.users.users[userID].Favoritos)
}

func TestGetHistory(t *testing.T) {
	fx := newFixture(t)
	userID := fx.users.add(&models.User{Username: "ana", Historial: []string{"historial/a.jpg"}})

	rec := httptest.NewRecorder()
	fx.api.GetHistoryHandler(rec, pathRequest(http.MethodGet, "/x",
		map[string]string{"user_id": userID}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"historial/a.jpg"}, decodeList(t, rec).Historial)
}
