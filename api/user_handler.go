package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zarpado/zarpado-api/config"
	"github.com/zarpado/zarpado-api/db"
	"github.com/zarpado/zarpado-api/history"
	"github.com/zarpado/zarpado-api/models"
	"github.com/zarpado/zarpado-api/utils"
)

// CreateUserRequest represents the payload for user creation
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"` // "final" or "admin"
}

// CreateUserHandler registers a user with empty history and favorites.
func (a *API) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, nil, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		utils.RespondError(w, nil, "username, email and password are required", http.StatusBadRequest)
		return
	}
	if req.Rol == "" {
		req.Rol = "final"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, nil, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		Rol:       req.Rol,
		Historial: []string{},
		Favoritos: []string{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	if _, err := a.Users.Insert(ctx, user); err != nil {
		utils.RespondError(w, nil, "Failed to create user", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, user)
}

// ListUsersHandler returns all users.
func (a *API) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	users, err := a.Users.List(ctx)
	if err != nil {
		utils.RespondError(w, nil, "Failed to list users", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, users)
}

// GetUserHandler returns a user by id.
func (a *API) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	user, err := a.Users.FindByID(ctx, r.PathValue("user_id"))
	if err != nil {
		utils.RespondError(w, nil, "User not found", statusFor(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

// UpdateUserHandler patches username, email and/or password from form fields.
func (a *API) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")

	fields := map[string]interface{}{}
	if v := r.FormValue("username"); v != "" {
		fields["username"] = v
	}
	if v := r.FormValue("email"); v != "" {
		fields["email"] = v
	}
	if v := r.FormValue("password"); v != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(v), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, nil, "Failed to hash password", http.StatusInternalServerError)
			return
		}
		fields["password"] = string(hashed)
	}
	if len(fields) == 0 {
		utils.RespondError(w, nil, "Nothing to update", http.StatusBadRequest)
		return
	}
	fields["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	if err := a.Users.UpdateFields(ctx, userID, fields); err != nil {
		utils.RespondError(w, nil, "User not found", statusFor(err))
		return
	}
	user, err := a.Users.FindByID(ctx, userID)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch user", statusFor(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

// DeleteUserHandler removes a user record.
func (a *API) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	if err := a.Users.Delete(ctx, r.PathValue("user_id")); err != nil {
		utils.RespondError(w, nil, "User not found", statusFor(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"msg": "User deleted"})
}

// UploadProfileImageHandler stores a profile picture under usuarios/ and
// records its key on the user.
func (a *API) UploadProfileImageHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, nil, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, nil, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, nil, "Failed to read file", http.StatusBadRequest)
		return
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("%s/%s_profile%s", config.UserImgDir, userID, ext)

	if err := a.Store.Save(r.Context(), key, data, header.Header.Get("Content-Type")); err != nil {
		utils.RespondError(w, nil, "Failed to save profile image", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	fields := map[string]interface{}{"profile_image_path": key, "updated_at": time.Now()}
	if err := a.Users.UpdateFields(ctx, userID, fields); err != nil {
		utils.RespondError(w, nil, "User not found", statusFor(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"profile_image_path": key})
}

// GetHistoryHandler returns the stored history keys, oldest first.
func (a *API) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	user, err := a.Users.FindByID(ctx, r.PathValue("user_id"))
	if err != nil {
		utils.RespondError(w, nil, "User not found", statusFor(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"historial": user.Historial})
}

// DeleteHistoryAtHandler removes the history entry at the given index and
// best-effort deletes its backing file.
func (a *API) DeleteHistoryAtHandler(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.PathValue("img_idx"))
	if err != nil {
		utils.RespondError(w, nil, "Index out of range", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	entries, err := a.Ledger.RemoveAt(ctx, r.PathValue("user_id"), idx)
	if err != nil {
		switch {
		case errors.Is(err, history.ErrIndexOutOfRange):
			utils.RespondError(w, nil, "Index out of range", http.StatusBadRequest)
		case errors.Is(err, db.ErrUserNotFound):
			utils.RespondError(w, nil, "User not found", http.StatusNotFound)
		default:
			utils.RespondError(w, nil, "Failed to update history", http.StatusInternalServerError)
		}
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"historial": entries})
}

// GetFavoritesHandler returns the stored favorite keys.
func (a *API) GetFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	user, err := a.Users.FindByID(ctx, r.PathValue("user_id"))
	if err != nil {
		utils.RespondError(w, nil, "User not found", statusFor(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"favoritos": user.Favoritos})
}

// AddFavoriteHandler appends image_path to favorites unless already
// present. Membership is exact-string; no path normalization is applied.
func (a *API) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	imagePath := r.FormValue("image_path")
	if imagePath == "" {
		utils.RespondError(w, nil, "image_path is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	user, err := a.Users.FindByID(ctx, r.PathValue("user_id"))
	if err != nil {
		utils.RespondError(w, nil, "User not found", statusFor(err))
		return
	}

	favoritos := user.Favoritos
	exists := false
	for _, f := range favoritos {
		if f == imagePath {
			exists = true
			break
		}
	}
	if !exists {
		favoritos = append(favoritos, imagePath)
		if err := a.Users.SetFavorites(ctx, user.ID.Hex(), favoritos); err != nil {
			utils.RespondError(w, nil, "Failed to update favorites", statusFor(err))
			return
		}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"favoritos": favoritos})
}

// DeleteFavoriteAtHandler removes the favorite at the given index. Files
// are never deleted here; favorites only reference paths owned elsewhere.
func (a *API) DeleteFavoriteAtHandler(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.PathValue("img_idx"))
	if err != nil {
		utils.RespondError(w, nil, "Index out of range", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	user, err := a.Users.FindByID(ctx, r.PathValue("user_id"))
	if err != nil {
		utils.RespondError(w, nil, "User not found", statusFor(err))
		return
	}

	favoritos, _, err := history.RemoveIndex(user.Favoritos, idx)
	if err != nil {
		utils.RespondError(w, nil, "Index out of range", http.StatusBadRequest)
		return
	}
	if err := a.Users.SetFavorites(ctx, user.ID.Hex(), favoritos); err != nil {
		utils.RespondError(w, nil, "Failed to update favorites", statusFor(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"favoritos": favoritos})
}
