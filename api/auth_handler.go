package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zarpado/zarpado-api/auth"
	"github.com/zarpado/zarpado-api/db"
	"github.com/zarpado/zarpado-api/models"
	"github.com/zarpado/zarpado-api/utils"
)

// LoginRequest represents the payload for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupHandler registers a user and returns a token. The welcome mail is
// best effort; a send failure never fails the signup.
func (a *API) SignupHandler(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	if _, err := a.Users.FindByEmail(ctx, req.Email); err == nil {
		utils.RespondError(w, nil, "User with this email already exists", http.StatusConflict)
		return
	} else if !errors.Is(err, db.ErrUserNotFound) {
		utils.RespondError(w, nil, "Database error checking user", http.StatusInternalServerError)
		return
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
	userID, err := a.Users.Insert(ctx, user)
	if err != nil {
		utils.RespondError(w, nil, "Failed to create user", http.StatusInternalServerError)
		return
	}

	if a.Mailer != nil {
		if err := a.Mailer.SendWelcome(req.Username, req.Email); err != nil {
			log.Printf("signup: welcome mail to %s failed: %v", req.Email, err)
		}
	}

	token, err := auth.GenerateToken(userID)
	if err != nil {
		log.Printf("signup: could not issue token: %v", err)
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// LoginHandler verifies credentials and returns a token.
func (a *API) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, nil, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondError(w, nil, "email and password are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	user, err := a.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		utils.RespondError(w, nil, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.RespondError(w, nil, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		utils.RespondError(w, nil, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// MeHandler returns the authenticated user's record.
func (a *API) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	user, err := a.Users.FindByID(ctx, userID)
	if err != nil {
		utils.RespondError(w, nil, "User not found", statusFor(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}
