// Package auth resolves a request to a user identity. The raw user_id
// header accepted here mirrors the original deployment and carries no
// verification; real installations should rely on the Bearer token path.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthenticated is returned when a request carries no usable identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is a resolved, existing user.
type Identity struct {
	UserID string
}

// UserFinder checks that an identifier maps to a stored user.
type UserFinder interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Provider extracts an identity from a request.
type Provider interface {
	Identify(r *http.Request) (Identity, error)
}

// TokenProvider resolves "Authorization: Bearer <jwt>".
type TokenProvider struct {
	Users UserFinder
}

func (p *TokenProvider) Identify(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return Identity{}, ErrUnauthenticated
	}
	userID, err := ValidateToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}
	return p.verify(r.Context(), userID)
}

func (p *TokenProvider) verify(ctx context.Context, userID string) (Identity, error) {
	ok, err := p.Users.Exists(ctx, userID)
	if err != nil {
		return Identity{}, err
	}
	if !ok {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{UserID: userID}, nil
}

// HeaderProvider resolves the legacy raw user_id header.
type HeaderProvider struct {
	Users UserFinder
}

func (p *HeaderProvider) Identify(r *http.Request) (Identity, error) {
	userID := r.Header.Get("user_id")
	if userID == "" {
		return Identity{}, ErrUnauthenticated
	}
	ok, err := p.Users.Exists(r.Context(), userID)
	if err != nil {
		return Identity{}, err
	}
	if !ok {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{UserID: userID}, nil
}

// ChainProvider tries each provider in order and returns the first identity.
type ChainProvider []Provider

func (c ChainProvider) Identify(r *http.Request) (Identity, error) {
	for _, p := range c {
		id, err := p.Identify(r)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrUnauthenticated) {
			return Identity{}, err
		}
	}
	return Identity{}, ErrUnauthenticated
}

type contextKey string

const identityKey contextKey = "identity"

// Middleware attaches the resolved identity to the request context. With
// required set, unidentified requests are rejected with 401.
func Middleware(p Provider, required bool) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			id, err := p.Identify(r)
			if err != nil {
				if required {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				next(w, r)
				return
			}
			next(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
		}
	}
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok {
		return "", ErrUnauthenticated
	}
	return id.UserID, nil
}
