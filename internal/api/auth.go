package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/susu3304/pokerpal/internal/account"
	"github.com/susu3304/pokerpal/internal/db"
)

type contextKey int

const claimsKey contextKey = iota

type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type sessionResponse struct {
	Token string   `json:"token"`
	User  *db.User `json:"user"`
}

// Auth handlers
func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.accounts.Signup(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeSession(w, http.StatusCreated, user)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeSession(w, http.StatusOK, user)
}

// Sessions are stateless tokens; the client drops its copy.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "logged out",
	})
}

func (a *API) handleDiscordLogin(w http.ResponseWriter, r *http.Request) {
	state := generateRandomString(32)
	url := a.oauthConfig.AuthCodeURL(state)

	writeJSON(w, http.StatusOK, map[string]string{
		"auth_url": url,
		"state":    state,
	})
}

func (a *API) authenticateDiscordUser(ctx context.Context, code string) (*db.User, error) {
	token, err := a.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	discordUser, err := a.getDiscordUser(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return a.accounts.LoginDiscord(ctx, discordUser.ID, getUsername(discordUser))
}

func (a *API) handleDiscordCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing code")
		return
	}

	user, err := a.authenticateDiscordUser(r.Context(), code)
	if err != nil {
		a.logger.Warn().Err(err).Msg("discord login failed")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	a.writeSession(w, http.StatusOK, user)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	id, _ := claims.UserUUID()

	user, err := a.accounts.User(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) writeSession(w http.ResponseWriter, status int, user *db.User) {
	token, err := a.issuer.Issue(user)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, status, sessionResponse{Token: token, User: user})
}

// Middleware
func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			writeError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		claims, err := a.issuer.Parse(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) *account.Claims {
	claims, _ := ctx.Value(claimsKey).(*account.Claims)
	return claims
}
