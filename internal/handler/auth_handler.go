package handler

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"time"

	"go-blog-app/internal/auth"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/service"
	"go-blog-app/internal/session"

	"github.com/casbin/casbin/v2"
)

// AuthHandler holds the dependencies for the authentication handlers. The
// identity itself comes from the external OIDC provider; this handler only
// runs the redirect dance, mirrors the claims into a local profile row and
// stores the subject in the session.
type AuthHandler struct {
	auth     *auth.Authenticator
	sm       session.Manager
	enforcer casbin.IEnforcer
	users    service.UserRepository
	log      logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(a *auth.Authenticator, sm session.Manager, enforcer casbin.IEnforcer, users service.UserRepository, log logger.Logger) *AuthHandler {
	return &AuthHandler{auth: a, sm: sm, enforcer: enforcer, users: users, log: log}
}

// handleLogin redirects the user to the OIDC provider to log in.
// It uses a random 'state' string for CSRF protection.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randString(16)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	// Store the state in a short-lived cookie to verify on callback.
	http.SetCookie(w, &http.Cookie{
		Name:     "state",
		Value:    state,
		Path:     "/",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
	})
	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
}

// oidcClaims are the identity token claims this application consumes.
type oidcClaims struct {
	Subject           string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	GivenName         string `json:"given_name"`
	FamilyName        string `json:"family_name"`
	Email             string `json:"email"`
}

// handleCallback is the redirect URL for the OIDC provider. It exchanges the
// code, verifies the ID token, upserts the local profile and starts the
// session.
func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	// Verify the state parameter to prevent CSRF attacks.
	stateCookie, err := r.Cookie("state")
	if err != nil {
		http.Error(w, "state cookie not found", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		http.Error(w, "state did not match", http.StatusBadRequest)
		return
	}

	// Exchange the authorization code for an OAuth2 token.
	oauth2Token, err := h.auth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		http.Error(w, "Failed to exchange token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Extract the ID Token from the OAuth2 token.
	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		http.Error(w, "No id_token field in oauth2 token", http.StatusInternalServerError)
		return
	}

	// Verify the ID Token's signature and claims.
	idToken, err := h.auth.IDTokenVerifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		http.Error(w, "Failed to verify ID Token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var claims oidcClaims
	if err := idToken.Claims(&claims); err != nil {
		http.Error(w, "Failed to read ID Token claims: "+err.Error(), http.StatusInternalServerError)
		return
	}

	profile := profileFromClaims(claims)
	if err := h.users.UpsertUser(r.Context(), profile); err != nil {
		h.log.Error(err, "Failed to upsert user profile on login")
		http.Error(w, "Failed to store user profile", http.StatusInternalServerError)
		return
	}

	// Authenticated identities get the member role for the route gate.
	if err := auth.GrantMember(h.enforcer, claims.Subject); err != nil {
		h.log.Error(err, "Failed to grant member role")
	}

	h.sm.Put(r.Context(), "user_subject", claims.Subject)
	h.sm.Put(r.Context(), "user_username", profile.Username)

	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout destroys the session and returns to the index.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sm.Destroy(r.Context()); err != nil {
		h.log.Error(err, "Failed to destroy session on logout")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// profileFromClaims builds the local profile row for an identity. The
// username falls back to the e-mail local part and finally the raw subject,
// so every identity ends up with something usable in profile URLs.
func profileFromClaims(claims oidcClaims) *data.User {
	username := claims.PreferredUsername
	if username == "" && claims.Email != "" {
		username = strings.SplitN(claims.Email, "@", 2)[0]
	}
	if username == "" {
		username = claims.Subject
	}
	return &data.User{
		Subject:   claims.Subject,
		Username:  username,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
		Email:     claims.Email,
	}
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
