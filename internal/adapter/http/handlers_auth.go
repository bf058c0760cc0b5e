package adapthttp

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"fitrooms/internal/config"
	"fitrooms/internal/domain"
)

const (
	sessionCookie = "session"
	stateCookie   = "oauth_state"
)

// OIDC holds the discovered identity provider and the client settings used
// for the authorization code flow.
type OIDC struct {
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// NewOIDC discovers the provider at cfg.Issuer.
func NewOIDC(ctx context.Context, cfg config.OIDCConfig) (*OIDC, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}
	return &OIDC{
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sso_enabled":  s.oidc != nil,
		"forward_auth": s.cfg.Auth.ForwardAuth,
	})
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if s.oidc == nil {
		writeError(w, http.StatusNotFound, "sso_disabled", "sso disabled")
		return
	}
	state := generateState()
	encoded, err := s.cookies.Encode(stateCookie, state)
	if err != nil {
		s.writeServiceError(w, r, fmt.Errorf("encode state: %w", err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Auth.SecureCookies || r.TLS != nil,
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   300,
	})
	http.Redirect(w, r, s.oidc.OAuth2Config.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if s.oidc == nil {
		writeError(w, http.StatusNotFound, "sso_disabled", "sso disabled")
		return
	}

	var state string
	c, err := r.Cookie(stateCookie)
	if err != nil || s.cookies.Decode(stateCookie, c.Value, &state) != nil || r.URL.Query().Get("state") != state {
		writeError(w, http.StatusBadRequest, "invalid_state", "invalid state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, MaxAge: -1, Path: "/"})

	token, err := s.oidc.OAuth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.log.Warn("oidc code exchange failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "sso_failed", "failed to exchange token")
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		writeError(w, http.StatusBadGateway, "sso_failed", "no id_token")
		return
	}

	verifier := s.oidc.Provider.Verifier(&oidc.Config{ClientID: s.oidc.OAuth2Config.ClientID})
	idToken, err := verifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		s.log.Warn("oidc token verification failed", zap.Error(err))
		writeError(w, http.StatusUnauthorized, "sso_failed", "failed to verify token")
		return
	}

	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err = idToken.Claims(&claims); err != nil {
		writeError(w, http.StatusBadGateway, "sso_failed", "failed to parse claims")
		return
	}

	sessionToken, user, err := s.svc.Auth.LoginWithIdentity(r.Context(), domain.Identity{
		ExternalID:  claims.Sub,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, r.UserAgent(), clientIP(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.setSession(w, sessionToken); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log.Info("user signed in", zap.String("user_id", user.ID))
	target := "/"
	if !user.Onboarded {
		target = "/onboarding"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := s.readSession(r); ok {
		if err := s.svc.Auth.Logout(r.Context(), token); err != nil {
			s.log.Warn("logout failed", zap.Error(err))
		}
	}
	s.clearSession(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) setSession(w http.ResponseWriter, token string) error {
	encoded, err := s.cookies.Encode(sessionCookie, token)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Auth.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.svc.Auth.TTL().Seconds()),
	})
	return nil
}

func (s *Server) readSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	var token string
	if err := s.cookies.Decode(sessionCookie, c.Value, &token); err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
