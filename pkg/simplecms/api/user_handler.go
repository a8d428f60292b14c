package api

import (
	"net/http"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/validation"
)

// TokenResponse carries the access token issued by register and login
type TokenResponse struct {
	Token string          `json:"token"`
	User  *simplecms.User `json:"user"`
}

// Register creates an account and sets the token cookie
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var payload validation.RegisterPayload
	if err := decodeBody(r, &payload); err != nil {
		a.fail(w, r, err)
		return
	}
	cmd, err := a.validator.Register(payload)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	res, err := a.service.Register(r.Context(), cmd)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.setTokenCookie(w, r, res.Token)
	renderOK(w, r, http.StatusCreated, "User registered successfully", TokenResponse{Token: res.Token, User: res.User})
}

// Login checks a user's password and issues a token
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var payload validation.LoginPayload
	if err := decodeBody(r, &payload); err != nil {
		a.fail(w, r, err)
		return
	}
	cmd, err := a.validator.Login(payload)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	res, err := a.service.Login(r.Context(), cmd)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.setTokenCookie(w, r, res.Token)
	renderOK(w, r, http.StatusOK, "User validated successfully", TokenResponse{Token: res.Token, User: res.User})
}

// GetProfile returns the authenticated user
func (a *API) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := a.service.GetProfile(r.Context(), userID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, "User profile requested", user)
}

// UpdateProfile changes the authenticated user's profile
func (a *API) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var payload validation.ProfilePayload
	if err := decodeBody(r, &payload); err != nil {
		a.fail(w, r, err)
		return
	}
	cmd, err := a.validator.UpdateProfile(userID(r), payload)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	user, err := a.service.UpdateProfile(r.Context(), cmd)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, "User profile changed successfully", user)
}

func (a *API) setTokenCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
