package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/validation"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response is the envelope of every JSON response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func renderOK(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, Response{Status: statusSuccess, Message: message, Data: data})
}

func renderFail(w http.ResponseWriter, r *http.Request, status int, message string, detail interface{}) {
	render.Status(r, status)
	render.JSON(w, r, Response{Status: statusError, Message: message, Error: detail})
}

// fail maps a service or validation error to its response.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *simplecms.ValidationError
	switch {
	case errors.As(err, &verr):
		renderFail(w, r, http.StatusBadRequest, "Validation data error", verr.Fields)
	case errors.Is(err, errBadBody), errors.Is(err, simplecms.ErrMissingAsset):
		renderFail(w, r, http.StatusBadRequest, "Validation data error", err.Error())
	case errors.Is(err, errUnsupportedMediaType):
		renderFail(w, r, http.StatusUnsupportedMediaType, "Unsupported content type", nil)
	case errors.Is(err, validation.ErrArticleIDNotNumber):
		renderFail(w, r, http.StatusBadRequest, "Article Id can not be transform into a number", nil)
	case errors.Is(err, simplecms.ErrArticleNameExists):
		renderFail(w, r, a.conflictStatus, "Existing article name", nil)
	case errors.Is(err, simplecms.ErrUserNameExists):
		renderFail(w, r, a.conflictStatus, "Existing user name", nil)
	case errors.Is(err, simplecms.ErrImageNameInUse):
		renderFail(w, r, http.StatusConflict, "Image name already in use", nil)
	case errors.Is(err, simplecms.ErrIncorrectCredentials):
		renderFail(w, r, http.StatusUnauthorized, "Incorrect password", nil)
	case errors.Is(err, simplecms.ErrSigningSecretMissing):
		a.logger.Error("token signing secret is not configured", "path", r.URL.Path)
		renderFail(w, r, http.StatusInternalServerError, "Secret key is not provided in the API", nil)
	case errors.Is(err, simplecms.ErrUserNotFound):
		renderFail(w, r, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, simplecms.ErrArticleNotFound):
		renderFail(w, r, http.StatusNotFound, "Article not found", nil)
	case errors.Is(err, simplecms.ErrSectionNotFound), errors.Is(err, simplecms.ErrStyleNotFound):
		renderFail(w, r, http.StatusNotFound, "Section not found", nil)
	default:
		a.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		renderFail(w, r, http.StatusInternalServerError, "Internal server error", nil)
	}
}

// unauthorized answers requests rejected by the token authenticator
func (a *API) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, simplecms.ErrSigningSecretMissing):
		a.fail(w, r, err)
	case errors.Is(err, jwtauth.ErrExpired):
		renderFail(w, r, http.StatusUnauthorized, "Token expired", nil)
	case errors.Is(err, jwtauth.ErrNoTokenFound):
		renderFail(w, r, http.StatusUnauthorized, "Token not provided", nil)
	case errors.Is(err, auth.ErrMissingUserID):
		renderFail(w, r, http.StatusUnauthorized, "Invalid token", nil)
	default:
		a.logger.Debug("token rejected", "path", r.URL.Path, "error", err)
		renderFail(w, r, http.StatusUnauthorized, "Invalid token", nil)
	}
}
