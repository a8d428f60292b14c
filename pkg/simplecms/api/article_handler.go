package api

import (
	"net/http"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/validation"
)

// ListArticles returns the authenticated user's articles
func (a *API) ListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := a.service.ListArticles(r.Context(), userID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if articles == nil {
		articles = []*simplecms.Article{}
	}
	renderOK(w, r, http.StatusOK, "Articles from user requested", articles)
}

// CreateArticle creates an article from a multipart body with its image in
// the "image" field
func (a *API) CreateArticle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.validator.MaxUploadBytes()+multipartMemory)

	var payload validation.ArticlePayload
	if err := decodeBody(r, &payload); err != nil {
		a.fail(w, r, err)
		return
	}
	image, err := a.readUpload(r, "image")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	cmd, err := a.validator.CreateArticle(userID(r), payload, image)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	article, err := a.service.CreateArticle(r.Context(), cmd)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	renderOK(w, r, http.StatusCreated, "New article created successfully", article)
}

// UpdateArticleData replaces an article's descriptive fields
func (a *API) UpdateArticleData(w http.ResponseWriter, r *http.Request) {
	var payload validation.ArticleDataPayload
	if err := decodeBody(r, &payload); err != nil {
		a.fail(w, r, err)
		return
	}
	cmd, err := a.validator.UpdateArticleData(payload)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	article, err := a.service.UpdateArticleData(r.Context(), cmd)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, "Article info changed successfully", article)
}

// UpdatePublishState sets an article's published flag
func (a *API) UpdatePublishState(w http.ResponseWriter, r *http.Request) {
	var payload validation.PublishPayload
	if err := decodeBody(r, &payload); err != nil {
		a.fail(w, r, err)
		return
	}
	cmd, err := a.validator.PublishState(payload)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	article, err := a.service.UpdatePublishState(r.Context(), cmd)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, "Article publish state changed successfully", article)
}

// DeleteArticle removes an article with its sections
func (a *API) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	var payload validation.IDPayload
	if err := decodeBody(r, &payload); err != nil {
		a.fail(w, r, err)
		return
	}
	id, err := a.validator.ID(payload)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	if err := a.service.DeleteArticle(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, "Article removed successfully", nil)
}
