package api

import (
	"net/http"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/validation"
)

// ListSections returns the sections of the article named by the
// article_id_query parameter
func (a *API) ListSections(w http.ResponseWriter, r *http.Request) {
	articleID, err := a.validator.ArticleIDQuery(r.URL.Query().Get("article_id_query"))
	if err != nil {
		a.fail(w, r, err)
		return
	}

	sections, err := a.service.ListSections(r.Context(), articleID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if sections == nil {
		sections = []*simplecms.SectionView{}
	}
	renderOK(w, r, http.StatusOK, "Sections from article requested", sections)
}

// CreateSection adds a section and its style. Image sections carry the file
// in the "image" field of a multipart body.
func (a *API) CreateSection(w http.ResponseWriter, r *http.Request) {
	payload, ok := a.decodeSection(w, r)
	if !ok {
		return
	}
	upload, err := a.readUpload(r, "image")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	cmd, err := a.validator.CreateSection(payload, upload)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	section, err := a.service.CreateSection(r.Context(), cmd)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	renderOK(w, r, http.StatusCreated, "New section content and styles created successfully", section)
}

// UpdateSection replaces a section's content and style
func (a *API) UpdateSection(w http.ResponseWriter, r *http.Request) {
	payload, ok := a.decodeSection(w, r)
	if !ok {
		return
	}
	upload, err := a.readUpload(r, "image")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	cmd, err := a.validator.UpdateSection(payload, upload)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	section, err := a.service.UpdateSection(r.Context(), cmd)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, "Section content and styles changed successfully", section)
}

// DeleteSection removes a section and its style
func (a *API) DeleteSection(w http.ResponseWriter, r *http.Request) {
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

	if err := a.service.DeleteSection(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, "Section content and styles removed successfully", nil)
}

func (a *API) decodeSection(w http.ResponseWriter, r *http.Request) (validation.SectionPayload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, a.validator.MaxUploadBytes()+multipartMemory)

	var payload validation.SectionPayload
	if err := decodeBody(r, &payload); err != nil {
		a.fail(w, r, err)
		return payload, false
	}
	return payload, true
}
