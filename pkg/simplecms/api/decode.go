package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/ajg/form"
	"github.com/go-chi/render"

	"github.com/tendant/simple-cms/pkg/simplecms"
)

const multipartMemory = 32 << 20

var (
	errBadBody              = errors.New("malformed request body")
	errUnsupportedMediaType = errors.New("unsupported content type")
)

// decodeBody fills dst from a JSON, urlencoded or multipart body. Form
// bodies are matched against the form tags of dst.
func decodeBody(r *http.Request, dst interface{}) error {
	switch render.GetRequestContentType(r) {
	case render.ContentTypeJSON:
		if err := render.DecodeJSON(r.Body, dst); err != nil {
			return fmt.Errorf("%w: %v", errBadBody, err)
		}
		return nil
	case render.ContentTypeForm:
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %v", errBadBody, err)
		}
		return decodeValues(dst, r.PostForm)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return errUnsupportedMediaType
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return decodeValues(dst, r.MultipartForm.Value)
}

func decodeValues(dst interface{}, values map[string][]string) error {
	dec := form.NewDecoder(nil)
	dec.IgnoreUnknownKeys(true)
	if err := dec.DecodeValues(dst, values); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// readUpload returns the file sent in the given multipart field, or nil when
// the request carries none.
func (a *API) readUpload(r *http.Request, field string) (*simplecms.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, a.validator.MaxUploadBytes()+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}
	return a.validator.Upload(field, header.Filename, data)
}
