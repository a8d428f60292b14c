package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/presigned"
)

// DownloadBlob streams the image behind a signed URL. The presigned
// middleware has already checked the signature.
func (a *API) DownloadBlob(w http.ResponseWriter, r *http.Request) {
	key := presigned.ObjectKeyFromContext(r.Context())

	meta, err := a.blobStore.GetObjectMeta(r.Context(), key)
	if err != nil {
		a.blobError(w, r, key, err)
		return
	}
	reader, err := a.blobStore.Download(r.Context(), key)
	if err != nil {
		a.blobError(w, r, key, err)
		return
	}
	defer reader.Close()

	if meta.ContentType != "" {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		a.logger.Warn("failed to stream blob", "key", key, "error", err)
	}
}

func (a *API) blobError(w http.ResponseWriter, r *http.Request, key string, err error) {
	if errors.Is(err, simplecms.ErrBlobNotFound) {
		http.Error(w, "object not found", http.StatusNotFound)
		return
	}
	a.logger.Error("failed to read blob", "key", key, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// SweepIntents reconciles stale blob intents on demand
func (a *API) SweepIntents(w http.ResponseWriter, r *http.Request) {
	report, err := a.service.SweepIntents(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, "Intent sweep finished", report)
}
