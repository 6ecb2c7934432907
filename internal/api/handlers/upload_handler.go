package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/saiinfotech/catalog-be/internal/images"
	"github.com/saiinfotech/catalog-be/internal/services"
)

const (
	maxUploadFiles    = 10
	maxUploadFileSize = 5 << 20 // 5MB per file

	// Cap for the whole multipart body, with headroom for boundaries and
	// field headers.
	maxUploadBodySize = maxUploadFiles*maxUploadFileSize + 1<<20
)

// UploadHandler relays multipart image uploads to the external image host.
type UploadHandler struct {
	uploader images.Uploader
	events   services.EventServiceProvider
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploader images.Uploader, events services.EventServiceProvider) *UploadHandler {
	return &UploadHandler{uploader: uploader, events: events}
}

// Upload accepts up to 10 images of at most 5MB each under the `images`
// multipart field and returns their public URLs. File-count and size caps are
// enforced here, before the external host is ever contacted.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
	if err := r.ParseMultipartForm(maxUploadBodySize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileHeaders := r.MultipartForm.File["images"]
	if len(fileHeaders) == 0 {
		writeError(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	if len(fileHeaders) > maxUploadFiles {
		writeError(w, http.StatusBadRequest, "Too many files (max 10)")
		return
	}

	files := make([]images.File, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Size > maxUploadFileSize {
			writeError(w, http.StatusBadRequest, "File "+fh.Filename+" exceeds the 5MB limit")
			return
		}

		f, err := fh.Open()
		if err != nil {
			log.Error().Err(err).Str("filename", fh.Filename).Msg("Failed to open uploaded file")
			writeError(w, http.StatusInternalServerError, "Failed to read uploaded files")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			log.Error().Err(err).Str("filename", fh.Filename).Msg("Failed to read uploaded file")
			writeError(w, http.StatusInternalServerError, "Failed to read uploaded files")
			return
		}
		files = append(files, images.File{Name: fh.Filename, Data: data})
	}

	urls, err := h.uploader.UploadAll(r.Context(), files)
	if err != nil {
		log.Error().Err(err).Int("files", len(files)).Msg("Upload batch failed")
		writeError(w, http.StatusInternalServerError, "Failed to upload images")
		return
	}

	if err := h.events.Record("upload.batch", "info", "Uploaded "+strconv.Itoa(len(urls))+" images", nil); err != nil {
		log.Warn().Err(err).Msg("Failed to record upload event")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"imageUrls": urls})
}

