package api

import (
	"net/http"
	"strings"

	"github.com/raf-aleaqarih/project-raf25/pkg/httputil"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
)

// uploadImage handles POST /api/upload-image. The size and content type
// checks happen before any byte reaches the upload store, so an oversized
// or non-image upload writes nothing.
func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	// Leave headroom for the multipart framing around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, s.uploadMaxBytes+64*1024)

	if err := r.ParseMultipartForm(s.uploadMaxBytes); err != nil {
		httputil.WriteBadRequest(w, "Image must be smaller than 5MB")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteBadRequest(w, "No file found")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		httputil.WriteBadRequest(w, "File is not a valid image")
		return
	}
	if header.Size > s.uploadMaxBytes {
		httputil.WriteBadRequest(w, "Image must be smaller than 5MB")
		return
	}

	url, err := s.uploads.Save(r.Context(), header.Filename, contentType, file)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to store upload")
		if s.metrics != nil {
			s.metrics.UploadsTotal.WithLabelValues("error").Inc()
		}
		httputil.WriteInternal(w)
		return
	}

	if s.metrics != nil {
		s.metrics.UploadsTotal.WithLabelValues("ok").Inc()
		s.metrics.UploadSizeBytes.Observe(float64(header.Size))
	}

	httputil.WriteData(w, http.StatusOK, map[string]interface{}{
		"url":  url,
		"size": header.Size,
		"type": contentType,
	})
}
