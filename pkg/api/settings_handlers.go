package api

import (
	"net/http"

	"github.com/raf-aleaqarih/project-raf25/pkg/httputil"
	"github.com/raf-aleaqarih/project-raf25/pkg/middleware"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
)

// getSettings handles GET /api/admin/settings. When nothing has been saved
// yet the defaults are served without writing them.
func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		if err == storage.ErrNotFound {
			httputil.WriteData(w, http.StatusOK, DefaultSettings())
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to load settings")
		httputil.WriteInternal(w)
		return
	}

	httputil.WriteData(w, http.StatusOK, settings)
}

// putSettings handles PUT /api/admin/settings: a full validated replace
func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	body := middleware.BodyFrom(r)

	saved, err := s.store.PutSettings(r.Context(), body)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to save settings")
		httputil.WriteInternal(w)
		return
	}

	httputil.WriteMessageData(w, http.StatusOK, "Settings updated successfully", saved)
}

// patchSettings handles PATCH /api/admin/settings: merges one section into
// the current document and validates the merged result before saving, so a
// partial update can never leave settings in an invalid state.
func (s *Server) patchSettings(w http.ResponseWriter, r *http.Request) {
	body := middleware.BodyFrom(r)
	section := body["section"].(string)
	data := body["data"].(map[string]interface{})

	current, err := s.store.GetSettings(r.Context())
	if err != nil {
		if err == storage.ErrNotFound {
			httputil.WriteNotFound(w, "No settings found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to load settings")
		httputil.WriteInternal(w)
		return
	}

	merged := make(map[string]interface{}, len(current))
	for k, v := range current {
		merged[k] = v
	}
	sectionDoc := make(map[string]interface{})
	if existing, ok := current[section].(map[string]interface{}); ok {
		for k, v := range existing {
			sectionDoc[k] = v
		}
	}
	for k, v := range data {
		sectionDoc[k] = v
	}
	merged[section] = sectionDoc

	if result := settingsSchema.Validate(merged); !result.Valid {
		httputil.WriteValidationErrors(w, result.Errors)
		return
	}

	saved, err := s.store.PutSettings(r.Context(), merged)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to save settings")
		httputil.WriteInternal(w)
		return
	}

	httputil.WriteMessageData(w, http.StatusOK, section+" settings updated successfully", saved)
}

// resetSettings handles POST /api/admin/settings. Resetting twice yields
// the same document.
func (s *Server) resetSettings(w http.ResponseWriter, r *http.Request) {
	saved, err := s.store.PutSettings(r.Context(), DefaultSettings())
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to reset settings")
		httputil.WriteInternal(w)
		return
	}

	httputil.WriteMessageData(w, http.StatusOK, "Settings reset to defaults successfully", saved)
}
