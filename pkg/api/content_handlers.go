package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/raf-aleaqarih/project-raf25/pkg/httputil"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
)

// listContent handles GET /api/admin/content
func (s *Server) listContent(w http.ResponseWriter, r *http.Request) {
	sections, err := s.store.ListSections(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to list content sections")
		httputil.WriteInternal(w)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]interface{}{"sections": sections})
}

// getContent handles GET /api/admin/content/{section}
func (s *Server) getContent(w http.ResponseWriter, r *http.Request) {
	section := mux.Vars(r)["section"]

	doc, err := s.store.GetSection(r.Context(), section)
	if err != nil {
		if err == storage.ErrNotFound {
			httputil.WriteNotFound(w, "Section not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to load content section")
		httputil.WriteInternal(w)
		return
	}

	httputil.WriteData(w, http.StatusOK, doc)
}

// putContent handles PUT /api/admin/content/{section}. The document shape
// is owned by the site UI, so anything that parses as a JSON object is
// accepted as-is.
func (s *Server) putContent(w http.ResponseWriter, r *http.Request) {
	section := mux.Vars(r)["section"]

	var doc map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		httputil.WriteBadRequest(w, "Invalid JSON body")
		return
	}

	if err := s.store.PutSection(r.Context(), section, doc); err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to save content section")
		httputil.WriteInternal(w)
		return
	}

	httputil.WriteMessageData(w, http.StatusOK, "Content updated successfully", doc)
}
