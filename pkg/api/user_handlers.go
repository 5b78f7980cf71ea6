package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/raf-aleaqarih/project-raf25/pkg/auth"
	"github.com/raf-aleaqarih/project-raf25/pkg/httputil"
	"github.com/raf-aleaqarih/project-raf25/pkg/middleware"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
)

// listUsers handles GET /api/admin/users with pagination, search, filter
// and sort, plus the aggregate stats block the console renders alongside.
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := storage.UserFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		SortBy: q.Get("sortBy"),
		Page:   page,
		Limit:  limit,
	}
	if role := auth.Role(q.Get("role")); role.Valid() {
		filter.Role = role
	}
	if filter.SortBy == "" {
		filter.SortBy = "createdAt"
	}
	filter.SortAsc = q.Get("sortOrder") == "asc"

	users, total, err := s.store.ListUsers(r.Context(), filter)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to list users")
		httputil.WriteInternal(w)
		return
	}

	stats, err := s.store.UserStats(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to load user stats")
		httputil.WriteInternal(w)
		return
	}

	pages := int(math.Ceil(float64(total) / float64(limit)))
	httputil.WriteData(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"pagination": map[string]interface{}{
			"page":    page,
			"limit":   limit,
			"total":   total,
			"pages":   pages,
			"hasNext": page < pages,
			"hasPrev": page > 1,
		},
		"stats": stats,
	})
}

// createUser handles POST /api/admin/users
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	body := middleware.BodyFrom(r)

	hash, err := auth.HashPassword(body["password"].(string))
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to hash password")
		httputil.WriteInternal(w)
		return
	}

	user := &storage.User{
		Name:     body["name"].(string),
		Email:    body["email"].(string),
		Password: hash,
		Role:     auth.RoleUser,
		IsActive: true,
	}
	if role, ok := body["role"].(string); ok {
		user.Role = auth.Role(role)
	}
	if isActive, ok := body["isActive"].(bool); ok {
		user.IsActive = isActive
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if err == storage.ErrDuplicateEmail {
			httputil.WriteConflict(w, "Email already in use")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to create user")
		httputil.WriteInternal(w)
		return
	}

	httputil.WriteMessageData(w, http.StatusCreated, "User created successfully", user)
}

// getUser handles GET /api/admin/users/{id}
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		if err == storage.ErrNotFound {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to load user")
		httputil.WriteInternal(w)
		return
	}

	httputil.WriteData(w, http.StatusOK, user)
}

// updateUser handles PUT and PATCH /api/admin/users/{id}. Partial: absent
// fields are left as they are. An email conflict leaves the record
// untouched and reports 409.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	body := middleware.BodyFrom(r)

	var update storage.UserUpdate
	if name, ok := body["name"].(string); ok {
		update.Name = &name
	}
	if email, ok := body["email"].(string); ok {
		update.Email = &email
	}
	if password, ok := body["password"].(string); ok {
		hash, err := auth.HashPassword(password)
		if err != nil {
			observability.FromContext(r.Context()).WithError(err).Error("failed to hash password")
			httputil.WriteInternal(w)
			return
		}
		update.Password = &hash
	}
	if roleStr, ok := body["role"].(string); ok {
		role := auth.Role(roleStr)
		update.Role = &role
	}
	if isActive, ok := body["isActive"].(bool); ok {
		update.IsActive = &isActive
	}

	user, err := s.store.UpdateUser(r.Context(), id, update)
	if err != nil {
		switch err {
		case storage.ErrNotFound:
			httputil.WriteNotFound(w, "User not found")
		case storage.ErrDuplicateEmail:
			httputil.WriteConflict(w, "Email already in use")
		default:
			observability.FromContext(r.Context()).WithError(err).Error("failed to update user")
			httputil.WriteInternal(w)
		}
		return
	}

	httputil.WriteMessageData(w, http.StatusOK, "User updated successfully", user)
}

// deleteUser handles DELETE /api/admin/users/{id}. Admins cannot delete
// their own account.
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if principal := middleware.PrincipalFrom(r); principal != nil && principal.ID == id {
		httputil.WriteBadRequest(w, "You cannot delete your own account")
		return
	}

	if err := s.store.DeleteUser(r.Context(), id); err != nil {
		if err == storage.ErrNotFound {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to delete user")
		httputil.WriteInternal(w)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "User deleted successfully")
}
