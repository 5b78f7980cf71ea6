package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raf-aleaqarih/project-raf25/pkg/auth"
)

// MemoryStore is the fallback storage backend used when no database URI is
// configured, and the workhorse of the test suite. Semantics mirror the
// Mongo implementation.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*User
	settings map[string]interface{}
	sections map[string]map[string]interface{}
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*User),
		sections: make(map[string]map[string]interface{}),
	}
}

func cloneUser(u *User) *User {
	c := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

func (s *MemoryStore) matches(u *User, f UserFilter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			return false
		}
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	switch f.Status {
	case "active":
		if !u.IsActive {
			return false
		}
	case "inactive":
		if u.IsActive {
			return false
		}
	}
	if f.CreatedFrom != nil && u.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && u.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

func (s *MemoryStore) filtered(f UserFilter) []*User {
	users := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		if s.matches(u, f) {
			users = append(users, u)
		}
	}
	return users
}

func sortUsers(users []*User, sortBy string, asc bool) {
	less := func(a, b *User) bool {
		switch sortBy {
		case "name":
			return a.Name < b.Name
		case "email":
			return a.Email < b.Email
		case "lastLogin":
			at, bt := time.Time{}, time.Time{}
			if a.LastLogin != nil {
				at = *a.LastLogin
			}
			if b.LastLogin != nil {
				bt = *b.LastLogin
			}
			return at.Before(bt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		if asc {
			return less(users[i], users[j])
		}
		return less(users[j], users[i])
	})
}

// CreateUser inserts a new account, assigning an ID and timestamps
func (s *MemoryStore) CreateUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	s.users[user.ID] = cloneUser(user)
	return nil
}

// GetUser loads an account by id
func (s *MemoryStore) GetUser(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

// GetUserByEmail loads an account by email (case-insensitive)
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

// ListUsers returns a filtered, sorted, paginated page plus the total count
func (s *MemoryStore) ListUsers(ctx context.Context, filter UserFilter) ([]*User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := s.filtered(filter)
	total := int64(len(users))
	sortUsers(users, filter.SortBy, filter.SortAsc)

	if filter.Page > 0 && filter.Limit > 0 {
		start := (filter.Page - 1) * filter.Limit
		if start >= len(users) {
			users = nil
		} else {
			end := start + filter.Limit
			if end > len(users) {
				end = len(users)
			}
			users = users[start:end]
		}
	}

	out := make([]*User, 0, len(users))
	for _, u := range users {
		out = append(out, cloneUser(u))
	}
	return out, total, nil
}

// UpdateUser applies a partial update. An email change colliding with
// another account fails with ErrDuplicateEmail and leaves the record
// untouched.
func (s *MemoryStore) UpdateUser(ctx context.Context, id string, update UserUpdate) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	if update.Email != nil && !strings.EqualFold(*update.Email, u.Email) {
		for otherID, other := range s.users {
			if otherID != id && strings.EqualFold(other.Email, *update.Email) {
				return nil, ErrDuplicateEmail
			}
		}
	}

	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Password != nil {
		u.Password = *update.Password
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	if update.IsActive != nil {
		u.IsActive = *update.IsActive
	}
	if update.LastLogin != nil {
		t := *update.LastLogin
		u.LastLogin = &t
	}
	u.UpdatedAt = time.Now().UTC()

	return cloneUser(u), nil
}

// DeleteUser removes an account permanently
func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// CountUsers counts accounts matching the filter
func (s *MemoryStore) CountUsers(ctx context.Context, filter UserFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filtered(filter))), nil
}

// UserStats summarizes the user collection
func (s *MemoryStore) UserStats(ctx context.Context) (*UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &UserStats{}
	for _, u := range s.users {
		stats.Total++
		if u.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
		switch u.Role {
		case auth.RoleAdmin:
			stats.Admins++
		default:
			stats.Regular++
		}
	}
	return stats, nil
}

// RoleDistribution groups matching accounts by role
func (s *MemoryStore) RoleDistribution(ctx context.Context, filter UserFilter) ([]RoleCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[auth.Role]int64)
	for _, u := range s.filtered(filter) {
		counts[u.Role]++
	}

	out := make([]RoleCount, 0, len(counts))
	for _, role := range []auth.Role{auth.RoleAdmin, auth.RoleModerator, auth.RoleUser} {
		if n, ok := counts[role]; ok {
			out = append(out, RoleCount{Role: role, Count: n})
		}
	}
	return out, nil
}

// RegistrationsByWeekday groups matching accounts by signup weekday
func (s *MemoryStore) RegistrationsByWeekday(ctx context.Context, filter UserFilter) ([]WeekdayCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[time.Weekday]int64)
	for _, u := range s.filtered(filter) {
		counts[u.CreatedAt.Weekday()]++
	}

	out := make([]WeekdayCount, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if n, ok := counts[wd]; ok {
			out = append(out, WeekdayCount{Weekday: wd.String(), Count: n})
		}
	}
	return out, nil
}

// LoginFrequency counts logins per day over the trailing window
func (s *MemoryStore) LoginFrequency(ctx context.Context, days int) ([]DateCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	counts := make(map[string]int64)
	for _, u := range s.users {
		if u.LastLogin == nil || u.LastLogin.Before(cutoff) {
			continue
		}
		counts[u.LastLogin.UTC().Format("2006-01-02")]++
	}
	return sortedDateCounts(counts, true), nil
}

// RegistrationTrend counts signups per day over the trailing window,
// including zero-count days.
func (s *MemoryStore) RegistrationTrend(ctx context.Context, days int) ([]DateCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	now := time.Now().UTC()
	for i := days - 1; i >= 0; i-- {
		counts[now.AddDate(0, 0, -i).Format("2006-01-02")] = 0
	}
	for _, u := range s.users {
		day := u.CreatedAt.UTC().Format("2006-01-02")
		if _, ok := counts[day]; ok {
			counts[day]++
		}
	}
	return sortedDateCounts(counts, false), nil
}

// RecentUsers returns the newest accounts
func (s *MemoryStore) RecentUsers(ctx context.Context, limit int) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := s.filtered(UserFilter{})
	sortUsers(users, "createdAt", false)
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}

	out := make([]*User, 0, len(users))
	for _, u := range users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func sortedDateCounts(counts map[string]int64, descending bool) []DateCount {
	out := make([]DateCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, DateCount{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if descending {
			return out[i].Date > out[j].Date
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// GetSettings returns the stored settings document
func (s *MemoryStore) GetSettings(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, ErrNotFound
	}
	return deepCopy(s.settings), nil
}

// PutSettings replaces the settings document (upsert)
func (s *MemoryStore) PutSettings(ctx context.Context, settings map[string]interface{}) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = deepCopy(settings)
	return deepCopy(s.settings), nil
}

// GetSection returns one website content section
func (s *MemoryStore) GetSection(ctx context.Context, name string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.sections[name]
	if !ok {
		return nil, ErrNotFound
	}
	return deepCopy(doc), nil
}

// PutSection stores one website content section (upsert)
func (s *MemoryStore) PutSection(ctx context.Context, name string, doc map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sections[name] = deepCopy(doc)
	return nil
}

// ListSections lists the stored section names
func (s *MemoryStore) ListSections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.sections))
	for name := range s.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// HealthCheck always succeeds for the in-memory store
func (s *MemoryStore) HealthCheck(ctx context.Context) error { return nil }

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func deepCopy(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case map[string]interface{}:
			out[k] = deepCopy(val)
		case []interface{}:
			arr := make([]interface{}, len(val))
			for i, elem := range val {
				if m, ok := elem.(map[string]interface{}); ok {
					arr[i] = deepCopy(m)
				} else {
					arr[i] = elem
				}
			}
			out[k] = arr
		default:
			out[k] = v
		}
	}
	return out
}
