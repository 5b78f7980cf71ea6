package storage

import (
	"context"
	"errors"
	"time"

	"github.com/raf-aleaqarih/project-raf25/pkg/auth"
)

var (
	// ErrNotFound is returned when the requested document does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an email is already taken by
	// another account
	ErrDuplicateEmail = errors.New("email already in use")
)

// User is an account record (the Principal of every authorization
// decision). Role and IsActive are authoritative per request; nothing in
// this system caches them across requests.
type User struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	Name      string     `bson:"name" json:"name"`
	Email     string     `bson:"email" json:"email"`
	Password  string     `bson:"password" json:"-"`
	Role      auth.Role  `bson:"role" json:"role"`
	IsActive  bool       `bson:"isActive" json:"isActive"`
	LastLogin *time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// UserFilter narrows user listings and counts
type UserFilter struct {
	Search      string // matches name or email, case-insensitive
	Role        auth.Role
	Status      string // "active", "inactive" or ""
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	SortBy      string // "createdAt", "name", "email", "lastLogin"
	SortAsc     bool
	Page        int // 1-based; 0 disables pagination
	Limit       int
}

// UserUpdate is a partial update; nil fields are left unchanged
type UserUpdate struct {
	Name      *string
	Email     *string
	Password  *string
	Role      *auth.Role
	IsActive  *bool
	LastLogin *time.Time
}

// UserStats summarizes the user collection
type UserStats struct {
	Total    int64 `json:"totalUsers"`
	Active   int64 `json:"activeUsers"`
	Inactive int64 `json:"inactiveUsers"`
	Admins   int64 `json:"adminUsers"`
	Regular  int64 `json:"regularUsers"`
}

// RoleCount is one bucket of a role distribution aggregate
type RoleCount struct {
	Role  auth.Role `json:"role"`
	Count int64     `json:"count"`
}

// WeekdayCount is one bucket of a registrations-by-weekday aggregate
type WeekdayCount struct {
	Weekday string `json:"day"`
	Count   int64  `json:"count"`
}

// DateCount is one bucket of a per-day aggregate (date formatted 2006-01-02)
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// UserStore is the Principal collection. Implemented with plain
// find/findOne/updateOne/countDocuments/aggregate operations; no
// transactions, no joins.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]*User, int64, error)
	UpdateUser(ctx context.Context, id string, update UserUpdate) (*User, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context, filter UserFilter) (int64, error)

	// Reporting aggregates
	UserStats(ctx context.Context) (*UserStats, error)
	RoleDistribution(ctx context.Context, filter UserFilter) ([]RoleCount, error)
	RegistrationsByWeekday(ctx context.Context, filter UserFilter) ([]WeekdayCount, error)
	LoginFrequency(ctx context.Context, days int) ([]DateCount, error)
	RegistrationTrend(ctx context.Context, days int) ([]DateCount, error)
	RecentUsers(ctx context.Context, limit int) ([]*User, error)
}

// SettingsStore holds the single system settings document
type SettingsStore interface {
	GetSettings(ctx context.Context) (map[string]interface{}, error)
	PutSettings(ctx context.Context, settings map[string]interface{}) (map[string]interface{}, error)
}

// ContentStore holds arbitrary-schema website content sections (project
// info, apartments, hero, galleries, trust indicators). The JSON shape is
// owned by the UI layer.
type ContentStore interface {
	GetSection(ctx context.Context, name string) (map[string]interface{}, error)
	PutSection(ctx context.Context, name string, doc map[string]interface{}) error
	ListSections(ctx context.Context) ([]string, error)
}

// Store is the full storage collaborator
type Store interface {
	UserStore
	SettingsStore
	ContentStore

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// Config selects and configures the storage backend
type Config struct {
	// MongoURI selects the document database. When empty the in-memory
	// fallback store is used instead of failing startup.
	MongoURI       string
	Database       string
	ConnectTimeout time.Duration
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Database:       "raf_admin",
		ConnectTimeout: 5 * time.Second,
	}
}
