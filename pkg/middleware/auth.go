package middleware

import (
	"net/http"
	"strings"

	"github.com/raf-aleaqarih/project-raf25/pkg/auth"
	"github.com/raf-aleaqarih/project-raf25/pkg/contextkeys"
	"github.com/raf-aleaqarih/project-raf25/pkg/httputil"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
)

// accessTokenCookie is the cookie the login flow sets; the Authorization
// header is the API-client alternative.
const accessTokenCookie = "accessToken"

// Policy declares what a route requires. The gate consumes it uniformly;
// handlers never re-check roles themselves.
type Policy struct {
	// RequireRole rejects principals below this role. Empty means any
	// authenticated, active account. Admins always pass.
	RequireRole auth.Role
}

// Gate is the authorization middleware: it verifies the bearer credential,
// loads the Principal fresh from storage on every request (role and
// active-status changes take effect immediately), enforces the route
// policy, and attaches the Principal to the request context.
type Gate struct {
	verifier *auth.Verifier
	users    storage.UserStore
	logger   *observability.Logger
}

// NewGate creates an authorization gate
func NewGate(verifier *auth.Verifier, users storage.UserStore, logger *observability.Logger) *Gate {
	return &Gate{
		verifier: verifier,
		users:    users,
		logger:   logger,
	}
}

// Require wraps a handler with the authorization checks for the policy.
// Failure at any step short-circuits with the matching status; the handler
// never runs.
func (g *Gate) Require(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				httputil.WriteUnauthorized(w, "Access token required")
				return
			}

			claims, err := g.verifier.Verify(token)
			if err != nil {
				httputil.WriteUnauthorized(w, "Invalid or expired token")
				return
			}

			user, err := g.users.GetUser(r.Context(), claims.UserID)
			if err != nil {
				if err == storage.ErrNotFound {
					httputil.WriteUnauthorized(w, "User not found")
					return
				}
				g.logger.WithError(err).Error("failed to load principal")
				httputil.WriteInternal(w)
				return
			}

			if !user.IsActive {
				httputil.WriteForbidden(w, "Account is deactivated")
				return
			}

			if policy.RequireRole != "" && user.Role != policy.RequireRole && user.Role != auth.RoleAdmin {
				httputil.WriteForbidden(w, "Insufficient permissions")
				return
			}

			ctx := contextkeys.WithPrincipal(r.Context(), user)
			ctx = contextkeys.WithUserID(ctx, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is shorthand for the admin-only policy
func (g *Gate) RequireAdmin() func(http.Handler) http.Handler {
	return g.Require(Policy{RequireRole: auth.RoleAdmin})
}

// BearerToken extracts the credential from the accessToken cookie or the
// Authorization header.
func BearerToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// PrincipalFrom returns the authenticated Principal attached by the gate,
// or nil when the request is unauthenticated.
func PrincipalFrom(r *http.Request) *storage.User {
	principal, ok := r.Context().Value(contextkeys.PrincipalKey).(*storage.User)
	if !ok {
		return nil
	}
	return principal
}
