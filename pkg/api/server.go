package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/raf-aleaqarih/project-raf25/pkg/auth"
	"github.com/raf-aleaqarih/project-raf25/pkg/httputil"
	"github.com/raf-aleaqarih/project-raf25/pkg/mailer"
	"github.com/raf-aleaqarih/project-raf25/pkg/middleware"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
	"github.com/raf-aleaqarih/project-raf25/pkg/uploads"
	"github.com/raf-aleaqarih/project-raf25/pkg/validation"
)

// Options wires the collaborators the HTTP surface depends on. Everything
// is injected; the server owns no connections itself.
type Options struct {
	Store    storage.Store
	Verifier *auth.Verifier
	Counter  middleware.CounterStore
	Limits   middleware.RateLimitConfig
	Uploads  uploads.Store
	Mailer   mailer.Mailer
	Logger   *observability.Logger
	Metrics  *observability.Metrics

	CORSOrigins    []string
	UploadMaxBytes int64
}

// Server is the admin console HTTP API
type Server struct {
	store          storage.Store
	gate           *middleware.Gate
	counter        middleware.CounterStore
	limits         middleware.RateLimitConfig
	uploads        uploads.Store
	mailer         mailer.Mailer
	logger         *observability.Logger
	metrics        *observability.Metrics
	corsOrigins    []string
	uploadMaxBytes int64
}

// NewServer creates the API server
func NewServer(opts Options) *Server {
	return &Server{
		store:          opts.Store,
		gate:           middleware.NewGate(opts.Verifier, opts.Store, opts.Logger),
		counter:        opts.Counter,
		limits:         opts.Limits,
		uploads:        opts.Uploads,
		mailer:         opts.Mailer,
		logger:         opts.Logger,
		metrics:        opts.Metrics,
		corsOrigins:    opts.CORSOrigins,
		uploadMaxBytes: opts.UploadMaxBytes,
	}
}

// jsonBodyLimit caps JSON request bodies. Image uploads register their own
// larger cap on their own route.
const jsonBodyLimit = 1 << 20

// jsonRoute wraps a handler with the body-size cap, the content-type check
// and schema validation. A nil schema skips validation for handlers that
// accept arbitrary JSON documents.
func jsonRoute(schema *validation.Schema, h http.HandlerFunc) http.Handler {
	wrappers := []httputil.Middleware{
		httputil.MaxBytes(jsonBodyLimit),
		httputil.JSONContentType,
	}
	if schema != nil {
		wrappers = append(wrappers, middleware.Body(schema))
	}
	return httputil.Chain(wrappers...)(h)
}

// Routes builds the full handler. The chain order is fixed: recovery,
// request id, logging, metrics and CORS wrap everything; rate limiting
// guards /api; the authorization gate guards /api/admin; body limits,
// content-type checks and validation wrap individual routes. Any stage may
// short-circuit and nothing is retried.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(mux.MiddlewareFunc(middleware.RateLimit(s.counter, s.limits, s.logger, s.metrics)))

	// Public endpoints used by the marketing site
	api.HandleFunc("/upload-image", s.uploadImage).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/send-email", jsonRoute(sendEmailSchema, s.sendEmail)).Methods(http.MethodPost, http.MethodOptions)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(mux.MiddlewareFunc(s.gate.Require(middleware.Policy{RequireRole: auth.RoleAdmin})))

	admin.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	admin.Handle("/users", jsonRoute(createUserSchema, s.createUser)).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", s.getUser).Methods(http.MethodGet)
	admin.Handle("/users/{id}", jsonRoute(updateUserSchema, s.updateUser)).Methods(http.MethodPut, http.MethodPatch)
	admin.HandleFunc("/users/{id}", s.deleteUser).Methods(http.MethodDelete)

	admin.HandleFunc("/dashboard", s.dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/reports", s.reports).Methods(http.MethodGet)

	admin.HandleFunc("/settings", s.getSettings).Methods(http.MethodGet)
	admin.Handle("/settings", jsonRoute(settingsSchema, s.putSettings)).Methods(http.MethodPut)
	admin.Handle("/settings", jsonRoute(patchSettingsSchema, s.patchSettings)).Methods(http.MethodPatch)
	admin.HandleFunc("/settings", s.resetSettings).Methods(http.MethodPost)

	admin.HandleFunc("/content", s.listContent).Methods(http.MethodGet)
	admin.HandleFunc("/content/{section}", s.getContent).Methods(http.MethodGet)
	admin.Handle("/content/{section}", jsonRoute(nil, s.putContent)).Methods(http.MethodPut)

	return httputil.Chain(
		httputil.Recovery(s.logger),
		httputil.RequestID,
		httputil.Logging(s.logger),
		httputil.Metrics(s.metrics),
		httputil.CORS(s.corsOrigins),
	)(r)
}
