package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raf-aleaqarih/project-raf25/pkg/auth"
	"github.com/raf-aleaqarih/project-raf25/pkg/mailer"
	"github.com/raf-aleaqarih/project-raf25/pkg/middleware"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
	"github.com/raf-aleaqarih/project-raf25/pkg/uploads"
)

const testSecret = "test-secret"

type testEnv struct {
	server  *Server
	handler http.Handler
	store   *storage.MemoryStore
	mailer  *fakeMailer
	admin   *storage.User
	token   string
}

type fakeMailer struct {
	sent []mailer.Inquiry
	err  error
}

func (m *fakeMailer) SendInquiry(ctx context.Context, inquiry mailer.Inquiry) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, inquiry)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := storage.NewMemoryStore()
	verifier := auth.NewVerifier(testSecret)
	logger := observability.NewLogger(observability.ErrorLevel, os.Stderr)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	fm := &fakeMailer{}

	uploadStore, err := uploads.NewFilesystemStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	limits := middleware.RateLimitConfig{MaxRequests: 1000, Window: time.Minute}
	server := NewServer(Options{
		Store:          store,
		Verifier:       verifier,
		Counter:        middleware.NewMemoryCounterStore(limits),
		Limits:         limits,
		Uploads:        uploadStore,
		Mailer:         fm,
		Logger:         logger,
		Metrics:        metrics,
		CORSOrigins:    []string{"*"},
		UploadMaxBytes: 5 * 1024 * 1024,
	})

	admin := &storage.User{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "hash",
		Role:     auth.RoleAdmin,
		IsActive: true,
	}
	require.NoError(t, store.CreateUser(context.Background(), admin))

	token, err := verifier.Issue(admin.ID, admin.Email, admin.Role, time.Hour)
	require.NoError(t, err)

	return &testEnv{
		server:  server,
		handler: server.Routes(),
		store:   store,
		mailer:  fm,
		admin:   admin,
		token:   token,
	}
}

// do performs an authenticated JSON request against the full route tree
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+e.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func uploadsStoreAt(dir string) (uploads.Store, error) {
	return uploads.NewFilesystemStore(dir, "/uploads")
}

func TestJSONRoutes_RejectNonJSONContentType(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", bytes.NewReader([]byte("name=Amal")))
	req.Header.Set("Authorization", "Bearer "+env.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Content-Type must be application/json")
}

func TestJSONRoutes_BodyTooLarge(t *testing.T) {
	env := newTestEnv(t)

	// Valid JSON, but past the per-route body cap
	payload := []byte(`{"phone":"` + strings.Repeat("9", 2<<20) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/send-email", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.mailer.sent)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
