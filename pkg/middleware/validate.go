package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/raf-aleaqarih/project-raf25/pkg/contextkeys"
	"github.com/raf-aleaqarih/project-raf25/pkg/httputil"
	"github.com/raf-aleaqarih/project-raf25/pkg/validation"
)

// Body parses the request body as JSON and validates it against the
// schema before the handler runs. Violations short-circuit with 400 and
// field-level detail; the handler can rely on BodyFrom returning a
// document that satisfied the schema.
func Body(schema *validation.Schema) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var doc map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
				httputil.WriteBadRequest(w, "Invalid JSON body")
				return
			}

			result := schema.Validate(doc)
			if !result.Valid {
				httputil.WriteValidationErrors(w, result.Errors)
				return
			}

			ctx := contextkeys.WithBody(r.Context(), doc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BodyFrom returns the validated body attached by Body, or nil when the
// route has no validation wrapper.
func BodyFrom(r *http.Request) map[string]interface{} {
	body, ok := r.Context().Value(contextkeys.BodyKey).(map[string]interface{})
	if !ok {
		return nil
	}
	return body
}
