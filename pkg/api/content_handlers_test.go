package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent_PutAndGetSection(t *testing.T) {
	env := newTestEnv(t)

	doc := map[string]interface{}{
		"title":    "مشروع راف 25",
		"subtitle": "حي الزهراء في جدة",
		"images":   []interface{}{"/uploads/hero.jpg"},
	}
	rec := env.do(t, http.MethodPut, "/api/admin/content/hero", doc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/admin/content/hero", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "مشروع راف 25", data["title"])
}

func TestContent_UnknownSection(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/admin/content/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Section not found")
}

func TestContent_ListSections(t *testing.T) {
	env := newTestEnv(t)

	for _, section := range []string{"hero", "apartments"} {
		rec := env.do(t, http.MethodPut, "/api/admin/content/"+section, map[string]interface{}{"k": "v"})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/admin/content", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.ElementsMatch(t, []interface{}{"hero", "apartments"}, data["sections"])
}
