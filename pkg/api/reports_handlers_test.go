package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raf-aleaqarih/project-raf25/pkg/auth"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
)

func seedReportUsers(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	for _, email := range []string{"a@example.com", "b@example.com"} {
		user := &storage.User{Name: "User " + email, Email: email, Role: auth.RoleUser, IsActive: true}
		require.NoError(t, env.store.CreateUser(ctx, user))
		_, err := env.store.UpdateUser(ctx, user.ID, storage.UserUpdate{LastLogin: &now})
		require.NoError(t, err)
	}
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	seedReportUsers(t, env)

	rec := env.do(t, http.MethodGet, "/api/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})

	users := data["users"].(map[string]interface{})
	assert.EqualValues(t, 3, users["total"]) // admin + 2 seeded
	assert.EqualValues(t, 3, users["active"])
	assert.EqualValues(t, 1, users["admins"])
	assert.EqualValues(t, 2, users["recentlyActive"])

	activity := data["activity"].(map[string]interface{})
	assert.Len(t, activity["registrationTrend"], 30)
	assert.NotEmpty(t, activity["recent"])
}

func TestReports_Overview(t *testing.T) {
	env := newTestEnv(t)
	seedReportUsers(t, env)

	rec := env.do(t, http.MethodGet, "/api/admin/reports?type=overview", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	assert.EqualValues(t, 3, summary["totalUsers"])
	assert.EqualValues(t, 3, summary["activeUsers"])
	assert.EqualValues(t, 1, summary["adminUsers"])
	assert.EqualValues(t, 0, summary["inactiveUsers"])

	trends := data["trends"].(map[string]interface{})
	assert.Len(t, trends["monthly"], 12)
}

func TestReports_DefaultTypeIsOverview(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/admin/reports", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Contains(t, data, "summary")
}

func TestReports_Users(t *testing.T) {
	env := newTestEnv(t)
	seedReportUsers(t, env)

	rec := env.do(t, http.MethodGet, "/api/admin/reports?type=users", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Len(t, data["users"], 3)

	analytics := data["analytics"].(map[string]interface{})
	assert.EqualValues(t, 3, analytics["total"])
	assert.EqualValues(t, 2, analytics["activeInLast30Days"])

	roles := analytics["roleDistribution"].([]interface{})
	require.NotEmpty(t, roles)
	first := roles[0].(map[string]interface{})
	assert.Contains(t, first, "role")
	assert.Contains(t, first, "percentage")
}

func TestReports_Activity(t *testing.T) {
	env := newTestEnv(t)
	seedReportUsers(t, env)

	rec := env.do(t, http.MethodGet, "/api/admin/reports?type=activity", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Len(t, data["timeline"], 3)
	assert.NotEmpty(t, data["loginFrequency"])

	summary := data["summary"].(map[string]interface{})
	assert.EqualValues(t, 3, summary["totalActivities"])
}

func TestReports_DateRange(t *testing.T) {
	env := newTestEnv(t)
	seedReportUsers(t, env)

	// A window in the past matches nothing
	rec := env.do(t, http.MethodGet, "/api/admin/reports?type=overview&startDate=2020-01-01&endDate=2020-12-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decodeEnvelope(t, rec)["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.EqualValues(t, 0, summary["totalUsers"])
}

func TestReports_UnknownType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/admin/reports?type=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
