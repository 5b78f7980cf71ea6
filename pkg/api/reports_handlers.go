package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/raf-aleaqarih/project-raf25/pkg/auth"
	"github.com/raf-aleaqarih/project-raf25/pkg/httputil"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
)

// reports handles GET /api/admin/reports?type=overview|users|activity with
// an optional startDate/endDate range narrowing the reporting window.
func (s *Server) reports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter storage.UserFilter
	if from, ok := parseReportDate(q.Get("startDate")); ok {
		filter.CreatedFrom = &from
	}
	if to, ok := parseReportDate(q.Get("endDate")); ok {
		// Inclusive end of day
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.CreatedTo = &to
	}

	var (
		data map[string]interface{}
		err  error
	)
	switch q.Get("type") {
	case "users":
		data, err = s.usersReport(r.Context(), filter)
	case "activity":
		data, err = s.activityReport(r.Context(), filter)
	case "overview", "":
		data, err = s.overviewReport(r.Context(), filter)
	default:
		httputil.WriteBadRequest(w, "Unknown report type")
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to build report")
		httputil.WriteInternal(w)
		return
	}

	httputil.WriteData(w, http.StatusOK, data)
}

func (s *Server) overviewReport(ctx context.Context, filter storage.UserFilter) (map[string]interface{}, error) {
	total, err := s.store.CountUsers(ctx, filter)
	if err != nil {
		return nil, err
	}

	activeFilter := filter
	activeFilter.Status = "active"
	active, err := s.store.CountUsers(ctx, activeFilter)
	if err != nil {
		return nil, err
	}

	adminFilter := filter
	adminFilter.Role = auth.RoleAdmin
	admins, err := s.store.CountUsers(ctx, adminFilter)
	if err != nil {
		return nil, err
	}

	// Twelve-month registration trend, oldest first
	monthly := make([]map[string]interface{}, 0, 12)
	now := time.Now()
	for i := 11; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

		count, err := s.store.CountUsers(ctx, storage.UserFilter{CreatedFrom: &start, CreatedTo: &end})
		if err != nil {
			return nil, err
		}
		monthly = append(monthly, map[string]interface{}{
			"month": start.Format("January 2006"),
			"count": count,
			"date":  start.Format(time.RFC3339),
		})
	}

	return map[string]interface{}{
		"summary": map[string]interface{}{
			"totalUsers":    total,
			"activeUsers":   active,
			"adminUsers":    admins,
			"inactiveUsers": total - active,
		},
		"trends": map[string]interface{}{
			"monthly": monthly,
		},
	}, nil
}

func (s *Server) usersReport(ctx context.Context, filter storage.UserFilter) (map[string]interface{}, error) {
	listFilter := filter
	listFilter.SortBy = "createdAt"
	users, total, err := s.store.ListUsers(ctx, listFilter)
	if err != nil {
		return nil, err
	}

	roles, err := s.store.RoleDistribution(ctx, filter)
	if err != nil {
		return nil, err
	}
	roleDistribution := make([]map[string]interface{}, 0, len(roles))
	for _, rc := range roles {
		percentage := 0
		if total > 0 {
			percentage = int(float64(rc.Count)/float64(total)*100 + 0.5)
		}
		roleDistribution = append(roleDistribution, map[string]interface{}{
			"role":       rc.Role,
			"count":      rc.Count,
			"percentage": percentage,
		})
	}

	loginFrequency, err := s.store.LoginFrequency(ctx, 30)
	if err != nil {
		return nil, err
	}
	var activeInLast30Days int64
	for _, day := range loginFrequency {
		activeInLast30Days += day.Count
	}

	byWeekday, err := s.store.RegistrationsByWeekday(ctx, filter)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"users": users,
		"analytics": map[string]interface{}{
			"total":              total,
			"roleDistribution":   roleDistribution,
			"activeInLast30Days": activeInLast30Days,
			"registrationByDay":  byWeekday,
		},
	}, nil
}

func (s *Server) activityReport(ctx context.Context, filter storage.UserFilter) (map[string]interface{}, error) {
	listFilter := filter
	listFilter.SortBy = "createdAt"
	listFilter.Page = 1
	listFilter.Limit = 50
	recent, _, err := s.store.ListUsers(ctx, listFilter)
	if err != nil {
		return nil, err
	}

	timeline := make([]activityEntry, 0, len(recent))
	for _, user := range recent {
		timeline = append(timeline, activityEntry{
			ID:        user.ID,
			Type:      "registration",
			Message:   fmt.Sprintf("New user registered: %s", user.Name),
			Timestamp: user.CreatedAt,
			Details: map[string]interface{}{
				"email":     user.Email,
				"lastLogin": user.LastLogin,
			},
		})
	}

	loginFrequency, err := s.store.LoginFrequency(ctx, 30)
	if err != nil {
		return nil, err
	}
	logins := make([]map[string]interface{}, 0, len(loginFrequency))
	var totalLogins int64
	for _, day := range loginFrequency {
		totalLogins += day.Count
		logins = append(logins, map[string]interface{}{
			"date":   day.Date,
			"logins": day.Count,
		})
	}
	averageLoginsPerDay := int64(0)
	if len(loginFrequency) > 0 {
		averageLoginsPerDay = totalLogins / int64(len(loginFrequency))
	}

	return map[string]interface{}{
		"timeline":       timeline,
		"loginFrequency": logins,
		"summary": map[string]interface{}{
			"totalActivities":     len(timeline),
			"averageLoginsPerDay": averageLoginsPerDay,
		},
	}, nil
}

// parseReportDate accepts 2006-01-02 or RFC 3339
func parseReportDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
