package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/raf-aleaqarih/project-raf25/pkg/httputil"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
)

type activityEntry struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details"`
}

// dashboard handles GET /api/admin/dashboard: the headline user counts,
// the latest registrations and the 30-day registration trend.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	stats, err := s.store.UserStats(ctx)
	if err != nil {
		logger.WithError(err).Error("failed to load user stats")
		httputil.WriteInternal(w)
		return
	}

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	recentlyRegistered, err := s.store.CountUsers(ctx, storage.UserFilter{CreatedFrom: &sevenDaysAgo})
	if err != nil {
		logger.WithError(err).Error("failed to count recent registrations")
		httputil.WriteInternal(w)
		return
	}

	loginFrequency, err := s.store.LoginFrequency(ctx, 30)
	if err != nil {
		logger.WithError(err).Error("failed to load login frequency")
		httputil.WriteInternal(w)
		return
	}
	var recentlyActive int64
	for _, day := range loginFrequency {
		recentlyActive += day.Count
	}

	recent, err := s.store.RecentUsers(ctx, 10)
	if err != nil {
		logger.WithError(err).Error("failed to load recent users")
		httputil.WriteInternal(w)
		return
	}
	activity := make([]activityEntry, 0, len(recent))
	for _, user := range recent {
		activity = append(activity, activityEntry{
			ID:        user.ID,
			Type:      "user",
			Message:   fmt.Sprintf("New user: %s", user.Name),
			Timestamp: user.CreatedAt,
			Details: map[string]interface{}{
				"email":     user.Email,
				"lastLogin": user.LastLogin,
			},
		})
	}

	trend, err := s.store.RegistrationTrend(ctx, 30)
	if err != nil {
		logger.WithError(err).Error("failed to load registration trend")
		httputil.WriteInternal(w)
		return
	}

	growthPercentage := 0
	if stats.Total > 0 && recentlyRegistered > 0 {
		growthPercentage = int(float64(recentlyRegistered) / float64(stats.Total) * 100)
	}
	activePercentage := 0
	if stats.Total > 0 {
		activePercentage = int(float64(stats.Active) / float64(stats.Total) * 100)
	}

	httputil.WriteData(w, http.StatusOK, map[string]interface{}{
		"users": map[string]interface{}{
			"total":              stats.Total,
			"active":             stats.Active,
			"inactive":           stats.Inactive,
			"admins":             stats.Admins,
			"regular":            stats.Regular,
			"recentlyRegistered": recentlyRegistered,
			"recentlyActive":     recentlyActive,
			"growthPercentage":   growthPercentage,
			"activePercentage":   activePercentage,
		},
		"activity": map[string]interface{}{
			"recent":            activity,
			"registrationTrend": trend,
		},
	})
}
