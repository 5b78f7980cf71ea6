package api

import (
	"net/http"
	"time"

	"github.com/raf-aleaqarih/project-raf25/pkg/httputil"
	"github.com/raf-aleaqarih/project-raf25/pkg/mailer"
	"github.com/raf-aleaqarih/project-raf25/pkg/middleware"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
)

// sendEmail handles POST /api/send-email: relays a booking inquiry from
// the marketing site to the configured recipient.
func (s *Server) sendEmail(w http.ResponseWriter, r *http.Request) {
	body := middleware.BodyFrom(r)

	str := func(key string) string {
		v, _ := body[key].(string)
		return v
	}

	inquiry := mailer.Inquiry{
		Name:        str("name"),
		Phone:       str("phone"),
		Notes:       str("notes"),
		Source:      str("source"),
		SocialMedia: str("socialMedia"),
		Platform:    mailer.PlatformFromReferer(r.Header.Get("Referer")),
		IP:          middleware.ClientIP(r),
		SubmittedAt: time.Now(),
	}

	if err := s.mailer.SendInquiry(r.Context(), inquiry); err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to send inquiry email")
		if s.metrics != nil {
			s.metrics.EmailsFailedTotal.Inc()
		}
		httputil.WriteErrorMessage(w, http.StatusInternalServerError, "Failed to send your request, please try again")
		return
	}

	if s.metrics != nil {
		s.metrics.EmailsSentTotal.Inc()
	}
	httputil.WriteMessage(w, http.StatusOK, "Your request has been sent successfully")
}
