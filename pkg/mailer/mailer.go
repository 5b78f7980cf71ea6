package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	gomail "gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when no SMTP transport is configured
var ErrNotConfigured = errors.New("mailer: not configured")

// Inquiry is a booking inquiry captured from the public site
type Inquiry struct {
	Name        string
	Phone       string
	Notes       string
	Source      string
	SocialMedia string
	Platform    string
	IP          string
	SubmittedAt time.Time
}

// Mailer delivers booking inquiries to the configured recipient
type Mailer interface {
	SendInquiry(ctx context.Context, inquiry Inquiry) error
}

// Config holds SMTP transport settings
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Recipient string
}

// SMTPMailer sends inquiries over SMTP
type SMTPMailer struct {
	dialer    *gomail.Dialer
	from      string
	recipient string
}

// NewSMTPMailer creates an SMTP-backed mailer
func NewSMTPMailer(cfg Config) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPMailer{
		dialer:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:      from,
		recipient: cfg.Recipient,
	}
}

// SendInquiry renders and delivers one inquiry email
func (m *SMTPMailer) SendInquiry(ctx context.Context, inquiry Inquiry) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.recipient)
	msg.SetHeader("Subject", fmt.Sprintf("New booking inquiry from %s", inquiry.Name))
	msg.SetBody("text/html", renderInquiry(inquiry))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send inquiry email: %w", err)
	}
	return nil
}

func renderInquiry(inquiry Inquiry) string {
	var b strings.Builder
	b.WriteString("<h2>New Booking Inquiry</h2><table>")
	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "<tr><td><strong>%s</strong></td><td>%s</td></tr>",
			html.EscapeString(label), html.EscapeString(value))
	}
	row("Name", inquiry.Name)
	row("Phone", inquiry.Phone)
	row("Notes", inquiry.Notes)
	row("Source", inquiry.Source)
	row("Social media", inquiry.SocialMedia)
	row("Platform", inquiry.Platform)
	row("IP", inquiry.IP)
	if !inquiry.SubmittedAt.IsZero() {
		row("Submitted", inquiry.SubmittedAt.Format(time.RFC1123))
	}
	b.WriteString("</table>")
	return b.String()
}

// Disabled is the no-op mailer used when SMTP is not configured
type Disabled struct{}

// SendInquiry always fails with ErrNotConfigured
func (Disabled) SendInquiry(ctx context.Context, inquiry Inquiry) error {
	return ErrNotConfigured
}

// PlatformFromReferer maps a Referer header to a traffic source name
func PlatformFromReferer(referer string) string {
	if referer == "" {
		return "Direct"
	}
	ref := strings.ToLower(referer)
	platforms := []struct {
		fragment string
		name     string
	}{
		{"facebook", "Facebook"},
		{"instagram", "Instagram"},
		{"twitter", "Twitter"},
		{"t.co/", "Twitter"},
		{"tiktok", "TikTok"},
		{"snapchat", "Snapchat"},
		{"youtube", "YouTube"},
		{"linkedin", "LinkedIn"},
		{"whatsapp", "WhatsApp"},
		{"telegram", "Telegram"},
	}
	for _, p := range platforms {
		if strings.Contains(ref, p.fragment) {
			return p.name
		}
	}
	return "Other"
}
