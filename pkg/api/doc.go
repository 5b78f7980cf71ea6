// Package api is the JSON-over-HTTP surface of the admin console: user
// management, dashboard and reports, system settings, website content
// sections, image uploads and the booking inquiry relay. Every response
// uses the {success, data|message|errors} envelope.
package api
