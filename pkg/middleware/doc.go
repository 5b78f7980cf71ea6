// Package middleware implements the request-authorization chain: the
// fixed-window rate limiter, the authorization gate, and the validation
// wrapper. Stages compose with httputil.Chain in a fixed order
// (rate-limit, auth, validation, handler); any stage may short-circuit
// with a terminal error response and nothing is retried.
package middleware
