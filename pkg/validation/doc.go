// Package validation implements declarative request-body validation.
//
// Handlers declare a Schema (field types, required/optional, enumerated
// values, length and format constraints) and the middleware layer rejects
// any body violating it before business logic runs. Errors carry the
// offending field path and a human-readable message.
package validation
