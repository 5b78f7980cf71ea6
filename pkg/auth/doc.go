// Package auth provides access-token verification and identity primitives.
//
// Token issuance is delegated to an external token service; this package
// only verifies (or, for UI redirects, decodes) the resulting JWTs and
// defines the role vocabulary shared by storage and middleware.
package auth
