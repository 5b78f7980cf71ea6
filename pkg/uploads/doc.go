// Package uploads stores admin-uploaded images behind a small Store
// interface with filesystem and S3 backends.
package uploads
