// Package identity carries the authenticated caller of a vault request:
// token claims, the tenant boundary, and context plumbing used by the
// HTTP middleware and the core services.
package identity
