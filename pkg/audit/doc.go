// Package audit provides audit logging for vault operations.
//
// This package implements structured audit logging for security-relevant
// operations such as authentication attempts, secret reveals, structural
// mutations and trash lifecycle transitions.
//
// # Event Types
//
// The package defines event types for various operations:
//
//   - Authentication events (success/failure)
//   - Secret fetch (reveal) events
//   - Entity create/update/move/delete events
//   - Trash restore/purge/empty events
//   - Permission check events
//
// # Usage
//
//	audit.Log(audit.FetchEvent{
//	    UserID:     user.UserID,
//	    PasswordID: id,
//	    Success:    true,
//	})
//
// Audit events are logged in RFC5424 syslog format suitable for security
// monitoring and compliance requirements.
package audit
