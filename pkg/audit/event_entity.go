package audit

import "fmt"

// EntityEvent represents a structural mutation audit event: create,
// update, move or delete of a hierarchy entity.
type EntityEvent struct {
	UserID       string
	ClientIP     string
	Operation    string
	EntityKind   string
	EntityID     string
	Success      bool
	ErrorMessage string
}

func (e EntityEvent) MessageID() string {
	return e.Operation
}

func (e EntityEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s performed %s on %s %s", e.UserID, e.Operation, e.EntityKind, e.EntityID)
	}
	msg := fmt.Sprintf("%s tried to %s %s %s", e.UserID, e.Operation, e.EntityKind, e.EntityID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e EntityEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e EntityEvent) Facility() int {
	return FacilityAuth
}

func (e EntityEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"kind": e.EntityKind,
			"id":   e.EntityID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
		},
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
