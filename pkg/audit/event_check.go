package audit

import "fmt"

// CheckEvent represents a permission check audit event
type CheckEvent struct {
	UserID     string
	ClientIP   string
	EntityKind string
	EntityID   string
	Operation  string
	Allowed    bool
}

func (e CheckEvent) MessageID() string {
	return "check"
}

func (e CheckEvent) Message() string {
	if e.Allowed {
		return fmt.Sprintf("%s successfully checked %s permission on %s %s", e.UserID, e.Operation, e.EntityKind, e.EntityID)
	}
	return fmt.Sprintf("%s was denied %s permission on %s %s", e.UserID, e.Operation, e.EntityKind, e.EntityID)
}

func (e CheckEvent) Severity() Severity {
	if e.Allowed {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e CheckEvent) Facility() int {
	return FacilityAuth
}

func (e CheckEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Allowed {
		result = "failure"
	}
	return map[string]map[string]string{
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
			"result":    result,
		},
	}
}
