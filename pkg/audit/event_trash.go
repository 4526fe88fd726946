package audit

import (
	"fmt"
	"strconv"
)

// TrashEvent represents a trash lifecycle audit event: restore, purge or
// empty-all.
type TrashEvent struct {
	UserID       string
	ClientIP     string
	Action       string
	TrashItemID  string
	Count        int
	Success      bool
	ErrorMessage string
}

func (e TrashEvent) MessageID() string {
	return "trash"
}

func (e TrashEvent) Message() string {
	subject := "trash item " + e.TrashItemID
	if e.TrashItemID == "" {
		subject = fmt.Sprintf("%d trash items", e.Count)
	}
	if e.Success {
		return fmt.Sprintf("%s performed %s on %s", e.UserID, e.Action, subject)
	}
	msg := fmt.Sprintf("%s tried to %s %s", e.UserID, e.Action, subject)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e TrashEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e TrashEvent) Facility() int {
	return FacilityAuth
}

func (e TrashEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Action,
		},
	}
	if e.TrashItemID != "" {
		sd[SDIDSubject] = map[string]string{"trash_item": e.TrashItemID}
	} else {
		sd[SDIDSubject] = map[string]string{"count": strconv.Itoa(e.Count)}
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
