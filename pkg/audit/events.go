package audit

import "fmt"

// AuthenticateEvent represents an authentication audit event
type AuthenticateEvent struct {
	UserID       string
	TenantID     string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated", e.UserID)
	}
	msg := fmt.Sprintf("%s failed to authenticate", e.UserID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	if e.TenantID != "" {
		sd[SDIDAuth]["tenant"] = e.TenantID
	}
	return sd
}

// FetchEvent represents a secret reveal audit event. Every decrypt-on-
// read is recorded, successful or not.
type FetchEvent struct {
	UserID       string
	ClientIP     string
	PasswordID   string
	Success      bool
	ErrorMessage string
}

func (e FetchEvent) MessageID() string {
	return "fetch"
}

func (e FetchEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s fetched the secret of password %s", e.UserID, e.PasswordID)
	}
	msg := fmt.Sprintf("%s tried to fetch the secret of password %s", e.UserID, e.PasswordID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e FetchEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e FetchEvent) Facility() int {
	return FacilityAuthPriv
}

func (e FetchEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"password": e.PasswordID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "fetch",
		},
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
