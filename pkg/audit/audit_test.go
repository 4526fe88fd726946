package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := AuthenticateEvent{
		UserID:   "alice",
		TenantID: "acme",
		ClientIP: "192.168.1.1",
		Success:  true,
	}

	logger.Log(event)

	output := buf.String()

	// Check RFC5424 format components
	if !strings.Contains(output, "vault") {
		t.Error("Expected app name 'vault' in output")
	}
	if !strings.Contains(output, "authn") {
		t.Error("Expected message ID 'authn' in output")
	}
	if !strings.Contains(output, "alice") {
		t.Error("Expected user ID in output")
	}
	if !strings.Contains(output, "192.168.1.1") {
		t.Error("Expected client IP in output")
	}
	if !strings.Contains(output, "successfully authenticated") {
		t.Error("Expected success message in output")
	}
	if !strings.HasPrefix(output, "<") {
		t.Error("Expected PRI prefix in output")
	}
}

func TestAuthenticateEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     AuthenticateEvent
		wantMsg   string
		wantSev   Severity
		wantFac   int
		wantMsgID string
	}{
		{
			name: "successful authentication",
			event: AuthenticateEvent{
				UserID:   "alice",
				ClientIP: "10.0.0.1",
				Success:  true,
			},
			wantMsg:   "successfully authenticated",
			wantSev:   SeverityInfo,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "authn",
		},
		{
			name: "failed authentication",
			event: AuthenticateEvent{
				UserID:       "alice",
				ClientIP:     "10.0.0.1",
				Success:      false,
				ErrorMessage: "invalid credentials",
			},
			wantMsg:   "failed to authenticate",
			wantSev:   SeverityWarning,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "authn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want substring %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != tt.wantFac {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), tt.wantFac)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %q, want %q", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestFetchEventStructuredData(t *testing.T) {
	event := FetchEvent{
		UserID:     "alice",
		ClientIP:   "10.0.0.1",
		PasswordID: "pass-1",
		Success:    false,
	}

	sd := event.StructuredData()
	if sd[SDIDSubject]["password"] != "pass-1" {
		t.Errorf("expected password id in subject SD, got %v", sd[SDIDSubject])
	}
	if sd[SDIDAction]["result"] != "failure" {
		t.Errorf("expected failure result, got %v", sd[SDIDAction])
	}
}

func TestEntityEvent(t *testing.T) {
	event := EntityEvent{
		UserID:     "root",
		Operation:  "delete",
		EntityKind: "collection",
		EntityID:   "coll-1",
		Success:    true,
	}

	if event.MessageID() != "delete" {
		t.Errorf("MessageID() = %q, want %q", event.MessageID(), "delete")
	}
	if !strings.Contains(event.Message(), "performed delete on collection coll-1") {
		t.Errorf("unexpected message: %q", event.Message())
	}
	if event.StructuredData()[SDIDSubject]["kind"] != "collection" {
		t.Error("expected entity kind in subject SD")
	}
}

func TestTrashEvent(t *testing.T) {
	restore := TrashEvent{
		UserID:      "root",
		Action:      "restore",
		TrashItemID: "item-1",
		Success:     true,
	}
	if !strings.Contains(restore.Message(), "restore on trash item item-1") {
		t.Errorf("unexpected message: %q", restore.Message())
	}

	empty := TrashEvent{
		UserID:  "root",
		Action:  "empty",
		Count:   5,
		Success: true,
	}
	if !strings.Contains(empty.Message(), "5 trash items") {
		t.Errorf("unexpected message: %q", empty.Message())
	}
	if empty.StructuredData()[SDIDSubject]["count"] != "5" {
		t.Error("expected count in subject SD")
	}
}

func TestCheckEvent(t *testing.T) {
	denied := CheckEvent{
		UserID:     "mallory",
		EntityKind: "password",
		EntityID:   "pass-1",
		Operation:  "write",
		Allowed:    false,
	}

	if denied.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", denied.Severity(), SeverityWarning)
	}
	if !strings.Contains(denied.Message(), "was denied write permission") {
		t.Errorf("unexpected message: %q", denied.Message())
	}
}

func TestStructuredDataEscaping(t *testing.T) {
	sd := formatStructuredData(map[string]map[string]string{
		SDIDSubject: {"id": `quo"te]`},
	})
	if !strings.Contains(sd, `\"`) || !strings.Contains(sd, `\]`) {
		t.Errorf("expected escaped SD value, got %q", sd)
	}
}
