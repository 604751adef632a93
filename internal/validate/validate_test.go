package validate

import (
	"strings"
	"testing"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

func TestTicketCreateTitleRules(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		valid   bool
		message string
	}{
		{name: "minimum length", title: "abc", valid: true},
		{name: "maximum length", title: strings.Repeat("a", 100), valid: true},
		{name: "too short", title: "ab", valid: false, message: "Title must be between 3 and 100 characters"},
		{name: "too long", title: strings.Repeat("a", 101), valid: false, message: "Title must be between 3 and 100 characters"},
		{name: "empty", title: "", valid: false, message: "Title is required"},
		{name: "whitespace only", title: "   \t  ", valid: false, message: "Title is required"},
		{name: "trimmed before length", title: "  ab  ", valid: false, message: "Title must be between 3 and 100 characters"},
		{name: "padding does not inflate", title: " " + strings.Repeat("a", 100) + " ", valid: true},
		{name: "two multibyte characters", title: "日本", valid: false, message: "Title must be between 3 and 100 characters"},
		{name: "three multibyte characters", title: "日本語", valid: true},
		{name: "hundred multibyte characters", title: strings.Repeat("日", 100), valid: true},
		{name: "hundred and one multibyte characters", title: strings.Repeat("日", 101), valid: false, message: "Title must be between 3 and 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TicketCreate(tt.title, "", domain.TicketStatusOpen)
			if result.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (errors: %v)", result.Valid, tt.valid, result.Errors)
			}
			if !tt.valid && result.Errors["title"] != tt.message {
				t.Errorf("title message = %q, want %q", result.Errors["title"], tt.message)
			}
		})
	}
}

func TestTicketCreateDescriptionAndStatus(t *testing.T) {
	if r := TicketCreate("valid title", strings.Repeat("d", 500), domain.TicketStatusOpen); !r.Valid {
		t.Errorf("500-char description rejected: %v", r.Errors)
	}
	if r := TicketCreate("valid title", strings.Repeat("d", 501), domain.TicketStatusOpen); r.Valid {
		t.Error("501-char description accepted")
	}
	if r := TicketCreate("valid title", strings.Repeat("説", 500), domain.TicketStatusOpen); !r.Valid {
		t.Errorf("500-character multibyte description rejected: %v", r.Errors)
	}
	if r := TicketCreate("valid title", strings.Repeat("説", 501), domain.TicketStatusOpen); r.Valid {
		t.Error("501-character multibyte description accepted")
	}
	if r := TicketCreate("valid title", "", domain.TicketStatus("Pending")); r.Valid {
		t.Error("unknown status accepted")
	} else if r.Errors["status"] == "" {
		t.Errorf("status violation missing: %v", r.Errors)
	}
}

func TestTicketCreateCollectsAllViolations(t *testing.T) {
	result := TicketCreate("", strings.Repeat("d", 501), domain.TicketStatus("bogus"))
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	for _, field := range []string{"title", "description", "status"} {
		if result.Errors[field] == "" {
			t.Errorf("missing violation for %s: %v", field, result.Errors)
		}
	}
}

func TestTicketUpdateChecksOnlyPresentFields(t *testing.T) {
	status := domain.TicketStatusClosed
	if r := TicketUpdate(domain.TicketPatch{Status: &status}); !r.Valid {
		t.Errorf("status-only patch rejected: %v", r.Errors)
	}

	short := "ab"
	result := TicketUpdate(domain.TicketPatch{Title: &short})
	if result.Valid {
		t.Fatal("short title accepted in patch")
	}
	if len(result.Errors) != 1 {
		t.Errorf("absent fields were checked: %v", result.Errors)
	}

	if r := TicketUpdate(domain.TicketPatch{}); !r.Valid {
		t.Errorf("empty patch rejected: %v", r.Errors)
	}
}

func TestCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		valid    bool
	}{
		{name: "ok", username: "demo", password: "secret1", valid: true},
		{name: "boundary", username: "abc", password: "123456", valid: true},
		{name: "short username", username: "ab", password: "123456", valid: false},
		{name: "short password", username: "demo", password: "12345", valid: false},
		{name: "missing username", username: "  ", password: "123456", valid: false},
		{name: "missing password", username: "demo", password: "", valid: false},
		{name: "multibyte username boundary", username: "田中氏", password: "123456", valid: true},
		{name: "short multibyte username", username: "田中", password: "123456", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Credentials(tt.username, tt.password); result.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.valid, result.Errors)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	for addr, want := range map[string]bool{
		"user@example.com":   true,
		"a@b":                true,
		"  user@example.io ": true,
		"user":               false,
		"user@":              false,
		"@example.com":       false,
		"us er@example.com":  false,
		"":                   false,
	} {
		if got := Email(addr); got != want {
			t.Errorf("Email(%q) = %v, want %v", addr, got, want)
		}
	}
}
