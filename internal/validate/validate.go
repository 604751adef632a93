// Package validate holds the pure field-rule checks for tickets and
// credentials. Nothing here touches storage or sessions.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

// Length limits are counted in characters, not bytes.
const (
	TitleMinLen       = 3
	TitleMaxLen       = 100
	DescriptionMaxLen = 500
	UsernameMinLen    = 3
	PasswordMinLen    = 6
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// Result lists field-level violations. Keys are unique, one message
// per field.
type Result struct {
	Valid  bool
	Errors map[string]string
}

func newResult() Result {
	return Result{Valid: true, Errors: map[string]string{}}
}

func (r *Result) fail(field, message string) {
	r.Valid = false
	if _, taken := r.Errors[field]; !taken {
		r.Errors[field] = message
	}
}

// TicketCreate checks the full rule set for a new ticket. Surrounding
// whitespace is trimmed before length checks; a whitespace-only title
// is a required-field violation, not a length violation.
func TicketCreate(title, description string, status domain.TicketStatus) Result {
	result := newResult()
	checkTitle(&result, title)
	checkDescription(&result, description)
	checkStatus(&result, status)
	return result
}

// TicketUpdate applies the per-field rules only to fields present in
// the patch. An absent field is not checked.
func TicketUpdate(patch domain.TicketPatch) Result {
	result := newResult()
	if patch.Title != nil {
		checkTitle(&result, *patch.Title)
	}
	if patch.Description != nil {
		checkDescription(&result, *patch.Description)
	}
	if patch.Status != nil {
		checkStatus(&result, *patch.Status)
	}
	return result
}

// Credentials checks the login rules: both fields present with the
// minimum lengths. The message does not say which field fell short
// beyond the length categorization.
func Credentials(username, password string) Result {
	result := newResult()
	if strings.TrimSpace(username) == "" {
		result.fail("username", "Username is required")
	} else if utf8.RuneCountInString(strings.TrimSpace(username)) < UsernameMinLen {
		result.fail("username", fmt.Sprintf("Username must be at least %d characters", UsernameMinLen))
	}
	if password == "" {
		result.fail("password", "Password is required")
	} else if utf8.RuneCountInString(password) < PasswordMinLen {
		result.fail("password", fmt.Sprintf("Password must be at least %d characters", PasswordMinLen))
	}
	return result
}

// Email reports whether addr matches the simple local@domain shape.
// This is a pre-submission convenience check, not a security boundary.
func Email(addr string) bool {
	return emailPattern.MatchString(strings.TrimSpace(addr))
}

func checkTitle(result *Result, title string) {
	trimmed := strings.TrimSpace(title)
	length := utf8.RuneCountInString(trimmed)
	switch {
	case trimmed == "":
		result.fail("title", "Title is required")
	case length < TitleMinLen || length > TitleMaxLen:
		result.fail("title", fmt.Sprintf("Title must be between %d and %d characters", TitleMinLen, TitleMaxLen))
	}
}

func checkDescription(result *Result, description string) {
	if utf8.RuneCountInString(strings.TrimSpace(description)) > DescriptionMaxLen {
		result.fail("description", fmt.Sprintf("Description must be %d characters or less", DescriptionMaxLen))
	}
}

func checkStatus(result *Result, status domain.TicketStatus) {
	if !domain.ValidTicketStatus(status) {
		result.fail("status", "Status must be one of Open, In Progress, Closed")
	}
}
