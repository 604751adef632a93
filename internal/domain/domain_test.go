package domain

import (
	"testing"
	"time"
)

func TestTicketWellFormed(t *testing.T) {
	now := time.Now()
	good := Ticket{
		ID:        "TKT-1-abcd1234",
		Title:     "a ticket",
		Status:    TicketStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    "user-1",
	}
	if !good.WellFormed() {
		t.Fatal("complete ticket rejected")
	}

	tests := []struct {
		name   string
		mutate func(*Ticket)
	}{
		{"missing id", func(tk *Ticket) { tk.ID = "" }},
		{"missing owner", func(tk *Ticket) { tk.UserID = "" }},
		{"unknown status", func(tk *Ticket) { tk.Status = "Pending" }},
		{"zero created", func(tk *Ticket) { tk.CreatedAt = time.Time{} }},
		{"updated before created", func(tk *Ticket) { tk.UpdatedAt = tk.CreatedAt.Add(-time.Second) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := good
			tt.mutate(&ticket)
			if ticket.WellFormed() {
				t.Error("malformed ticket accepted")
			}
		})
	}
}

func TestValidTicketStatus(t *testing.T) {
	for _, status := range AllTicketStatuses {
		if !ValidTicketStatus(status) {
			t.Errorf("%q rejected", status)
		}
	}
	for _, status := range []TicketStatus{"", "open", "OPEN", "Done"} {
		if ValidTicketStatus(status) {
			t.Errorf("%q accepted", status)
		}
	}
}

func TestSessionWellFormedAndExpired(t *testing.T) {
	now := time.Now()
	session := Session{
		Token:     "tok",
		User:      User{ID: "u1", Username: "demo"},
		ExpiresAt: now.Add(time.Hour),
	}
	if !session.WellFormed() {
		t.Fatal("complete session rejected")
	}
	if session.Expired(now) {
		t.Error("future expiry read as expired")
	}
	if !session.Expired(now.Add(time.Hour)) {
		t.Error("boundary instant not expired")
	}

	for name, mutate := range map[string]func(*Session){
		"missing token":    func(s *Session) { s.Token = "" },
		"missing user id":  func(s *Session) { s.User.ID = "" },
		"missing username": func(s *Session) { s.User.Username = "" },
		"zero expiry":      func(s *Session) { s.ExpiresAt = time.Time{} },
	} {
		broken := session
		mutate(&broken)
		if broken.WellFormed() {
			t.Errorf("%s: malformed session accepted", name)
		}
	}
}

func TestTicketPatchEmpty(t *testing.T) {
	if !(TicketPatch{}).Empty() {
		t.Error("zero patch not empty")
	}
	title := "t"
	if (TicketPatch{Title: &title}).Empty() {
		t.Error("patch with title read as empty")
	}
}
