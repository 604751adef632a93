package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/storage"
	"github.com/spec-kit/ticket-desk/internal/validate"
	"github.com/spec-kit/ticket-desk/pkg/outcome"
)

// Store keys owned by the manager. The redirect keys live in the
// transient store only.
const (
	SessionKey         = "ticketapp_session"
	redirectTargetKey  = "redirect_after_login"
	redirectMessageKey = "login_message"
)

// SeededUser is one entry of the simulated credential directory.
type SeededUser struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

// Manager owns the single active session record: create, validate,
// refresh, destroy. Protected views gate through it.
type Manager struct {
	store     *storage.Adapter
	transient *storage.Adapter
	tokens    *TokenManager
	directory map[string]SeededUser
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewManager builds the manager. The credential directory is parsed
// from cfg.DemoUsers; an empty seed means open simulated login.
func NewManager(store, transient *storage.Adapter, tokens *TokenManager, cfg config.AuthConfig, logger *zap.Logger) (*Manager, error) {
	directory, err := parseDirectory(cfg.DemoUsers)
	if err != nil {
		return nil, err
	}
	return &Manager{
		store:     store,
		transient: transient,
		tokens:    tokens,
		directory: directory,
		ttl:       cfg.SessionTTL(),
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Login checks credentials and, on success, writes the session record.
// Failure messages distinguish only missing/short fields from invalid
// credentials, never which credential was wrong.
func (m *Manager) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if result := validate.Credentials(username, password); !result.Valid {
		return nil, outcome.Validation(result.Errors)
	}
	username = strings.TrimSpace(username)

	user, err := m.resolveUser(username, password)
	if err != nil {
		return nil, err
	}

	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)
	token, err := m.tokens.Issue(user, issuedAt, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	session := domain.Session{Token: token, User: user, ExpiresAt: expiresAt}
	if err := m.store.Set(ctx, SessionKey, session); err != nil {
		return nil, err
	}
	m.logger.Info("session created", zap.String("username", user.Username), zap.Time("expires_at", expiresAt))
	return &session, nil
}

// IsAuthenticated reports whether a valid session exists. Absent,
// malformed, or expired records read as unauthenticated, and invalid
// records are deleted on the way out.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	var session domain.Session
	if !m.store.Get(ctx, SessionKey, &session) {
		// Covers both absence and corrupt content; removing an
		// absent key is a no-op.
		_ = m.store.Remove(ctx, SessionKey)
		return false
	}
	if !session.WellFormed() || session.Expired(m.now()) {
		m.logger.Info("removing invalid session record")
		_ = m.store.Remove(ctx, SessionKey)
		return false
	}
	claims, err := m.tokens.Parse(session.Token)
	if err != nil || claims.Subject != session.User.ID {
		m.logger.Warn("session token failed verification", zap.Error(err))
		_ = m.store.Remove(ctx, SessionKey)
		return false
	}
	return true
}

// Session returns the stored record without side effects, or nil. Only
// trust it immediately after IsAuthenticated in the same pass.
func (m *Manager) Session(ctx context.Context) *domain.Session {
	var session domain.Session
	if !m.store.Get(ctx, SessionKey, &session) || !session.WellFormed() {
		return nil
	}
	return &session
}

// CurrentUser returns the session owner without side effects, or nil.
func (m *Manager) CurrentUser(ctx context.Context) *domain.User {
	session := m.Session(ctx)
	if session == nil {
		return nil
	}
	user := session.User
	return &user
}

// Refresh extends the active session to now + TTL and persists it.
// Returns false when no valid session exists or the write fails.
func (m *Manager) Refresh(ctx context.Context) bool {
	if !m.IsAuthenticated(ctx) {
		return false
	}
	session := m.Session(ctx)
	if session == nil {
		return false
	}

	issuedAt := m.now()
	session.ExpiresAt = issuedAt.Add(m.ttl)
	token, err := m.tokens.Issue(session.User, issuedAt, session.ExpiresAt)
	if err != nil {
		m.logger.Error("refresh token signing failed", zap.Error(err))
		return false
	}
	session.Token = token
	if err := m.store.Set(ctx, SessionKey, session); err != nil {
		return false
	}
	return true
}

// Logout deletes the session record and the auxiliary redirect keys.
// Idempotent: succeeds even when no session existed.
func (m *Manager) Logout(ctx context.Context) {
	_ = m.store.Remove(ctx, SessionKey)
	_ = m.transient.Remove(ctx, redirectTargetKey)
	_ = m.transient.Remove(ctx, redirectMessageKey)
}

// RedirectIfNotAuth records the intended target and message in the
// transient store when unauthenticated, and reports whether the caller
// should navigate to the login view. Never fails.
func (m *Manager) RedirectIfNotAuth(ctx context.Context, target, message string) bool {
	if m.IsAuthenticated(ctx) {
		return false
	}
	if target != "" {
		_ = m.transient.Set(ctx, redirectTargetKey, target)
	}
	if message != "" {
		_ = m.transient.Set(ctx, redirectMessageKey, message)
	}
	return true
}

// ConsumeRedirect returns and clears any recorded redirect target and
// message. The login flow calls it after a successful authentication.
func (m *Manager) ConsumeRedirect(ctx context.Context) (target, message string) {
	_ = m.transient.Get(ctx, redirectTargetKey, &target)
	_ = m.transient.Get(ctx, redirectMessageKey, &message)
	_ = m.transient.Remove(ctx, redirectTargetKey)
	_ = m.transient.Remove(ctx, redirectMessageKey)
	return target, message
}

func (m *Manager) resolveUser(username, password string) (domain.User, error) {
	if len(m.directory) == 0 {
		// Open simulated login: any credential pair passing the
		// length rules maps to a stable identity.
		email := username
		if !validate.Email(email) {
			email = username + "@example.com"
		}
		return domain.User{
			ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte("ticket-desk/user/"+username)).String(),
			Username: username,
			Email:    email,
		}, nil
	}

	seeded, ok := m.directory[username]
	if !ok {
		return domain.User{}, outcome.Unauthenticated("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(seeded.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, outcome.Unauthenticated("invalid credentials")
	}
	return domain.User{ID: seeded.ID, Username: seeded.Username, Email: seeded.Email}, nil
}

func parseDirectory(seed string) (map[string]SeededUser, error) {
	directory := make(map[string]SeededUser)
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return directory, nil
	}
	for _, pair := range strings.Split(seed, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("malformed AUTH_DEMO_USERS entry %q", pair)
		}
		username := parts[0]
		email := username
		if !validate.Email(email) {
			email = username + "@example.com"
		}
		directory[username] = SeededUser{
			ID:           uuid.NewSHA1(uuid.NameSpaceURL, []byte("ticket-desk/user/"+username)).String(),
			Username:     username,
			Email:        email,
			PasswordHash: parts[1],
		}
	}
	return directory, nil
}
