// Package session owns the authentication gate of the tracker: account
// registration, credential checks, the single session slot, and the route
// guard that keys off it.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dcomputer22/trackdesk/internal/domain"
	"github.com/Dcomputer22/trackdesk/internal/events"
	"github.com/Dcomputer22/trackdesk/internal/observability"
	"github.com/Dcomputer22/trackdesk/internal/storage"
	"github.com/Dcomputer22/trackdesk/pkg/util"
)

// Record keys in the durable store. The names match the original browser
// storage layout so an exported collection stays readable.
const (
	usersKey   = "ticketapp_users"
	sessionKey = "ticketapp_session"
)

const metricsComponent = "session"

// userRecord is a registered user plus the credential stored alongside.
// The password is kept as entered: the login contract is an exact string
// comparison. See DESIGN.md for the open question on hashing.
type userRecord struct {
	domain.User
	Password string `json:"password"`
}

// Manager coordinates registration and login flows. It assumes well-formed
// input (shape checks are the presentation boundary's job, see validate.go)
// and enforces only the uniqueness and credential-match invariants.
type Manager struct {
	store      storage.Store
	tokens     *TokenManager
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// Dependencies bundles collaborators for the manager. Store and Tokens are
// required; the rest default to no-ops.
type Dependencies struct {
	Store      storage.Store
	Tokens     *TokenManager
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewManager builds the manager.
func NewManager(deps Dependencies) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:      deps.Store,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Register creates a new account and immediately starts a session for it, so
// a fresh signup lands on the dashboard without a separate login.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	user, err := m.register(ctx, name, email, password)
	m.metrics.RecordOp(metricsComponent, "register", err)
	return user, err
}

func (m *Manager) register(ctx context.Context, name, email, password string) (*domain.User, error) {
	users, err := m.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range users {
		if existing.Email == email {
			m.logger.Warn("registration rejected", zap.String("reason", "duplicate email"))
			return nil, util.NewDuplicateEmail(email)
		}
	}

	record := userRecord{
		User: domain.User{
			ID:    uuid.NewString(),
			Name:  name,
			Email: email,
		},
		Password: password,
	}
	if err := m.saveUsers(ctx, append(users, record)); err != nil {
		return nil, err
	}
	if err := m.startSession(ctx, record.User); err != nil {
		return nil, err
	}
	m.logger.Debug("user registered", zap.String("user_id", record.ID))

	user := record.User
	return &user, nil
}

// Login checks the (email, password) pair against the stored credentials,
// both case-sensitive. Success overwrites any prior session: the slot holds
// at most one session and the last login wins.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := m.login(ctx, email, password)
	m.metrics.RecordOp(metricsComponent, "login", err)
	return user, err
}

func (m *Manager) login(ctx context.Context, email, password string) (*domain.User, error) {
	users, err := m.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range users {
		if record.Email == email && record.Password == password {
			if err := m.startSession(ctx, record.User); err != nil {
				return nil, err
			}
			m.logger.Debug("user logged in", zap.String("user_id", record.ID))
			user := record.User
			return &user, nil
		}
	}
	m.logger.Warn("login rejected", zap.String("reason", "invalid credentials"))
	return nil, util.NewInvalidCredentials()
}

// CurrentUser resolves the active session to its user. A missing session, a
// token that no longer verifies, or a session referencing a user that no
// longer exists all yield (nil, nil): "no current user" is not an error.
func (m *Manager) CurrentUser(ctx context.Context) (*domain.User, error) {
	user, err := m.currentUser(ctx)
	m.metrics.RecordOp(metricsComponent, "current_user", err)
	return user, err
}

func (m *Manager) currentUser(ctx context.Context) (*domain.User, error) {
	session, err := m.loadSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	if _, err := m.tokens.Parse(session.Token); err != nil {
		m.logger.Debug("session token no longer verifies", zap.Error(err))
		return nil, nil
	}

	users, err := m.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range users {
		if record.ID == session.UserID {
			user := record.User
			return &user, nil
		}
	}
	return nil, nil
}

// Logout removes the active session unconditionally. Calling it with no
// active session is not an error.
func (m *Manager) Logout(ctx context.Context) error {
	session, err := m.loadSession(ctx)
	if err != nil {
		return err
	}
	if err := m.store.Remove(ctx, sessionKey); err != nil {
		m.metrics.RecordOp(metricsComponent, "logout", err)
		return err
	}
	m.metrics.RecordOp(metricsComponent, "logout", nil)
	if session != nil {
		m.publish(ctx, events.EventSessionEnded, events.SessionEndedPayload{UserID: session.UserID})
	}
	return nil
}

// HasSession reports whether a session record is present. This is the signal
// the route guard keys on.
func (m *Manager) HasSession(ctx context.Context) (bool, error) {
	_, ok, err := m.store.Read(ctx, sessionKey)
	m.metrics.RecordOp(metricsComponent, "has_session", err)
	return ok, err
}

func (m *Manager) startSession(ctx context.Context, user domain.User) error {
	token, _, err := m.tokens.Generate(user.ID)
	if err != nil {
		return err
	}
	session := domain.Session{Token: token, UserID: user.ID}
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := m.store.Write(ctx, sessionKey, string(raw)); err != nil {
		return err
	}
	m.publish(ctx, events.EventSessionStarted, events.SessionStartedPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	return nil
}

func (m *Manager) loadSession(ctx context.Context) (*domain.Session, error) {
	raw, ok, err := m.store.Read(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		// An unreadable record is treated as no session rather than a fault.
		m.logger.Warn("discarding malformed session record", zap.Error(err))
		return nil, nil
	}
	return &session, nil
}

func (m *Manager) loadUsers(ctx context.Context) ([]userRecord, error) {
	raw, ok, err := m.store.Read(ctx, usersKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var users []userRecord
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, util.NewStorageUnavailable(err)
	}
	return users, nil
}

func (m *Manager) saveUsers(ctx context.Context, users []userRecord) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return m.store.Write(ctx, usersKey, string(raw))
}

func (m *Manager) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if m.dispatcher == nil {
		return
	}
	_ = m.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
