package chat

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrMissingCredentials means no stored login was found for the chat user.
var ErrMissingCredentials = errors.New("chat: user info or token not found")

// Credentials are the values stored on the device after login.
type Credentials struct {
	UserID string
	Name   string
	Token  string
}

// User is the identity presented to the hosted chat service.
type User struct {
	ID   string
	Name string
}

// CredentialStore reads the stored login.
type CredentialStore interface {
	Load(ctx context.Context) (Credentials, error)
}

// CredentialsFunc adapts a function to CredentialStore.
type CredentialsFunc func(ctx context.Context) (Credentials, error)

func (f CredentialsFunc) Load(ctx context.Context) (Credentials, error) { return f(ctx) }

// Connector is the hosted chat client.
type Connector interface {
	// ConnectedUserID returns "" when no user is connected.
	ConnectedUserID() string
	ConnectUser(ctx context.Context, user User, token string) error
	DisconnectUser(ctx context.Context) error
}

// Session owns the single chat connection of the app. Content that needs chat
// waits on Ready; a failed connection still becomes ready so the rest of the
// app keeps rendering.
type Session struct {
	store     CredentialStore
	connector Connector
	logger    *zap.Logger

	once  sync.Once
	ready chan struct{}

	mu      sync.Mutex
	lastErr error
}

func NewSession(store CredentialStore, connector Connector, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:     store,
		connector: connector,
		logger:    logger,
		ready:     make(chan struct{}),
	}
}

// Bootstrap disconnects any previous user and connects the stored one. The
// error is also kept for Err; Ready is closed either way.
func (s *Session) Bootstrap(ctx context.Context) error {
	err := s.connect(ctx)
	if err != nil {
		s.logger.Error("chat connection failed", zap.Error(err))
	}

	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.once.Do(func() { close(s.ready) })
	return err
}

func (s *Session) connect(ctx context.Context) error {
	creds, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if creds.UserID == "" || creds.Token == "" {
		return ErrMissingCredentials
	}

	if s.connector.ConnectedUserID() != "" {
		if err := s.connector.DisconnectUser(ctx); err != nil {
			return err
		}
	}

	name := creds.Name
	if name == "" {
		name = creds.UserID
	}
	return s.connector.ConnectUser(ctx, User{ID: creds.UserID, Name: name}, creds.Token)
}

// Ready is closed once the first Bootstrap attempt has resolved.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// Err returns the outcome of the last Bootstrap.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close disconnects the chat user when the owning screen goes away.
func (s *Session) Close(ctx context.Context) error {
	if s.connector.ConnectedUserID() == "" {
		return nil
	}
	return s.connector.DisconnectUser(ctx)
}
