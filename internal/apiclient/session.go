package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"childguard/backend/internal/models"
)

// ErrNoSession means nobody has logged in on this device.
var ErrNoSession = errors.New("no stored session")

// Session is what the app keeps on the device after login.
type Session struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	ChatToken string `json:"chatToken"`
}

// SessionFromLogin copies a login response.
func SessionFromLogin(resp *models.LoginResponse) Session {
	return Session{
		Token:     resp.Token,
		UserID:    resp.UserID,
		Name:      resp.Name,
		Email:     resp.Email,
		Phone:     resp.Phone,
		ChatToken: resp.ChatToken,
	}
}

// FileSessionStore persists the session as a JSON file readable only by the
// current user.
type FileSessionStore struct {
	Path string
}

// DefaultSessionPath lives under the user's config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "childguard", "session.json"), nil
}

func (s FileSessionStore) Load() (Session, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("corrupt session file %s: %w", s.Path, err)
	}
	if sess.UserID == "" {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

func (s FileSessionStore) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o600)
}

func (s FileSessionStore) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
