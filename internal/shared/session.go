package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	sessionKeyActiveRole = "active_role"
	sessionKeyViewPrefix = "view:"
)

// Session is the per-visitor state: the signed-in user, the role they act
// as and the list view state of every page they opened. Values are strings;
// structured state goes through SetJSON.
type Session struct {
	ID string

	issued    time.Time
	userID    string
	values    map[string]string
	persisted bool
	dirty     bool
	destroyed bool
}

// NewSession returns an unsaved session with a fresh random id.
func NewSession() *Session {
	return &Session{
		ID:     uuid.NewString(),
		issued: time.Now().UTC(),
		values: map[string]string{},
		dirty:  true,
	}
}

// IssuedAt reports when the session id was first handed out.
func (s *Session) IssuedAt() time.Time {
	return s.issued
}

// Get returns the value under key, or "".
func (s *Session) Get(key string) string {
	return s.values[key]
}

// Set stores value under key.
func (s *Session) Set(key, value string) {
	if s.values == nil {
		s.values = map[string]string{}
	}
	if old, ok := s.values[key]; ok && old == value {
		return
	}
	s.values[key] = value
	s.dirty = true
}

// Delete removes key.
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.dirty = true
}

// SetJSON stores v encoded as JSON under key.
func (s *Session) SetJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.Set(key, string(raw))
	return nil
}

// GetJSON decodes the value under key into v, reporting false when the key
// is absent or does not decode.
func (s *Session) GetJSON(key string, v any) bool {
	raw := s.Get(key)
	return raw != "" && json.Unmarshal([]byte(raw), v) == nil
}

// ViewKey is the session key holding the list state of page.
func ViewKey(page string) string {
	return sessionKeyViewPrefix + page
}

// SetUser binds the session to a user id.
func (s *Session) SetUser(id string) {
	if s.userID == id {
		return
	}
	s.userID = id
	s.dirty = true
}

// User returns the bound user id, or "" for an anonymous session.
func (s *Session) User() string {
	return s.userID
}

// SetActiveRole records the role the user acts as.
func (s *Session) SetActiveRole(role Role) {
	s.Set(sessionKeyActiveRole, string(role))
}

// ActiveRole returns the role the user acts as.
func (s *Session) ActiveRole() Role {
	return Role(s.Get(sessionKeyActiveRole))
}

// Clear forgets the user, role and all view state. The id survives.
func (s *Session) Clear() {
	s.userID = ""
	s.values = map[string]string{}
	s.dirty = true
}
