package shared

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Each session is one Redis hash. Reserved fields start with "_" and
// values are stored under their own key prefixed with "v:".
const (
	fieldIssued  = "_issued"
	fieldUser    = "_user"
	valuePrefix  = "v:"
	sessionSpace = "session:"
)

// SessionManager keeps sessions in Redis hashes and hands the id out in a
// cookie. Every committed request pushes the expiry out by ttl.
type SessionManager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewSessionManager builds a SessionManager. secure marks the cookie
// HTTPS-only.
func NewSessionManager(client *redis.Client, cookieName string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{client: client, cookieName: cookieName, ttl: ttl, secure: secure}
}

// TTL is the idle lifetime of a session.
func (sm *SessionManager) TTL() time.Duration { return sm.ttl }

// CookieName is the cookie carrying the session id.
func (sm *SessionManager) CookieName() string { return sm.cookieName }

func (sm *SessionManager) key(id string) string { return sessionSpace + id }

// Load returns the session named by the request cookie. A missing cookie or
// an id Redis does not know yields a fresh session, so clients never choose
// their own id.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
		return NewSession(), nil
	}
	if err != nil {
		return nil, err
	}
	fields, err := sm.client.HGetAll(ctx, sm.key(cookie.Value)).Result()
	if err != nil {
		return nil, fmt.Errorf("shared: load session: %w", err)
	}
	if len(fields) == 0 {
		return NewSession(), nil
	}
	return decodeSession(cookie.Value, fields), nil
}

func decodeSession(id string, fields map[string]string) *Session {
	sess := &Session{ID: id, values: make(map[string]string, len(fields)), persisted: true}
	for field, value := range fields {
		switch {
		case field == fieldUser:
			sess.userID = value
		case field == fieldIssued:
			sess.issued, _ = time.Parse(time.RFC3339, value)
		case strings.HasPrefix(field, valuePrefix):
			sess.values[strings.TrimPrefix(field, valuePrefix)] = value
		}
	}
	return sess
}

func encodeSession(sess *Session) map[string]any {
	fields := make(map[string]any, len(sess.values)+2)
	fields[fieldIssued] = sess.issued.Format(time.RFC3339)
	if sess.userID != "" {
		fields[fieldUser] = sess.userID
	}
	for k, v := range sess.values {
		fields[valuePrefix+k] = v
	}
	return fields
}

// Commit writes the session back and sets the cookie. Unchanged sessions
// only have their expiry refreshed.
func (sm *SessionManager) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return nil
	}
	key := sm.key(sess.ID)
	if sess.destroyed {
		if err := sm.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("shared: destroy session: %w", err)
		}
		http.SetCookie(w, sm.cookie("", -1))
		return nil
	}

	if sess.dirty || !sess.persisted {
		_, err := sm.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, encodeSession(sess))
			pipe.Expire(ctx, key, sm.ttl)
			return nil
		})
		if err != nil {
			return fmt.Errorf("shared: save session: %w", err)
		}
		sess.dirty = false
		sess.persisted = true
	} else if err := sm.client.Expire(ctx, key, sm.ttl).Err(); err != nil {
		return fmt.Errorf("shared: touch session: %w", err)
	}

	http.SetCookie(w, sm.cookie(sess.ID, int(sm.ttl/time.Second)))
	return nil
}

// Destroy marks the session for deletion on the next Commit.
func (sm *SessionManager) Destroy(sess *Session) {
	if sess != nil {
		sess.destroyed = true
	}
}

func (sm *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
