package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/redis/go-redis/v9"
)

const (
	cookieName      = "storyhouse_session"
	flashCookieName = "storyhouse_flash"
	keyPrefix       = "session:"
)

// Manager implements server-side sessions: an opaque random token travels in
// a signed cookie, the matching record in Redis binds it to a user id.
// Lifecycle is Anonymous -> Authenticated (Create) -> Anonymous (Destroy or
// TTL expiry); there are no intermediate states.
type Manager struct {
	client *redis.Client
	codec  *securecookie.SecureCookie
	ttl    time.Duration
	secure bool // marks cookies Secure; on outside development
}

func NewManager(client *redis.Client, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		client: client,
		codec:  securecookie.New([]byte(secret), nil),
		ttl:    ttl,
		secure: secure,
	}
}

// Create establishes a session for userID and sets the cookie.
func (m *Manager) Create(w http.ResponseWriter, r *http.Request, userID int64) error {
	token, err := generateToken(32)
	if err != nil {
		return fmt.Errorf("generate session token: %w", err)
	}

	if err := m.client.Set(r.Context(), keyPrefix+token, userID, m.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	encoded, err := m.codec.Encode(cookieName, token)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// UserID resolves the request's session to a user id. The second return is
// false for anonymous requests, tampered cookies and expired records alike.
func (m *Manager) UserID(r *http.Request) (int64, bool) {
	token, ok := m.token(r)
	if !ok {
		return 0, false
	}

	val, err := m.client.Get(r.Context(), keyPrefix+token).Result()
	if err != nil {
		return 0, false
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Refresh slides the record's TTL forward. Missing sessions are ignored.
func (m *Manager) Refresh(r *http.Request) {
	if token, ok := m.token(r); ok {
		m.client.Expire(r.Context(), keyPrefix+token, m.ttl)
	}
}

// Destroy invalidates the session record and clears the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	if token, ok := m.token(r); ok {
		if err := m.client.Del(r.Context(), keyPrefix+token).Err(); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) token(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return "", false
	}
	var token string
	if err := m.codec.Decode(cookieName, cookie.Value, &token); err != nil {
		return "", false
	}
	return token, true
}

// SetFlash stores a one-shot notice in its own signed cookie, so it works
// for anonymous visitors too (e.g. right after logout).
func (m *Manager) SetFlash(w http.ResponseWriter, msg string) {
	encoded, err := m.codec.Encode(flashCookieName, msg)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending notice, if any, and clears it.
func (m *Manager) PopFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	var msg string
	if err := m.codec.Decode(flashCookieName, cookie.Value, &msg); err != nil {
		return ""
	}
	return msg
}

// generateToken returns n random bytes hex-encoded (2n chars).
func generateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
