package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const SessionCookieName = "printcost_session"

var ErrInvalidSession = errors.New("invalid session")

// Sessions signs and verifies session cookie values of the form
// base64(userID:expiryUnix).hex(hmac-sha256).
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions returns a signer. Secure marks cookies HTTPS-only.
func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

func (s *Sessions) sign(payload string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	return mac.Sum(nil)
}

// Encode creates a signed value for userID that expires after the TTL.
func (s *Sessions) Encode(userID int64) string {
	expires := s.now().Add(s.ttl).Unix()
	raw := strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(expires, 10)
	payload := base64.RawURLEncoding.EncodeToString([]byte(raw))
	return payload + "." + hex.EncodeToString(s.sign(payload))
}

// Decode verifies value and returns its user id.
func (s *Sessions) Decode(value string) (int64, error) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok {
		return 0, ErrInvalidSession
	}

	provided, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(provided, s.sign(payload)) {
		return 0, ErrInvalidSession
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return 0, ErrInvalidSession
	}
	idPart, expPart, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return 0, ErrInvalidSession
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidSession
	}
	expires, err := strconv.ParseInt(expPart, 10, 64)
	if err != nil || s.now().Unix() >= expires {
		return 0, ErrInvalidSession
	}

	return id, nil
}

// UserID reads and verifies the session cookie of r.
func (s *Sessions) UserID(r *http.Request) (int64, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return 0, ErrInvalidSession
	}
	return s.Decode(c.Value)
}

func (s *Sessions) SetCookie(w http.ResponseWriter, userID int64) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Encode(userID),
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
