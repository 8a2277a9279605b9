package popup

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"
)

// CookiePrefix names the per-popup dismissal cookie.
const CookiePrefix = "popup_hidden_"

// DismissalStore remembers "don't show today" choices.
type DismissalStore interface {
	// HiddenOn reports whether id was hidden on the calendar day of day.
	HiddenOn(id string, day time.Time) bool
	// Hide records a dismissal of id at the given instant.
	Hide(id string, at time.Time)
}

// MemoryStore keeps dismissals in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	hidden map[string]time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hidden: map[string]time.Time{}}
}

func (m *MemoryStore) HiddenOn(id string, day time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.hidden[id]
	return ok && SameDay(at, day)
}

func (m *MemoryStore) Hide(id string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hidden[id] = at
}

// Reset forgets every dismissal.
func (m *MemoryStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hidden = map[string]time.Time{}
}

// CookieJar signs dismissal cookies with an HMAC key.
type CookieJar struct {
	Key    []byte
	Secure bool
}

// Store binds the jar to one request/response pair.
func (j CookieJar) Store(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{jar: j, w: w, r: r}
}

// CookieStore reads dismissals from the request and writes new ones to the
// response. Cookies hold an RFC 3339 timestamp and its signature.
type CookieStore struct {
	jar CookieJar
	w   http.ResponseWriter
	r   *http.Request

	written map[string]time.Time
}

func (c *CookieStore) HiddenOn(id string, day time.Time) bool {
	if at, ok := c.written[id]; ok {
		return SameDay(at, day)
	}
	if c.r == nil {
		return false
	}
	ck, err := c.r.Cookie(CookiePrefix + Token(id))
	if err != nil {
		return false
	}
	at, ok := c.jar.verify(ck.Value)
	return ok && SameDay(at, day)
}

func (c *CookieStore) Hide(id string, at time.Time) {
	if c.written == nil {
		c.written = map[string]time.Time{}
	}
	c.written[id] = at
	if c.w == nil {
		return
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     CookiePrefix + Token(id),
		Value:    c.jar.sign(at),
		Path:     "/",
		MaxAge:   int((48 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   c.jar.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (j CookieJar) sign(at time.Time) string {
	payload := at.Format(time.RFC3339)
	mac := hmac.New(sha256.New, j.Key)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." +
		base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (j CookieJar) verify(value string) (time.Time, bool) {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return time.Time{}, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	mac := hmac.New(sha256.New, j.Key)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339, string(payload))
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// Token encodes a popup id for cookie names and URL path segments. Distinct
// ids always yield distinct tokens.
func Token(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}
