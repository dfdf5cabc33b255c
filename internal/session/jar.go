package session

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	go_json "github.com/goccy/go-json"
)

var _ http.CookieJar = (*Jar)(nil)

// Jar is a single-origin cookie jar persisted through the session backend.
// The client only ever talks to one API, so cookies are keyed by name.
type Jar struct {
	store *Store
	now   func() time.Time

	mu      sync.Mutex
	cookies map[string]storedCookie
}

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires"`
}

func newJar(s *Store, raw string) *Jar {
	j := &Jar{
		store:   s,
		now:     time.Now,
		cookies: make(map[string]storedCookie),
	}
	if raw == "" {
		return j
	}

	var stored []storedCookie
	if err := go_json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("discarding unreadable stored cookies")
		return j
	}
	for _, c := range stored {
		j.cookies[c.Name] = c
	}
	return j
}

func (j *Jar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}

	j.store.persistMu.Lock()
	defer j.store.persistMu.Unlock()

	j.mu.Lock()
	now := j.now()
	for _, c := range cookies {
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || (!expires.IsZero() && !expires.After(now)) {
			delete(j.cookies, c.Name)
			continue
		}
		j.cookies[c.Name] = storedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: expires,
		}
	}
	raw := j.encodeLocked()
	j.mu.Unlock()

	j.store.write(keyCookies, raw)
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	var out []*http.Cookie
	for _, c := range j.cookies {
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			continue
		}
		if c.Path != "" && !strings.HasPrefix(u.Path, c.Path) {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// Len reports how many live cookies the jar holds.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.cookies)
}

func (j *Jar) reset() {
	j.mu.Lock()
	clear(j.cookies)
	j.mu.Unlock()
}

func (j *Jar) encodeLocked() string {
	if len(j.cookies) == 0 {
		return ""
	}
	stored := make([]storedCookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		stored = append(stored, c)
	}
	data, err := go_json.Marshal(stored)
	if err != nil {
		return ""
	}
	return string(data)
}
