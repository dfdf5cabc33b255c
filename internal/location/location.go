// Package location is an in-memory navigable URL: a path plus query string
// with back/forward history, shareable as a link.
package location

import (
	"net/url"
	"strings"
	"sync"
)

const LoginPath = "/auth/login"

type entry struct {
	path  string
	query url.Values
}

type Location struct {
	mu      sync.RWMutex
	history []entry
	idx     int
}

func New(path string, query url.Values) *Location {
	return &Location{history: []entry{{path: path, query: clone(query)}}}
}

// Parse builds a Location from a path with an optional query, or a full URL.
func Parse(raw string) (*Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return New(u.Path, u.Query()), nil
}

func (l *Location) current() entry {
	return l.history[l.idx]
}

func (l *Location) Path() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current().path
}

// Query returns a copy of the current query.
func (l *Location) Query() url.Values {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clone(l.current().query)
}

// Replace swaps the current entry's query without adding history.
func (l *Location) Replace(query url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history[l.idx].query = clone(query)
}

// Push navigates to path, dropping any forward history.
func (l *Location) Push(path string, query url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = append(l.history[:l.idx+1], entry{path: path, query: clone(query)})
	l.idx++
}

func (l *Location) Back() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.idx == 0 {
		return false
	}
	l.idx--
	return true
}

func (l *Location) Forward() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.idx == len(l.history)-1 {
		return false
	}
	l.idx++
	return true
}

// NavigateToLogin pushes the login route, keeping the page it left in history.
func (l *Location) NavigateToLogin() {
	l.Push(LoginPath, nil)
}

func (l *Location) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cur := l.current()
	if len(cur.query) == 0 {
		return cur.path
	}
	return cur.path + "?" + cur.query.Encode()
}

// Link joins the current location onto a web origin such as https://app.example.com.
func (l *Location) Link(origin string) string {
	return strings.TrimRight(origin, "/") + l.String()
}

func clone(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
