package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/garrettladley/rrdash/internal/storage"
	"github.com/garrettladley/rrdash/internal/xslog"
)

const (
	keyAccessToken = "access_token"
	keyUserID      = "user_id"
	keyCookies     = "refresh_cookies"
)

const persistTimeout = 5 * time.Second

var ErrNoToken = errors.New("no access token - please log in first")

type Session struct {
	UserID      string
	AccessToken string
}

// Store owns the current session. It is the only writer of persisted
// identity and never fails: backend errors are logged and the in-memory
// state stays authoritative.
type Store struct {
	backend storage.Store
	logger  *slog.Logger

	// persistMu orders backend writes so the stored copy follows memory.
	persistMu sync.Mutex

	mu   sync.RWMutex
	sess Session

	jar *Jar
}

var _ oauth2.TokenSource = (*Store)(nil)

// Open seeds a Store from backend. Missing values mean an anonymous session.
func Open(ctx context.Context, backend storage.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		backend: backend,
		logger:  logger,
	}
	s.sess.AccessToken = s.load(ctx, keyAccessToken)
	s.sess.UserID = s.load(ctx, keyUserID)
	s.jar = newJar(s, s.load(ctx, keyCookies))
	return s
}

func (s *Store) load(ctx context.Context, key string) string {
	v, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to load session value", xslog.Key(key), xslog.Error(err))
		}
		return ""
	}
	return v
}

func (s *Store) SetToken(token string) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.sess.AccessToken = token
	s.mu.Unlock()

	s.write(keyAccessToken, token)
}

func (s *Store) SetUserID(id string) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.sess.UserID = id
	s.mu.Unlock()

	s.write(keyUserID, id)
}

// Logout clears the token, the user id and the refresh cookie together.
func (s *Store) Logout() {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.sess = Session{}
	s.mu.Unlock()
	s.jar.reset()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.backend.Delete(ctx, keyAccessToken, keyUserID, keyCookies); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear persisted session", xslog.Error(err))
	}
}

func (s *Store) CurrentUserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.UserID, s.sess.UserID != ""
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.AccessToken
}

func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess
}

func (s *Store) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// Jar holds the refresh cookie set by the API.
func (s *Store) Jar() *Jar {
	return s.jar
}

// Token implements oauth2.TokenSource. Expiry is unknown to the client;
// the API signals it with a 401.
func (s *Store) Token() (*oauth2.Token, error) {
	token := s.AccessToken()
	if token == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// write must be called with persistMu held.
func (s *Store) write(key string, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if value == "" {
		err = s.backend.Delete(ctx, key)
	} else {
		err = s.backend.Set(ctx, key, value)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist session value", xslog.Key(key), xslog.Error(err))
	}
}
