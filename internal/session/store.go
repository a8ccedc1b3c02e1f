package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/omniwatch/cinema-client/internal/domain"
)

// Persistence is the durable backing for the token pair: two independent
// slots that survive a process restart, so a refresh can proceed even when
// the access token is already invalid.
type Persistence interface {
	Load() (access, refresh string, err error)
	Save(access, refresh string) error
	Clear() error
}

// Store holds the process-wide session: the token pair and the identity
// derived from it. There is exactly one Store per process; it is created at
// startup and its contents mutate only through its own methods.
type Store struct {
	mu          sync.Mutex
	persistence Persistence
	access      string
	refresh     string
	user        *domain.User
}

// NewStore creates the store and loads any persisted token pair. A broken
// persistence read is treated as an absent session rather than a startup
// failure.
func NewStore(persistence Persistence) *Store {
	s := &Store{persistence: persistence}

	access, refresh, err := persistence.Load()
	if err == nil {
		s.access = access
		s.refresh = refresh
	}

	return s
}

func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.access
}

func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refresh
}

// SetTokens replaces the full token pair, as happens on login and register.
func (s *Store) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = access
	s.refresh = refresh
	s.persist()
}

// SetAccessToken replaces only the access slot, as happens on refresh.
func (s *Store) SetAccessToken(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = access
	s.persist()
}

// Clear destroys the session: both token slots and the user identity.
// Idempotent; clearing an empty store is a no-op.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = ""
	s.refresh = ""
	s.user = nil

	// best effort: an unwritable store must not block logout
	_ = s.persistence.Clear()
}

func (s *Store) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user
}

func (s *Store) SetUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
}

func (s *Store) persist() {
	// best effort: tokens stay usable in memory for the rest of the process
	_ = s.persistence.Save(s.access, s.refresh)
}

// AccessTokenExpiry reports the exp claim of the stored access token. The
// claim is read without signature verification: the client holds no signing
// secret, and the value is only used to decide whether a restore attempt is
// worth a network call.
func (s *Store) AccessTokenExpiry() (time.Time, bool) {
	s.mu.Lock()
	token := s.access
	s.mu.Unlock()

	if token == "" {
		return time.Time{}, false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
