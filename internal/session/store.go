package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Authenticator is the remote half of login and registration.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*Credentials, error)
	Register(ctx context.Context, req RegisterRequest) (*Credentials, error)
}

// Store serializes transitions through Reduce and mirrors authenticated
// sessions into Storage.
type Store struct {
	mu        sync.Mutex
	state     State
	storage   Storage
	listeners map[int]func(State)
	nextID    int
	now       func() time.Time
}

func NewStore(storage Storage) *Store {
	if storage == nil {
		storage = &MemoryStorage{}
	}
	return &Store{
		state:     Initial(),
		storage:   storage,
		listeners: make(map[int]func(State)),
		now:       time.Now,
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe calls fn after every transition. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	state := s.state
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
	return state
}

// Hydrate restores a persisted session. Missing, placeholder, undecodable
// or expired entries leave the session logged out and clear the storage.
func (s *Store) Hydrate() State {
	creds, ok := s.restore()
	if !ok {
		if err := s.storage.Clear(); err != nil {
			log.Printf("WARN [session.Hydrate] clear storage failed: %v", err)
		}
		return s.Dispatch(Action{Type: Hydrated})
	}
	return s.Dispatch(Action{Type: Hydrated, Credentials: creds})
}

func (s *Store) restore() (*Credentials, bool) {
	p, err := s.storage.Load()
	if err != nil {
		log.Printf("WARN [session.Hydrate] load failed: %v", err)
		return nil, false
	}
	if isUnset(p.Token) || isUnset(p.User) {
		return nil, false
	}

	var user User
	if err := json.Unmarshal([]byte(p.User), &user); err != nil || user.ID == "" {
		return nil, false
	}

	claims, err := DecodeClaims(p.Token)
	if err != nil {
		return nil, false
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(s.now()) {
		return nil, false
	}

	// The role is read from the token, not from the stored user.
	user.IsAdmin = claims.Admin
	return &Credentials{Token: p.Token, User: user}, true
}

func isUnset(v string) bool {
	switch v {
	case "", "undefined", "null":
		return true
	}
	return false
}

// DecodeClaims reads the token payload without verifying the signature.
// Only the server can verify; the client uses the claims for display and
// routing decisions.
func DecodeClaims(token string) (*domain.Claims, error) {
	claims := &domain.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Store) Login(ctx context.Context, auth Authenticator, email, password string) error {
	s.Dispatch(Action{Type: LoginStarted})
	creds, err := auth.Login(ctx, email, password)
	return s.finish(creds, err)
}

func (s *Store) Register(ctx context.Context, auth Authenticator, req RegisterRequest) error {
	s.Dispatch(Action{Type: LoginStarted})
	creds, err := auth.Register(ctx, req)
	return s.finish(creds, err)
}

func (s *Store) finish(creds *Credentials, err error) error {
	if err != nil {
		s.Dispatch(Action{Type: LoginFailed, Err: err})
		return err
	}

	user, merr := json.Marshal(creds.User)
	if merr == nil {
		merr = s.storage.Save(Persisted{Token: creds.Token, User: string(user)})
	}
	if merr != nil {
		log.Printf("WARN [session.Login] persist failed: %v", merr)
	}

	s.Dispatch(Action{Type: LoginSucceeded, Credentials: creds})
	return nil
}

func (s *Store) Logout() State {
	if err := s.storage.Clear(); err != nil {
		log.Printf("WARN [session.Logout] clear storage failed: %v", err)
	}
	return s.Dispatch(Action{Type: LoggedOut})
}
