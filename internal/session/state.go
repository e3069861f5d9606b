// Package session - состояние аутентификации текущего запроса.
// State создается на каждый HTTP-запрос и передается через контекст,
// глобального состояния нет.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseAuthenticated  Phase = "authenticated"
)

type Lifecycle string

const (
	LifecycleInit    Lifecycle = "init"
	LifecycleHydrate Lifecycle = "hydrate"
	LifecycleReady   Lifecycle = "ready"
)

var (
	ErrIllegalTransition = errors.New("illegal session transition")
	ErrNotAuthenticated  = errors.New("session is not authenticated")
)

// Identity - то, что известно о пользователе после входа
type Identity struct {
	UserID     string `json:"user_id"`
	ProfileID  string `json:"profile_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsProvider bool   `json:"is_service_provider"`
	SessionID  string `json:"session_id"`
}

// Restorer восстанавливает Identity по токену (реализуется AuthService)
type Restorer interface {
	Restore(ctx context.Context, token string) (*Identity, error)
}

type RestorerFunc func(ctx context.Context, token string) (*Identity, error)

func (f RestorerFunc) Restore(ctx context.Context, token string) (*Identity, error) {
	return f(ctx, token)
}

type State struct {
	mu        sync.RWMutex
	phase     Phase
	lifecycle Lifecycle
	identity  *Identity
}

func New() *State {
	return &State{phase: PhaseAnonymous, lifecycle: LifecycleInit}
}

func (s *State) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *State) Lifecycle() Lifecycle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lifecycle
}

// IsLoading истинно только пока идет аутентификация
func (s *State) IsLoading() bool {
	return s.Phase() == PhaseAuthenticating
}

func (s *State) IsAuthenticated() bool {
	return s.Phase() == PhaseAuthenticated
}

// Identity возвращает копию, nil для анонимной сессии
func (s *State) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

func (s *State) transition(from, to Phase) error {
	if s.phase != from {
		return fmt.Errorf("%w: %s -> %s (current %s)", ErrIllegalTransition, from, to, s.phase)
	}
	s.phase = to
	return nil
}

// --- переходы ---

func (s *State) BeginAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transition(PhaseAnonymous, PhaseAuthenticating)
}

func (s *State) CompleteAuth(identity *Identity) error {
	if identity == nil || identity.UserID == "" {
		return fmt.Errorf("%w: empty identity", ErrIllegalTransition)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(PhaseAuthenticating, PhaseAuthenticated); err != nil {
		return err
	}
	id := *identity
	s.identity = &id
	s.lifecycle = LifecycleReady
	return nil
}

func (s *State) FailAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(PhaseAuthenticating, PhaseAnonymous); err != nil {
		return err
	}
	s.identity = nil
	s.lifecycle = LifecycleReady
	return nil
}

func (s *State) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(PhaseAuthenticated, PhaseAnonymous); err != nil {
		return err
	}
	s.identity = nil
	return nil
}

// SetProvider обновляет флаг после becomeProvider в том же запросе
func (s *State) SetProvider(isProvider bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil {
		s.identity.IsProvider = isProvider
	}
}

// Hydrate проводит init -> hydrate -> ready. Пустой токен оставляет сессию анонимной.
// Ошибка restorer'а возвращается вызывающему, но State при этом корректно
// переходит в anonymous/ready.
func (s *State) Hydrate(ctx context.Context, r Restorer, token string) error {
	s.mu.Lock()
	if s.lifecycle != LifecycleInit {
		s.mu.Unlock()
		return fmt.Errorf("%w: hydrate from lifecycle %s", ErrIllegalTransition, s.lifecycle)
	}
	s.lifecycle = LifecycleHydrate
	s.mu.Unlock()

	if token == "" {
		s.mu.Lock()
		s.lifecycle = LifecycleReady
		s.mu.Unlock()
		return nil
	}

	if err := s.BeginAuth(); err != nil {
		return err
	}
	identity, err := r.Restore(ctx, token)
	if err != nil {
		_ = s.FailAuth()
		return err
	}
	return s.CompleteAuth(identity)
}

// --- контекст ---

type ctxKey struct{}

func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*State, bool) {
	s, ok := ctx.Value(ctxKey{}).(*State)
	return s, ok && s != nil
}
