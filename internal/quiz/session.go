package quiz

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionState is a quiz session's position in its lifecycle.
type SessionState string

const (
	StateCreated   SessionState = "created"
	StateAnswering SessionState = "answering"
	StateSubmitted SessionState = "submitted"
	StateReset     SessionState = "reset"
)

var (
	ErrAlreadySubmitted = errors.New("quiz already submitted")
	ErrSessionReset     = errors.New("quiz session was reset")
	ErrUnknownQuestion  = errors.New("question is not part of this quiz")
	ErrSessionNotFound  = errors.New("quiz session not found")
)

// Session is one sitting of a quiz. It lives only in memory.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	questions []Question
	answers   map[int]string
	state     SessionState
	scores    Scores
}

// NewSession starts a session over the given questions.
func NewSession(questions []Question) *Session {
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		questions: questions,
		answers:   make(map[int]string),
		state:     StateCreated,
	}
}

// NewQuiz samples a quiz from the bank and opens a session for it.
func NewQuiz(bank *Bank, seed uint64) (*Session, error) {
	if bank == nil || len(bank.Questions) == 0 {
		return nil, ErrEmptyBank
	}
	return NewSession(Sample(bank.Questions, NewRand(seed))), nil
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Questions returns the selected questions in presentation order.
func (s *Session) Questions() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answers returns a copy of the answers recorded so far.
func (s *Session) Answers() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Answer records the chosen option for a question, replacing any earlier
// choice. The option is not checked against the question's options.
func (s *Session) Answer(questionID int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if !s.has(questionID) {
		return fmt.Errorf("question %d: %w", questionID, ErrUnknownQuestion)
	}
	s.answers[questionID] = option
	s.state = StateAnswering
	return nil
}

// Submit evaluates the session. It succeeds at most once.
func (s *Session) Submit() (Scores, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	s.scores = Evaluate(s.questions, s.answers)
	s.state = StateSubmitted
	return s.scores, nil
}

// Scores returns the evaluation result, or nil before submission.
func (s *Session) Scores() Scores {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scores
}

// Reset discards the questions and answers. Durable state is not affected.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = nil
	s.answers = make(map[int]string)
	s.scores = nil
	s.state = StateReset
}

func (s *Session) checkOpen() error {
	switch s.state {
	case StateSubmitted:
		return ErrAlreadySubmitted
	case StateReset:
		return ErrSessionReset
	}
	return nil
}

func (s *Session) has(questionID int) bool {
	for _, q := range s.questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}

// Registry defaults. The idle TTL matches the quiz cookie lifetime.
const (
	DefaultSessionTTL  = 24 * time.Hour
	DefaultMaxSessions = 10_000
)

type registryEntry struct {
	session  *Session
	lastSeen time.Time
}

// Registry tracks live sessions by ID. Sessions idle longer than the TTL
// are dropped lazily on Add; when the registry is full the least recently
// used session is evicted.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*registryEntry
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSessionTTL sets the idle expiry. Non-positive values keep the default.
func WithSessionTTL(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.ttl = d
		}
	}
}

// WithMaxSessions caps the number of live sessions. Non-positive values keep
// the default.
func WithMaxSessions(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.max = n
		}
	}
}

// WithRegistryClock overrides the time source.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*registryEntry),
		ttl:      DefaultSessionTTL,
		max:      DefaultMaxSessions,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers s, replacing any session with the same ID.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)
	if _, ok := r.sessions[s.ID]; !ok && len(r.sessions) >= r.max {
		r.evictOldest()
	}
	r.sessions[s.ID] = &registryEntry{session: s, lastSeen: now}
}

// Get looks up a session and marks it as used. Expired sessions are not
// returned.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := r.now()
	if now.Sub(e.lastSeen) > r.ttl {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}
	e.lastSeen = now
	return e.session, nil
}

// Delete forgets a session. Unknown IDs are ignored.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweep(now time.Time) {
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.sessions, id)
		}
	}
}

func (r *Registry) evictOldest() {
	var (
		oldest string
		seen   time.Time
	)
	for id, e := range r.sessions {
		if oldest == "" || e.lastSeen.Before(seen) {
			oldest, seen = id, e.lastSeen
		}
	}
	delete(r.sessions, oldest)
}
