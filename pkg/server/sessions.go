package server

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wildfunctions/sci_calc/pkg/calculator"
)

var errTooManySessions = errors.New("session limit reached")

// session is one calculator plus the lock that serializes calls against it.
type session struct {
	ID       string
	mu       sync.Mutex
	calc     *calculator.Calculator
	lastUsed atomic.Int64 // unix nanos
}

func (s *session) touch(now time.Time) { s.lastUsed.Store(now.UnixNano()) }

func (s *session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastUsed.Load()))
}

// sessionStore holds independent sessions; they share no calculator state.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	cfg      Config
	logger   zerolog.Logger
	metrics  *Metrics
	now      func() time.Time
}

func newSessionStore(cfg Config, logger zerolog.Logger, metrics *Metrics) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (st *sessionStore) create() (*session, error) {
	st.sweep()

	id := uuid.New().String()
	calc, err := calculator.New(st.cfg.Calculator, st.logger.With().Str("sessionId", id).Logger())
	if err != nil {
		return nil, err
	}
	sess := &session{ID: id, calc: calc}
	sess.touch(st.now())

	st.mu.Lock()
	if st.cfg.MaxSessions > 0 && len(st.sessions) >= st.cfg.MaxSessions {
		st.mu.Unlock()
		return nil, errTooManySessions
	}
	st.sessions[sess.ID] = sess
	n := len(st.sessions)
	st.mu.Unlock()

	st.metrics.RecordSessionCreated()
	st.metrics.SetActiveSessions(int64(n))
	st.logger.Info().Str("sessionId", sess.ID).Msg("session created")
	return sess, nil
}

// get returns a live session, dropping it instead if it has been idle past
// the configured TTL.
func (st *sessionStore) get(id string) (*session, bool) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if st.expired(sess) {
		st.remove(id)
		st.metrics.RecordSessionsExpired(1)
		return nil, false
	}
	return sess, true
}

func (st *sessionStore) remove(id string) bool {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()

	if ok {
		st.metrics.SetActiveSessions(int64(n))
		st.logger.Info().Str("sessionId", id).Msg("session removed")
	}
	return ok
}

func (st *sessionStore) count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// sweep drops every idle session and returns how many were dropped.
func (st *sessionStore) sweep() int {
	if st.cfg.SessionTTL <= 0 {
		return 0
	}
	st.mu.Lock()
	dropped := 0
	for id, sess := range st.sessions {
		if st.expired(sess) {
			delete(st.sessions, id)
			dropped++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	if dropped > 0 {
		st.metrics.RecordSessionsExpired(dropped)
		st.metrics.SetActiveSessions(int64(n))
		st.logger.Debug().Int("dropped", dropped).Msg("idle sessions expired")
	}
	return dropped
}

func (st *sessionStore) expired(sess *session) bool {
	return st.cfg.SessionTTL > 0 && sess.idleSince(st.now()) > st.cfg.SessionTTL
}
