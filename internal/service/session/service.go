package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ataka-storefront/internal/domain"
	"ataka-storefront/internal/storage"
	"ataka-storefront/internal/store"
)

var ErrInvalidSession = errors.New("invalid session id")

// Session is one browser-equivalent client: its Store and the storage the
// store (and the delivery estimator) write through to.
type Session struct {
	ID    string
	Store *store.Store
	KV    storage.KV
}

type entry struct {
	session  *Session
	lastSeen time.Time
	// refs counts requests holding the session; Sweep skips held entries.
	refs int
}

// Service keeps live sessions in memory. State survives eviction and process
// restarts in whatever KV the factory returns; Open restores it.
type Service struct {
	kvFor       func(id string) storage.KV
	syncer      store.Syncer
	queueSize   int
	syncTimeout time.Duration
	idle        time.Duration
	logger      *zap.Logger
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type Option func(*Service)

// WithSyncer enables remote cart sync for signed-in sessions.
func WithSyncer(syncer store.Syncer, queueSize int, timeout time.Duration) Option {
	return func(s *Service) {
		s.syncer = syncer
		s.queueSize = queueSize
		s.syncTimeout = timeout
	}
}

func WithIdleTimeout(d time.Duration) Option {
	return func(s *Service) { s.idle = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(kvFor func(id string) storage.KV, opts ...Option) *Service {
	s := &Service{
		kvFor:    kvFor,
		idle:     2 * time.Hour,
		logger:   zap.NewNop(),
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a session with a fresh id.
func (s *Service) Create(ctx context.Context) (*Session, error) {
	return s.Open(ctx, uuid.NewString())
}

// Open returns the live session id or restores it from storage. The id must
// be a UUID.
func (s *Service) Open(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openLocked(ctx, id).session, nil
}

// Acquire opens id like Open and pins it against eviction until release is
// called. release is safe to call more than once.
func (s *Service) Acquire(ctx context.Context, id string) (sess *Session, release func(), err error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil, ErrInvalidSession
	}
	s.mu.Lock()
	e := s.openLocked(ctx, id)
	e.refs++
	s.mu.Unlock()

	var once sync.Once
	release = func() {
		once.Do(func() {
			s.mu.Lock()
			e.refs--
			e.lastSeen = s.now()
			s.mu.Unlock()
		})
	}
	return e.session, release, nil
}

func (s *Service) openLocked(ctx context.Context, id string) *entry {
	if e, ok := s.sessions[id]; ok {
		e.lastSeen = s.now()
		return e
	}

	kv := s.kvFor(id)
	opts := []store.Option{store.WithLogger(s.logger.With(zap.String("session_id", id)))}
	if s.syncer != nil {
		opts = append(opts, store.WithOutbox(store.NewOutbox(s.syncer, s.queueSize, s.syncTimeout, s.logger)))
	}
	sess := &Session{ID: id, Store: store.New(ctx, kv, opts...), KV: kv}
	e := &entry{session: sess, lastSeen: s.now()}
	s.sessions[id] = e
	s.logger.Debug("session opened", zap.String("session_id", id), zap.Int("live", len(s.sessions)))
	return e
}

// Get returns a live session and refreshes its idle timer.
func (s *Service) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.lastSeen = s.now()
	return e.session, nil
}

// Len reports the number of live sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes sessions idle for longer than the idle timeout and returns
// how many were evicted. Sessions held through Acquire are never evicted.
func (s *Service) Sweep() int {
	cutoff := s.now().Add(-s.idle)
	var expired []*Session
	s.mu.Lock()
	for id, e := range s.sessions {
		if e.refs == 0 && e.lastSeen.Before(cutoff) {
			expired = append(expired, e.session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Store.Close()
	}
	if len(expired) > 0 {
		s.logger.Info("sessions expired", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Close flushes and drops every live session.
func (s *Service) Close() {
	s.mu.Lock()
	all := make([]*Session, 0, len(s.sessions))
	for _, e := range s.sessions {
		all = append(all, e.session)
	}
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	for _, sess := range all {
		sess.Store.Close()
	}
}
