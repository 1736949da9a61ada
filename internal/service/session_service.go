package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// SessionContext is the state owned by one dashboard session.
// Dataset is immutable and replaced wholesale on refresh, never modified in place.
type SessionContext struct {
	ID         string
	Default    bool
	Dataset    *model.Dataset
	CreatedAt  time.Time
	LastAccess time.Time
}

// Info summarises the session for API responses.
func (sc *SessionContext) Info() model.SessionInfo {
	info := model.SessionInfo{
		ID:             sc.ID,
		Default:        sc.Default,
		DatasetVersion: sc.Dataset.Version,
		GeneratedAt:    sc.Dataset.GeneratedAt,
		LastAccess:     sc.LastAccess,
		Rows:           len(sc.Dataset.Records),
	}
	info.MinDate, info.MaxDate, _ = sc.Dataset.Span()
	return info
}

// SessionService keeps the per-session datasets.
// The default session serves requests without a session header and always
// reflects the current base dataset.
type SessionService struct {
	mu          sync.RWMutex
	sessions    map[string]*SessionContext
	defaultID   string
	datasets    *DatasetService
	idleTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
	newSeed     func() uint64
}

// NewSessionService creates a SessionService whose default session owns base.
func NewSessionService(
	datasets *DatasetService,
	base *model.Dataset,
	idleTimeout time.Duration,
	logger *zap.Logger,
) *SessionService {
	now := time.Now().UTC()
	def := &SessionContext{
		ID:         uuid.New().String(),
		Default:    true,
		Dataset:    base,
		CreatedAt:  now,
		LastAccess: now,
	}
	return &SessionService{
		sessions:    map[string]*SessionContext{def.ID: def},
		defaultID:   def.ID,
		datasets:    datasets,
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
		newSeed:     rand.Uint64,
	}
}

// DefaultID returns the id of the default session.
func (s *SessionService) DefaultID() string {
	return s.defaultID
}

// Create starts a new session with its own copy of the base dataset.
func (s *SessionService) Create() *SessionContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	sc := &SessionContext{
		ID:         uuid.New().String(),
		Dataset:    cloneDataset(s.sessions[s.defaultID].Dataset),
		CreatedAt:  now,
		LastAccess: now,
	}
	s.sessions[sc.ID] = sc

	s.logger.Debug("session created", zap.String("session_id", sc.ID))
	return sc
}

// Get returns a snapshot of the session with the given id and marks it as accessed.
// An empty id selects the default session.
func (s *SessionService) Get(id string) (SessionContext, error) {
	if id == "" {
		id = s.defaultID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.sessions[id]
	if !ok {
		return SessionContext{}, apperrors.ErrSessionNotFound
	}
	sc.LastAccess = s.now().UTC()
	return *sc, nil
}

// Refresh regenerates the dataset of a non-default session with a new seed.
// The previous dataset is replaced wholesale.
func (s *SessionService) Refresh(_ context.Context, id string) (SessionContext, error) {
	if id == s.defaultID {
		return SessionContext{}, fmt.Errorf("%w: refresh", apperrors.ErrDefaultSession)
	}

	// Generate outside the lock; generation is the slow part.
	s.mu.RLock()
	_, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return SessionContext{}, apperrors.ErrSessionNotFound
	}
	ds := s.datasets.Generate(s.newSeed())

	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.sessions[id]
	if !ok {
		return SessionContext{}, apperrors.ErrSessionNotFound
	}
	sc.Dataset = ds
	sc.LastAccess = s.now().UTC()

	s.logger.Info("session dataset refreshed",
		zap.String("session_id", id),
		zap.String("version", ds.Version),
		zap.Uint64("seed", ds.Seed),
	)
	return *sc, nil
}

// Delete removes a session. The default session cannot be deleted.
func (s *SessionService) Delete(id string) error {
	if id == s.defaultID {
		return fmt.Errorf("%w: delete", apperrors.ErrDefaultSession)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return apperrors.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// ReplaceDefault swaps the dataset of the default session, e.g. after a reseed.
func (s *SessionService) ReplaceDefault(ds *model.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[s.defaultID].Dataset = ds
}

// EvictIdle removes non-default sessions not accessed within the idle timeout.
// Returns the number of sessions removed. A non-positive timeout disables eviction.
func (s *SessionService) EvictIdle() int {
	if s.idleTimeout <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().UTC().Add(-s.idleTimeout)
	removed := 0
	for id, sc := range s.sessions {
		if sc.Default || !sc.LastAccess.Before(cutoff) {
			continue
		}
		delete(s.sessions, id)
		removed++
	}

	if removed > 0 {
		s.logger.Info("idle sessions evicted", zap.Int("count", removed))
	}
	return removed
}

// Count returns the number of live sessions including the default one.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// cloneDataset copies a dataset so a session never shares a backing array
// with another session.
func cloneDataset(ds *model.Dataset) *model.Dataset {
	c := *ds
	c.Records = make([]model.MetricRecord, len(ds.Records))
	copy(c.Records, ds.Records)
	return &c
}
