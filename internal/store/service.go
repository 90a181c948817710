package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Service mediates every read and write of the persisted store. Each mutation
// runs a load-mutate-save cycle under a single mutex, so concurrent handlers
// no longer race on the whole blob. Persistence stays fail-soft: load and
// save errors are logged and the in-memory result is used as if the
// operation had succeeded.
type Service struct {
	backend   Backend
	endpoints []string
	logger    *slog.Logger
	mu        sync.Mutex
}

// NewService creates a store service over backend. endpoints is the fixed,
// ordered list of shortening endpoint templates the API selector cycles
// through.
func NewService(log *slog.Logger, backend Backend, endpoints []string) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		backend:   backend,
		endpoints: endpoints,
		logger:    log.With(slog.String("service", "store")),
	}
}

// Get returns the record for userID and whether it exists.
func (s *Service) Get(ctx context.Context, userID string) (UserRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.load(ctx)
	rec, ok := snap.Users[userID]
	return rec, ok
}

// Upsert applies mutate to the record for userID, creating it first when
// absent, and persists the result.
func (s *Service) Upsert(ctx context.Context, userID string, mutate func(*UserRecord)) UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.load(ctx)
	rec := snap.Users[userID]
	mutate(&rec)
	snap.Users[userID] = rec
	s.save(ctx, snap)
	return rec
}

// All returns a copy of every user record keyed by user ID.
func (s *Service) All(ctx context.Context) map[string]UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.load(ctx)
	users := make(map[string]UserRecord, len(snap.Users))
	for id, rec := range snap.Users {
		users[id] = rec
	}
	return users
}

// CurrentAPI returns the active shortening endpoint template, initializing
// the selector to the first configured endpoint when the persisted value is
// absent or no longer part of the configured list.
func (s *Service) CurrentAPI(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.endpoints) == 0 {
		return ""
	}
	snap := s.load(ctx)
	if indexOf(s.endpoints, snap.CurrentAPI) < 0 {
		snap.CurrentAPI = s.endpoints[0]
		s.save(ctx, snap)
	}
	return snap.CurrentAPI
}

// RotateAPI advances the selector round-robin and returns the new endpoint.
func (s *Service) RotateAPI(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.endpoints) == 0 {
		return ""
	}
	snap := s.load(ctx)
	idx := indexOf(s.endpoints, snap.CurrentAPI)
	if idx < 0 {
		idx = 0
	}
	snap.CurrentAPI = s.endpoints[(idx+1)%len(s.endpoints)]
	s.save(ctx, snap)
	return snap.CurrentAPI
}

// ResetVerifications clears every verification timestamp and returns the
// number of affected records.
func (s *Service) ResetVerifications(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.load(ctx)
	for id, rec := range snap.Users {
		rec.VerifyTime = nil
		snap.Users[id] = rec
	}
	s.save(ctx, snap)
	return len(snap.Users)
}

func (s *Service) load(ctx context.Context) Snapshot {
	snap := Snapshot{Users: map[string]UserRecord{}}
	if s.backend == nil {
		return snap
	}
	blob, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.Error("load store failed", slog.Any("error", err))
		return snap
	}
	if len(blob) == 0 {
		return snap
	}
	if err := json.Unmarshal(blob, &snap); err != nil {
		s.logger.Error("decode store failed", slog.Any("error", err))
		return Snapshot{Users: map[string]UserRecord{}}
	}
	if snap.Users == nil {
		snap.Users = map[string]UserRecord{}
	}
	return snap
}

func (s *Service) save(ctx context.Context, snap Snapshot) {
	if s.backend == nil {
		return
	}
	blob, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		s.logger.Error("encode store failed", slog.Any("error", err))
		return
	}
	if err := s.backend.Save(ctx, blob); err != nil {
		s.logger.Error("save store failed", slog.Any("error", err))
	}
}

func indexOf(list []string, value string) int {
	for i, item := range list {
		if item == value {
			return i
		}
	}
	return -1
}
