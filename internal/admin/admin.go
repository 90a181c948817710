// Package admin implements the privileged console commands operating on the
// persistent store: stats, broadcast, API selector inspection and rotation,
// and mass verification reset.
package admin

import (
	"context"
	"log/slog"

	"github.com/botzwala/terasaver/internal/gate"
	"github.com/botzwala/terasaver/internal/store"
)

// Stats is the aggregate reported by the stats command.
type Stats struct {
	TotalUsers     int
	VerifiedUsers  int
	ProcessedLinks int
}

// Service exposes the admin console operations. Authorization is an exact
// match against the fixed caller allow-list.
type Service struct {
	store  *store.Service
	gate   *gate.Service
	admins map[string]struct{}
	logger *slog.Logger
}

// NewService creates the console for the given admin IDs.
func NewService(log *slog.Logger, st *store.Service, g *gate.Service, adminIDs []string) *Service {
	if log == nil {
		log = slog.Default()
	}
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Service{
		store:  st,
		gate:   g,
		admins: admins,
		logger: log.With(slog.String("service", "admin")),
	}
}

// Authorized reports whether userID is on the admin allow-list.
func (s *Service) Authorized(userID string) bool {
	_, ok := s.admins[userID]
	return ok
}

// Stats aggregates user count, currently-verified count, and the total
// processed-link counter across all users.
func (s *Service) Stats(ctx context.Context) Stats {
	var stats Stats
	for _, rec := range s.store.All(ctx) {
		stats.TotalUsers++
		if s.gate.IsCurrent(rec) {
			stats.VerifiedUsers++
		}
		stats.ProcessedLinks += rec.ProcessedLinks
	}
	return stats
}

// Broadcast sends text to every known user through send, best effort: a
// failed delivery is logged and the loop continues. It returns the number of
// attempted sends.
func (s *Service) Broadcast(ctx context.Context, text string, send func(userID, text string) error) int {
	attempts := 0
	for userID := range s.store.All(ctx) {
		attempts++
		if err := send(userID, text); err != nil {
			s.logger.Warn("broadcast delivery failed", slog.String("user_id", userID), slog.Any("error", err))
		}
	}
	return attempts
}

// CurrentAPI returns the active shortening endpoint.
func (s *Service) CurrentAPI(ctx context.Context) string {
	return s.store.CurrentAPI(ctx)
}

// RotateAPI advances the shortening endpoint round-robin.
func (s *Service) RotateAPI(ctx context.Context) string {
	return s.store.RotateAPI(ctx)
}

// ResetVerifications clears every user's verification timestamp.
func (s *Service) ResetVerifications(ctx context.Context) int {
	return s.store.ResetVerifications(ctx)
}
