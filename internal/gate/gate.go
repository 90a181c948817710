// Package gate decides whether an incoming user may use the download
// feature: channel subscription first, then a time-boxed verification.
package gate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/botzwala/terasaver/internal/store"
)

// Decision is the outcome of checking a user against the gate.
type Decision int

const (
	// Allow lets the message proceed to link processing.
	Allow Decision = iota
	// NeedSubscription means the user must join the channel first.
	NeedSubscription
	// NeedVerification means the user must refresh the ad-view token.
	NeedVerification
)

// MembershipChecker reports whether a user belongs to the required channel.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID string) (bool, error)
}

// Service evaluates the access gate per user.
type Service struct {
	checker  MembershipChecker
	store    *store.Service
	window   time.Duration
	cooldown time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewService creates a gate over the given membership checker and store.
// window is the verification validity window; cooldown throttles downloads
// per user and is disabled when zero.
func NewService(log *slog.Logger, checker MembershipChecker, st *store.Service, window, cooldown time.Duration) *Service {
	if log == nil {
		log = slog.Default()
	}
	if window <= 0 {
		window = 12 * time.Hour
	}
	return &Service{
		checker:  checker,
		store:    st,
		window:   window,
		cooldown: cooldown,
		logger:   log.With(slog.String("service", "gate")),
		now:      time.Now,
		limiters: map[string]*rate.Limiter{},
	}
}

// Check returns the gating decision for userID. A failed membership lookup
// counts as not subscribed.
func (s *Service) Check(ctx context.Context, userID string) Decision {
	if !s.Subscribed(ctx, userID) {
		return NeedSubscription
	}
	rec, ok := s.store.Get(ctx, userID)
	if !ok || !s.IsCurrent(rec) {
		return NeedVerification
	}
	return Allow
}

// Subscribed reports whether userID belongs to the required channel.
func (s *Service) Subscribed(ctx context.Context, userID string) bool {
	member, err := s.checker.IsMember(ctx, userID)
	if err != nil {
		s.logger.Warn("membership check failed", slog.String("user_id", userID), slog.Any("error", err))
		return false
	}
	return member
}

// IsCurrent reports whether rec carries a verification still inside the
// window. Exactly window-old verifications still pass; only strictly older
// ones expire.
func (s *Service) IsCurrent(rec store.UserRecord) bool {
	verified, ok := rec.VerifiedAt()
	if !ok {
		return false
	}
	return s.now().Sub(verified) <= s.window
}

// Window returns the verification validity window.
func (s *Service) Window() time.Duration { return s.window }

// ReserveDownload consults the per-user cooldown. It returns true when the
// download may proceed, otherwise false with the remaining wait. A zero
// cooldown always allows.
func (s *Service) ReserveDownload(userID string) (bool, time.Duration) {
	if s.cooldown <= 0 {
		return true, 0
	}
	s.mu.Lock()
	limiter, ok := s.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(s.cooldown), 1)
		s.limiters[userID] = limiter
	}
	s.mu.Unlock()

	reservation := limiter.Reserve()
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return false, delay
	}
	return true, 0
}
