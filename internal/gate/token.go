package gate

import (
	"context"
	"strconv"
	"strings"

	"github.com/botzwala/terasaver/internal/store"
)

// MintToken builds a one-time verification token for userID. The token is
// the user ID and the mint time in unix milliseconds joined by an
// underscore, exactly what the deep link carries back on redemption.
func (s *Service) MintToken(userID string) string {
	return userID + "_" + strconv.FormatInt(s.now().UnixMilli(), 10)
}

// RedeemToken verifies token for callerID. Only the ID segment is compared;
// the timestamp segment is accepted without any expiry check, so a
// well-formed token with the caller's own ID always verifies regardless of
// age. On success the caller's verification time is set to now.
func (s *Service) RedeemToken(ctx context.Context, callerID, token string) bool {
	storedID, _, _ := strings.Cut(token, "_")
	if storedID != callerID {
		return false
	}
	now := s.now()
	s.store.Upsert(ctx, callerID, func(r *store.UserRecord) {
		r.SetVerified(now)
	})
	return true
}
