package gate

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botzwala/terasaver/internal/store"
)

type fakeChecker struct {
	member bool
	err    error
}

func (f *fakeChecker) IsMember(ctx context.Context, userID string) (bool, error) {
	return f.member, f.err
}

func newGate(t *testing.T, checker *fakeChecker) (*Service, *store.Service) {
	t.Helper()
	st := store.NewService(nil, store.NewFileBackend(filepath.Join(t.TempDir(), "data.json")), nil)
	return NewService(nil, checker, st, 12*time.Hour, 0), st
}

func TestCheckUnsubscribed(t *testing.T) {
	t.Parallel()
	svc, st := newGate(t, &fakeChecker{member: false})
	ctx := context.Background()

	assert.Equal(t, NeedSubscription, svc.Check(ctx, "42"))
	// No record mutation from a bare check.
	_, ok := st.Get(ctx, "42")
	assert.False(t, ok)
}

func TestCheckMembershipErrorCountsAsUnsubscribed(t *testing.T) {
	t.Parallel()
	svc, _ := newGate(t, &fakeChecker{member: true, err: errors.New("telegram: chat not found")})

	assert.Equal(t, NeedSubscription, svc.Check(context.Background(), "42"))
}

func TestCheckUnverifiedSubscriber(t *testing.T) {
	t.Parallel()
	svc, st := newGate(t, &fakeChecker{member: true})
	ctx := context.Background()

	assert.Equal(t, NeedVerification, svc.Check(ctx, "42"))

	// A record with a null verify time is still unverified.
	st.Upsert(ctx, "42", func(r *store.UserRecord) {})
	assert.Equal(t, NeedVerification, svc.Check(ctx, "42"))
}

func TestCheckWindowBoundary(t *testing.T) {
	t.Parallel()
	svc, st := newGate(t, &fakeChecker{member: true})
	ctx := context.Background()

	// Millisecond precision to match UserRecord's verify-time storage.
	base := time.Now().Truncate(time.Millisecond)
	svc.now = func() time.Time { return base }

	cases := []struct {
		name     string
		age      time.Duration
		decision Decision
	}{
		{"fresh", time.Minute, Allow},
		{"exactly window old", 12 * time.Hour, Allow},
		{"window plus a second", 12*time.Hour + time.Second, NeedVerification},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st.Upsert(ctx, "42", func(r *store.UserRecord) {
				r.SetVerified(base.Add(-tc.age))
			})
			assert.Equal(t, tc.decision, svc.Check(ctx, "42"))
		})
	}
}

func TestRedeemTokenMatchesOnIDOnly(t *testing.T) {
	t.Parallel()
	svc, st := newGate(t, &fakeChecker{member: true})
	ctx := context.Background()

	// The timestamp segment is never validated, even when malformed or
	// far in the future.
	for _, token := range []string{
		"42_" + strconv.FormatInt(time.Now().UnixMilli(), 10),
		"42_0",
		"42_9999999999999999",
		"42_not-a-timestamp",
	} {
		require.True(t, svc.RedeemToken(ctx, "42", token), "token %q", token)
		rec, ok := st.Get(ctx, "42")
		require.True(t, ok)
		_, verified := rec.VerifiedAt()
		assert.True(t, verified)
	}
}

func TestRedeemTokenForeignIDFails(t *testing.T) {
	t.Parallel()
	svc, st := newGate(t, &fakeChecker{member: true})
	ctx := context.Background()

	assert.False(t, svc.RedeemToken(ctx, "42", "7_123456"))
	assert.False(t, svc.RedeemToken(ctx, "42", "no-underscore"))
	_, ok := st.Get(ctx, "42")
	assert.False(t, ok, "failed redemption must not create a record")
}

func TestMintTokenShape(t *testing.T) {
	t.Parallel()
	svc, _ := newGate(t, &fakeChecker{member: true})
	base := time.UnixMilli(1700000000000)
	svc.now = func() time.Time { return base }

	assert.Equal(t, "42_1700000000000", svc.MintToken("42"))
}

func TestReserveDownloadCooldown(t *testing.T) {
	t.Parallel()
	st := store.NewService(nil, store.NewFileBackend(filepath.Join(t.TempDir(), "data.json")), nil)
	svc := NewService(nil, &fakeChecker{member: true}, st, 12*time.Hour, 20*time.Second)

	ok, _ := svc.ReserveDownload("42")
	assert.True(t, ok)

	ok, wait := svc.ReserveDownload("42")
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))

	// Other users are unaffected.
	ok, _ = svc.ReserveDownload("7")
	assert.True(t, ok)
}

func TestReserveDownloadDisabled(t *testing.T) {
	t.Parallel()
	svc, _ := newGate(t, &fakeChecker{member: true})

	for i := 0; i < 3; i++ {
		ok, wait := svc.ReserveDownload("42")
		assert.True(t, ok)
		assert.Zero(t, wait)
	}
}
