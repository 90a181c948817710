// Package store persists user records and the shortener API selector as a
// single JSON blob, behind interchangeable file and HTTP backends.
package store

import (
	"context"
	"time"
)

// UserRecord tracks one bot user. VerifyTime is unix milliseconds; nil means
// the user has never verified.
type UserRecord struct {
	VerifyTime     *int64 `json:"verify_time"`
	ProcessedLinks int    `json:"processed_links,omitempty"`
}

// VerifiedAt returns the verification time, if any.
func (r UserRecord) VerifiedAt() (time.Time, bool) {
	if r.VerifyTime == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*r.VerifyTime), true
}

// SetVerified records t as the verification time.
func (r *UserRecord) SetVerified(t time.Time) {
	ms := t.UnixMilli()
	r.VerifyTime = &ms
}

// Snapshot is the whole persisted state.
type Snapshot struct {
	Users      map[string]UserRecord `json:"users"`
	CurrentAPI string                `json:"current_api,omitempty"`
}

// Backend loads and saves the store as one opaque blob. No partial updates.
type Backend interface {
	// Load returns the persisted blob, or nil when nothing was saved yet.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the persisted blob.
	Save(ctx context.Context, blob []byte) error
}
