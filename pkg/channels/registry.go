package channels

import (
	"context"
	"errors"
)

// ErrMissingUserID is returned when resolution is attempted for an empty user ID.
var ErrMissingUserID = errors.New("channels: user ID is required")

// UserChannel returns the implicit per-user channel name.
func UserChannel(userID string) string {
	return "user:" + userID
}

// Registry resolves a user to its channel set.
type Registry interface {
	// ChannelsFor returns the channels userID should receive events on.
	// The per-user channel always comes first.
	ChannelsFor(ctx context.Context, userID string) ([]string, error)
}

// MembershipSource exposes a user's group channel memberships.
// notifications.Store satisfies it.
type MembershipSource interface {
	Groups(ctx context.Context, receiverID string) ([]string, error)
}

// StoreRegistry resolves channels from a membership source.
type StoreRegistry struct {
	source MembershipSource
}

// NewStoreRegistry creates a registry backed by the given membership source.
func NewStoreRegistry(source MembershipSource) *StoreRegistry {
	return &StoreRegistry{source: source}
}

func (r *StoreRegistry) ChannelsFor(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	groups, err := r.source.Groups(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(groups)+1)
	out = append(out, UserChannel(userID))
	seen := map[string]struct{}{out[0]: {}}
	for _, g := range groups {
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out, nil
}

// Static is a fixed userID -> extra channels mapping for tests and
// single-tenant setups. The per-user channel is still implicit.
type Static map[string][]string

func (s Static) ChannelsFor(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	out := append([]string{UserChannel(userID)}, s[userID]...)
	return out, nil
}
