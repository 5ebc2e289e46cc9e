package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/reelvault/reelvault/internal/kvstore"
)

// LikedStore manages the set of video IDs liked by the local user, stored
// under KeyLikedVideos independently of the per-video like counters so that
// membership tests stay O(1).
//
// Pure pass-through codec: IDs are opaque, no admission filtering applies.
type LikedStore struct {
	kv kvstore.RW
}

// NewLikedStore creates a liked-set store over the given medium.
func NewLikedStore(kv kvstore.RW) *LikedStore {
	return &LikedStore{kv: kv}
}

// Load returns the liked-set. Any read or parse fault yields an empty set.
func (s *LikedStore) Load(ctx context.Context) map[string]struct{} {
	raw, ok, err := s.kv.Get(ctx, KeyLikedVideos)
	if err != nil {
		slog.Error("liked store: read failed, using empty set", "error", err)
		return map[string]struct{}{}
	}
	if !ok {
		return map[string]struct{}{}
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		slog.Error("liked store: corrupt set, using empty set", "error", err)
		return map[string]struct{}{}
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Save persists the liked-set. Write faults are logged and swallowed per
// the store contract.
func (s *LikedStore) Save(ctx context.Context, set map[string]struct{}) {
	if err := WriteLikedSet(ctx, s.kv, set); err != nil {
		slog.Error("liked store: set not persisted", "error", err)
	}
}

// WriteLikedSet serializes and stores the set under KeyLikedVideos. IDs are
// serialized in sorted order so the stored form is stable across saves of
// the same set. Propagates write faults so it can participate in a
// transaction that must roll back on failure.
func WriteLikedSet(ctx context.Context, kv kvstore.RW, set map[string]struct{}) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal liked set: %w", err)
	}
	if err := kv.Put(ctx, KeyLikedVideos, string(data)); err != nil {
		return fmt.Errorf("write liked set: %w", err)
	}
	return nil
}
