package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/reelvault/reelvault/internal/kvstore"
	"github.com/reelvault/reelvault/internal/model"
	"github.com/reelvault/reelvault/internal/policy"
)

// VideoStore manages the video collection under KeyVideos.
//
// The admission policy is applied symmetrically on read and on write: a
// non-admitted video is never persisted, and a persisted video that
// retroactively matches the policy is never read back. Storage and the
// in-memory view therefore cannot disagree about membership.
type VideoStore struct {
	kv  kvstore.RW
	adm policy.Admission
}

// NewVideoStore creates a video store over the given medium.
func NewVideoStore(kv kvstore.RW, adm policy.Admission) *VideoStore {
	return &VideoStore{kv: kv, adm: adm}
}

// Load returns the admitted videos in stored order (most-recent-first, since
// writes prepend). Never fails outward: any storage or parse fault yields an
// empty collection.
func (s *VideoStore) Load(ctx context.Context) []model.Video {
	raw, ok, err := s.kv.Get(ctx, KeyVideos)
	if err != nil {
		slog.Error("video store: read failed, using empty collection", "error", err)
		return []model.Video{}
	}
	if !ok {
		return []model.Video{}
	}

	var videos []model.Video
	if err := json.Unmarshal([]byte(raw), &videos); err != nil {
		slog.Error("video store: corrupt collection, using empty collection", "error", err)
		return []model.Video{}
	}
	return s.filter(videos)
}

// Add prepends v to the collection and persists. A video rejected by the
// admission policy is silently dropped: the current collection is returned
// unchanged and nothing is written. This is a deliberate gate, not an error.
//
// The returned slice still carries v's transient fields (upload handle); the
// persisted form does not, by construction of the serialized shape.
func (s *VideoStore) Add(ctx context.Context, v model.Video) []model.Video {
	current := s.Load(ctx)
	if !s.adm.Admit(v) {
		slog.Debug("video store: add rejected by admission policy", "id", v.ID)
		return current
	}

	updated := append([]model.Video{v}, current...)
	s.persist(ctx, updated)
	return updated
}

// Update replaces the video with v's ID in place. If v no longer satisfies
// the admission policy it falls out of the collection entirely. If no video
// with that ID exists but v is admitted, it is appended as new — a defensive
// fallback for desynchronized callers, logged for diagnosis.
//
// The resulting collection is always re-persisted and returned.
func (s *VideoStore) Update(ctx context.Context, v model.Video) []model.Video {
	updated := ReplaceVideo(s.Load(ctx), v, s.adm)
	s.persist(ctx, updated)
	return updated
}

// ReplaceVideo computes the collection resulting from an update of v against
// current: in-place replacement when admitted, fall-out when not, defensive
// append when v is unknown but admitted. Pure except for the diagnostic log
// on the defensive-append path. Shared by VideoStore.Update and the facade's
// transactional like toggle.
func ReplaceVideo(current []model.Video, v model.Video, adm policy.Admission) []model.Video {
	admitted := adm.Admit(v)

	found := false
	updated := make([]model.Video, 0, len(current)+1)
	for _, cur := range current {
		if cur.ID == v.ID {
			found = true
			if admitted {
				updated = append(updated, v)
			}
			// Not admitted: the video falls out of the store via update.
			continue
		}
		updated = append(updated, cur)
	}

	if !found && admitted {
		slog.Warn("video store: update for unknown video, appending as new", "id", v.ID)
		updated = append(updated, v)
	}

	return updated
}

// filter applies the admission policy to a loaded collection.
func (s *VideoStore) filter(videos []model.Video) []model.Video {
	out := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if s.adm.Admit(v) {
			out = append(out, v)
		}
	}
	return out
}

// persist writes the collection under KeyVideos. Write faults are logged
// and swallowed per the store contract.
func (s *VideoStore) persist(ctx context.Context, videos []model.Video) {
	if err := WriteVideos(ctx, s.kv, videos); err != nil {
		slog.Error("video store: collection not persisted", "error", err)
	}
}

// WriteVideos serializes and stores the collection under KeyVideos.
// Transient fields are excluded structurally (they carry no JSON mapping).
// Unlike the VideoStore methods this propagates write faults, so it can
// participate in a transaction that must roll back on failure.
func WriteVideos(ctx context.Context, kv kvstore.RW, videos []model.Video) error {
	data, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("marshal videos: %w", err)
	}
	if err := kv.Put(ctx, KeyVideos, string(data)); err != nil {
		return fmt.Errorf("write videos: %w", err)
	}
	return nil
}
