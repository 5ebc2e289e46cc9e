package stores

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/reelvault/reelvault/internal/kvstore"
	"github.com/reelvault/reelvault/internal/model"
)

// profileKnownKeys are the JSON keys owned by the current schema. Anything
// else in a stored record is an extra field from a newer schema and is
// preserved across load→save.
var profileKnownKeys = map[string]struct{}{
	"id":             {},
	"username":       {},
	"bio":            {},
	"profilePicture": {},
	"displayId":      {},
	"followersCount": {},
	"isFollowing":    {},
}

// ProfileStore manages the singleton profile record under KeyProfile.
//
// Load always succeeds: the record is lazily synthesized with defaults on
// first use or corruption, and the normalization pass backfills fields that
// older records predate (displayId, followersCount, isFollowing). When any
// default is backfilled the corrected record is re-persisted immediately, so
// the migration runs at most once per record.
type ProfileStore struct {
	kv           kvstore.RW
	newID        func() string
	newDisplayID func() string

	// extras holds unrecognized JSON keys from the last load so a record
	// written by a newer schema survives a round-trip through this one.
	extras map[string]json.RawMessage
}

// NewProfileStore creates a profile store over the given medium.
func NewProfileStore(kv kvstore.RW) *ProfileStore {
	return &ProfileStore{
		kv:           kv,
		newID:        func() string { return uuid.Must(uuid.NewV7()).String() },
		newDisplayID: randomDisplayID,
	}
}

// randomDisplayID generates the human-facing 7-digit identifier. Generated
// once per profile and thereafter permanently stable.
func randomDisplayID() string {
	return strconv.Itoa(1_000_000 + rand.IntN(9_000_000))
}

// Load returns the profile, synthesizing and persisting a default record on
// first use or on corruption, and running normalization on every load.
// Never fails outward.
func (s *ProfileStore) Load(ctx context.Context) model.Profile {
	raw, ok, err := s.kv.Get(ctx, KeyProfile)
	if err != nil {
		// Medium unreadable: hand back a usable default but do not overwrite
		// whatever is stored — the record may be intact.
		slog.Error("profile store: read failed, using default record", "error", err)
		p := s.defaultProfile()
		s.extras = nil
		return p
	}
	if !ok {
		return s.synthesize(ctx)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		slog.Error("profile store: corrupt record, synthesizing default", "error", err)
		return s.synthesize(ctx)
	}
	var p model.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		slog.Error("profile store: record shape invalid, synthesizing default", "error", err)
		return s.synthesize(ctx)
	}

	s.extras = extraFields(fields)

	p, changed := s.normalize(p, fields)
	if changed {
		s.Save(ctx, p)
	}
	return p
}

// Save unconditionally overwrites the singleton record (last writer wins).
// Unrecognized keys retained from the last load are merged back in.
func (s *ProfileStore) Save(ctx context.Context, p model.Profile) {
	data, err := json.Marshal(p)
	if err != nil {
		slog.Error("profile store: marshal failed, record not persisted", "error", err)
		return
	}

	if len(s.extras) > 0 {
		merged := make(map[string]json.RawMessage, len(s.extras)+len(profileKnownKeys))
		for k, v := range s.extras {
			merged[k] = v
		}
		var known map[string]json.RawMessage
		if err := json.Unmarshal(data, &known); err == nil {
			for k, v := range known {
				merged[k] = v
			}
			if remarshaled, err := json.Marshal(merged); err == nil {
				data = remarshaled
			}
		}
	}

	if err := s.kv.Put(ctx, KeyProfile, string(data)); err != nil {
		slog.Error("profile store: write failed, record not persisted", "error", err)
	}
}

// normalize backfills missing fields with their defaults. displayId is only
// ever filled in when absent — an existing value is never regenerated.
func (s *ProfileStore) normalize(p model.Profile, fields map[string]json.RawMessage) (model.Profile, bool) {
	changed := false

	if p.ID == "" {
		p.ID = s.newID()
		changed = true
	}
	if p.Username == "" {
		p.Username = model.DefaultUsername
		changed = true
	}
	if p.ProfilePicture == "" {
		p.ProfilePicture = model.DefaultProfilePicture
		changed = true
	}
	if p.DisplayID == "" {
		p.DisplayID = s.newDisplayID()
		changed = true
	}
	// Zero is a valid value for the counter and flag, so absence is judged
	// by key presence rather than by value.
	if _, ok := fields["followersCount"]; !ok {
		p.FollowersCount = 0
		changed = true
	}
	if _, ok := fields["isFollowing"]; !ok {
		p.IsFollowing = false
		changed = true
	}

	return p, changed
}

// synthesize creates, persists, and returns a fresh default record.
func (s *ProfileStore) synthesize(ctx context.Context) model.Profile {
	p := s.defaultProfile()
	s.extras = nil
	s.Save(ctx, p)
	return p
}

func (s *ProfileStore) defaultProfile() model.Profile {
	return model.Profile{
		ID:             s.newID(),
		Username:       model.DefaultUsername,
		ProfilePicture: model.DefaultProfilePicture,
		DisplayID:      s.newDisplayID(),
	}
}

// extraFields returns the keys of fields not owned by the current schema.
func extraFields(fields map[string]json.RawMessage) map[string]json.RawMessage {
	var extras map[string]json.RawMessage
	for k, v := range fields {
		if _, known := profileKnownKeys[k]; known {
			continue
		}
		if extras == nil {
			extras = make(map[string]json.RawMessage)
		}
		extras[k] = v
	}
	return extras
}
