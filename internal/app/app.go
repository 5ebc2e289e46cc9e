// Package app provides the reconciliation facade: the in-memory application
// state mirroring store contents, with mutation intents from the UI layer
// exposed as single operations.
//
// Every mutation goes through the stores into durable storage and the
// resulting state is then published — in-memory state and storage are never
// allowed to drift apart. The App is owned by the top-level controller and
// threaded through explicitly; there are no package-level singletons.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reelvault/reelvault/internal/caption"
	"github.com/reelvault/reelvault/internal/kvstore"
	"github.com/reelvault/reelvault/internal/model"
	"github.com/reelvault/reelvault/internal/policy"
	"github.com/reelvault/reelvault/internal/stores"
)

// View identifies the screen the UI shell should be showing.
type View string

const (
	ViewFeed    View = "feed"
	ViewUpload  View = "upload"
	ViewProfile View = "profile"
)

// State is the published snapshot of application state. Slices and the
// liked-set are copies; mutating a snapshot does not affect the facade.
type State struct {
	Videos  []model.Video
	Stories []model.Story
	Profile model.Profile
	Liked   map[string]struct{}
	View    View
}

// HasLiked reports whether the local user has liked the given video.
func (s State) HasLiked(id string) bool {
	_, ok := s.Liked[id]
	return ok
}

// VideoDraft is the upload form's pre-publish state. Caption may be empty
// (falls back to the description) or filled by the caption service.
type VideoDraft struct {
	Src         string
	Description string
	Caption     string
	Thumbnail   string
	Upload      *model.UploadAsset
}

// StoryDraft is the story form's pre-publish state.
type StoryDraft struct {
	ImageURL string
	AudioURL string
}

// App is the reconciliation facade.
type App struct {
	kv       *kvstore.Store
	adm      policy.Admission
	clock    Clock
	ids      IDGenerator
	captions caption.Generator
	observer func(State)

	videos  *stores.VideoStore
	liked   *stores.LikedStore
	profile *stores.ProfileStore
	stories *stores.StoryStore

	state State
}

// Option configures an App.
type Option func(*App)

// WithClock overrides the wall clock (tests).
func WithClock(c Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithIDGenerator overrides ID generation (tests).
func WithIDGenerator(g IDGenerator) Option {
	return func(a *App) { a.ids = g }
}

// WithAdmission overrides the default admission policy.
func WithAdmission(adm policy.Admission) Option {
	return func(a *App) { a.adm = adm }
}

// WithCaptionGenerator wires the external caption service.
func WithCaptionGenerator(g caption.Generator) Option {
	return func(a *App) { a.captions = g }
}

// WithObserver registers a function invoked with every published state.
func WithObserver(fn func(State)) Option {
	return func(a *App) { a.observer = fn }
}

// New creates the facade over an opened durable medium.
func New(kv *kvstore.Store, opts ...Option) *App {
	a := &App{
		kv:    kv,
		adm:   policy.Default(),
		clock: SystemClock{},
		ids:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.videos = stores.NewVideoStore(kv, a.adm)
	a.liked = stores.NewLikedStore(kv)
	a.profile = stores.NewProfileStore(kv)
	a.stories = stores.NewStoryStore(kv)
	return a
}

// Load hydrates the in-memory state from the stores and publishes it.
// The initial view is the feed.
func (a *App) Load(ctx context.Context) State {
	a.state = State{
		Videos:  a.videos.Load(ctx),
		Stories: a.stories.Active(ctx, a.clock.Now()),
		Profile: a.profile.Load(ctx),
		Liked:   a.liked.Load(ctx),
		View:    ViewFeed,
	}
	return a.publish()
}

// State returns the current published snapshot.
func (a *App) State() State {
	return a.snapshot()
}

// ToggleLike flips the local user's like on the given video: liked-set
// membership and the video's like counter move together, written in a single
// transaction so a partial write cannot leave them disagreeing. The counter
// is clamped at zero.
//
// An unknown video is a logged no-op, not an error: the UI may race a
// just-removed video.
func (a *App) ToggleLike(ctx context.Context, videoID string) State {
	idx := a.videoIndex(videoID)
	if idx < 0 {
		slog.Warn("like toggle: unknown video", "id", videoID)
		return a.snapshot()
	}

	v := a.state.Videos[idx].Clone()
	set := cloneSet(a.state.Liked)
	if _, liked := set[videoID]; liked {
		delete(set, videoID)
		if v.LikesCount > 0 {
			v.LikesCount--
		}
	} else {
		set[videoID] = struct{}{}
		v.LikesCount++
	}

	updated := stores.ReplaceVideo(a.videos.Load(ctx), v, a.adm)
	err := a.kv.Update(ctx, func(tx *kvstore.Tx) error {
		if err := stores.WriteLikedSet(ctx, tx, set); err != nil {
			return err
		}
		return stores.WriteVideos(ctx, tx, updated)
	})
	if err != nil {
		// Storage faults stay invisible to the user; in-memory state still
		// advances, and the next successful write re-syncs the medium.
		slog.Error("like toggle: transaction failed", "id", videoID, "error", err)
	}

	a.state.Liked = set
	a.state.Videos[idx] = v
	return a.publish()
}

// AddComment appends a comment by the local user to the given video.
// Empty or whitespace-only text is rejected with a validation error and
// nothing changes.
func (a *App) AddComment(ctx context.Context, videoID, text string) (model.Video, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.Video{}, &ValidationError{
			Code:    ErrCodeEmptyComment,
			Field:   "text",
			Message: "comment text must not be empty",
		}
	}

	idx := a.videoIndex(videoID)
	if idx < 0 {
		return model.Video{}, &ValidationError{
			Code:    ErrCodeUnknownVideo,
			Field:   "videoId",
			Message: fmt.Sprintf("video %s is not in the feed", videoID),
		}
	}

	v := a.state.Videos[idx].Clone()
	v.CommentsData = append(v.CommentsData, model.Comment{
		ID:        a.ids.Generate(),
		Username:  a.state.Profile.Username,
		Text:      trimmed,
		Timestamp: a.clock.Now().UnixMilli(),
	})
	v.CommentsCount = len(v.CommentsData)

	a.state.Videos = a.videos.Update(ctx, v)
	a.publish()
	return v, nil
}

// PublishVideo stamps and stores a new video from the upload draft, and
// navigates back to the feed. A draft rejected by the admission policy is a
// silent no-op (the feed simply does not gain the video), not an error.
func (a *App) PublishVideo(ctx context.Context, draft VideoDraft) (State, error) {
	if strings.TrimSpace(draft.Description) == "" {
		return a.snapshot(), &ValidationError{
			Code:    ErrCodeMissingField,
			Field:   "description",
			Message: "a description is required to publish",
		}
	}
	if draft.Src == "" && draft.Upload == nil {
		return a.snapshot(), &ValidationError{
			Code:    ErrCodeMissingField,
			Field:   "src",
			Message: "video media is required to publish",
		}
	}

	captionText := draft.Caption
	if captionText == "" {
		captionText = draft.Description
	}

	v := model.Video{
		ID:           a.ids.Generate(),
		Src:          draft.Src,
		Description:  draft.Description,
		Caption:      captionText,
		Thumbnail:    draft.Thumbnail,
		Artist:       a.state.Profile.Username,
		CommentsData: []model.Comment{},
		Upload:       draft.Upload,
	}

	a.state.Videos = a.videos.Add(ctx, v)
	a.state.View = ViewFeed
	return a.publish(), nil
}

// PublishStory stamps and stores a new story: timestamp now, expiry exactly
// 24 hours later. The active story list is republished.
func (a *App) PublishStory(ctx context.Context, draft StoryDraft) (State, error) {
	if strings.TrimSpace(draft.ImageURL) == "" {
		return a.snapshot(), &ValidationError{
			Code:    ErrCodeMissingField,
			Field:   "imageUrl",
			Message: "an image is required to post a story",
		}
	}

	now := a.clock.Now()
	st := model.NewStory(a.ids.Generate(), a.state.Profile.Username, draft.ImageURL, draft.AudioURL, now)
	a.stories.Add(ctx, st)

	a.state.Stories = a.stories.Active(ctx, now)
	return a.publish(), nil
}

// Profile returns the current profile, reading through to the store so the
// lazy first-use synthesis runs even before Load.
func (a *App) Profile(ctx context.Context) model.Profile {
	a.state.Profile = a.profile.Load(ctx)
	return a.state.Profile
}

// PruneStories drops expired stories from storage and republishes the
// active list.
func (a *App) PruneStories(ctx context.Context) State {
	a.state.Stories = a.stories.Prune(ctx, a.clock.Now())
	return a.publish()
}

// SaveProfile overwrites the profile record with the edited value and
// republishes. Identity fields are not editable: the stored ID and
// displayId always win over whatever the caller passes.
func (a *App) SaveProfile(ctx context.Context, p model.Profile) State {
	p.ID = a.state.Profile.ID
	p.DisplayID = a.state.Profile.DisplayID

	a.profile.Save(ctx, p)
	a.state.Profile = a.profile.Load(ctx)
	return a.publish()
}

// GenerateCaption asks the external caption service for a caption. Service
// failures propagate verbatim; they affect only the caller's draft, never
// stored state. Requires a non-empty description.
func (a *App) GenerateCaption(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", &ValidationError{
			Code:    ErrCodeMissingField,
			Field:   "description",
			Message: "describe the video before generating a caption",
		}
	}
	if a.captions == nil {
		return "", fmt.Errorf("caption service not configured")
	}
	return a.captions.Generate(ctx, description)
}

// SetView records a navigation intent from the UI shell.
func (a *App) SetView(v View) State {
	a.state.View = v
	return a.publish()
}

func (a *App) videoIndex(id string) int {
	for i, v := range a.state.Videos {
		if v.ID == id {
			return i
		}
	}
	return -1
}

// publish notifies the observer (if any) and returns a snapshot.
func (a *App) publish() State {
	snap := a.snapshot()
	if a.observer != nil {
		a.observer(snap)
	}
	return snap
}

// snapshot copies the mutable parts of the state so callers cannot reach
// back into the facade's canonical copy.
func (a *App) snapshot() State {
	snap := a.state
	if a.state.Videos != nil {
		snap.Videos = make([]model.Video, len(a.state.Videos))
		for i, v := range a.state.Videos {
			snap.Videos[i] = v.Clone()
		}
	}
	if a.state.Stories != nil {
		snap.Stories = make([]model.Story, len(a.state.Stories))
		copy(snap.Stories, a.state.Stories)
	}
	snap.Liked = cloneSet(a.state.Liked)
	return snap
}

func cloneSet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}
