package model

// UploadAsset is a session-scoped handle to media selected in the upload
// form: a preview that exists only for the lifetime of the process, never
// the durable media pointer itself (that is Video.Src).
type UploadAsset struct {
	Name string
	MIME string
	Data []byte
}

// Video is a published clip in the local feed.
//
// Upload is deliberately excluded from serialization: the persisted form of
// a video must carry only durable pointers, while the in-memory value handed
// back to the caller keeps the transient handle alive.
type Video struct {
	ID            string    `json:"id"`
	Src           string    `json:"src"`
	Description   string    `json:"description"`
	Caption       string    `json:"caption"`
	Thumbnail     string    `json:"thumbnail"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
	Shares        int       `json:"shares"`
	Artist        string    `json:"artist"`
	CommentsData  []Comment `json:"commentsData"`

	Upload *UploadAsset `json:"-"`
}

// Comment is a single comment on a video. Immutable once created; owned by
// its parent video and serialized inline with it.
type Comment struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Clone returns a deep copy of v. CommentsData is copied so that callers can
// append to the clone without aliasing the original's backing array; the
// Upload handle is shared (it is the same session-scoped asset).
func (v Video) Clone() Video {
	out := v
	if v.CommentsData != nil {
		out.CommentsData = make([]Comment, len(v.CommentsData))
		copy(out.CommentsData, v.CommentsData)
	}
	return out
}

// CountersConsistent reports whether the comment counter matches the
// embedded comment list. Holds after every mutation performed by the app.
func (v Video) CountersConsistent() bool {
	return v.CommentsCount == len(v.CommentsData)
}
