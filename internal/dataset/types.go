package dataset

import "context"

// FieldGroup names a cluster of row fields that is fetched together and
// judged complete only as a unit.
type FieldGroup string

const (
	GroupIdentity      FieldGroup = "identity"
	GroupProfileStats  FieldGroup = "profile_stats"
	GroupVideoMetadata FieldGroup = "video_metadata"
	GroupTranscript    FieldGroup = "transcript"
)

// Row is one video's record within the dataset, keyed by its URL.
// The URL never changes once the row exists; every other field is derived.
type Row struct {
	URL string

	// identity
	Username string

	// profile stats
	Followers int

	// video metadata
	Likes       int
	Views       int
	Description string
	PublishDate string

	// transcript
	Transcript     string
	TranscriptLang string

	// LastError is empty when the row's most recent processing attempt
	// completed without raising.
	LastError string
}

// Store loads and saves the full dataset. Rows keep the medium's order,
// which is stable across runs.
type Store interface {
	Load(ctx context.Context) ([]Row, error)
	Save(ctx context.Context, rows []Row) error
}
