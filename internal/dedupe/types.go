package dedupe

import "time"

// ImageSource identifies one candidate image. It is captured by the discovery
// collaborator before a scan and is read-only afterwards.
type ImageSource struct {
	Path    string
	Size    int64
	ModTime time.Time
	Width   int
	Height  int
}

// ImageHash is the fingerprint record for one source, computed once during the
// hashing phase and immutable afterwards.
type ImageHash struct {
	Path     string
	Size     int64
	Width    int
	Height   int
	PHash    uint64 // frequency hash
	DHash    uint64 // gradient hash
	PHashHex string
	DHashHex string
}

// GroupMember is one image inside a similarity group.
type GroupMember struct {
	Path       string  `json:"path"`
	Hash       string  `json:"hash"` // frequency hash, hex
	Similarity float64 `json:"similarity"`
	Size       int64   `json:"size"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// SimilarityGroup is a published cluster of visually similar images. Members
// are sorted by similarity descending, then by file size descending. The
// reference hash is the frequency hash of the group's seed image.
type SimilarityGroup struct {
	ReferenceHash string        `json:"reference_hash"`
	Members       []GroupMember `json:"members"`
}

// Progress is a transient snapshot reported to the progress sink after each
// hashed image and after each published group.
type Progress struct {
	Total       int    `json:"total"`
	Processed   int    `json:"processed"`
	GroupsFound int    `json:"groups_found"`
	CurrentFile string `json:"current_file"`
}

// Options configures one scan invocation.
type Options struct {
	// Threshold is the minimum blended similarity (0-100) for two images to
	// land in the same group. 100 only matches bit-identical hashes in both
	// families.
	Threshold int

	// Workers bounds the hashing worker pool. Defaults to GOMAXPROCS.
	Workers int

	// OnProgress, if set, receives progress snapshots. It may be called from
	// the hashing workers and must be safe for concurrent use.
	OnProgress func(Progress)
}

// DefaultThreshold is the blended similarity cutoff used when the caller does
// not pick one.
const DefaultThreshold = 90

// DefaultOptions returns scan options with the default threshold.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold}
}
