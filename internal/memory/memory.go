package memory

import (
	"slices"
	"strings"
)

// Type classifies the kind of content a memory record holds.
type Type string

const (
	TypeNote  Type = "note"
	TypePhoto Type = "photo"
	TypeAudio Type = "audio"
	TypeVideo Type = "video"
)

// KnownTypes lists all valid memory types.
var KnownTypes = []Type{TypeNote, TypePhoto, TypeAudio, TypeVideo}

// ValidType reports whether s names a known memory type.
func ValidType(s string) bool {
	return slices.Contains(KnownTypes, Type(strings.TrimSpace(s)))
}

// Record represents one user-created memory.
type Record struct {
	// ID is a ULID that uniquely identifies this record
	ID string `json:"id"`

	// UserID is the owning user; every record belongs to exactly one user
	UserID string `json:"user_id"`

	// Title is a short human-readable label (never empty)
	Title string `json:"title"`

	// Description is optional freeform context (nullable)
	Description *string `json:"description,omitempty"`

	// Type is one of note|photo|audio|video
	Type Type `json:"type"`

	// Content is freeform text for notes, or a reference to binary
	// content for photo/audio/video records
	Content string `json:"content"`

	// Tags is an ordered list of tags (stored as JSON in DB, may be empty)
	Tags []string `json:"tags,omitempty"`

	// Date is the Unix timestamp of when the memory occurred
	Date int64 `json:"date"`

	// CreatedAt is the Unix timestamp of when the record was persisted
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last modification
	UpdatedAt int64 `json:"updated_at"`
}

// A Collection is one user's records as delivered by storage: sorted by
// Date descending (CreatedAt descending as tiebreak), an immutable
// snapshot for the duration of one capsule generation. Downstream
// consumers that take "the first N" records therefore take the N most
// recent ones.
type Collection = []Record

// SortedByDateAsc returns a chronological (oldest-first) copy of records.
// The input slice is not mutated.
func SortedByDateAsc(records Collection) Collection {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		default:
			return 0
		}
	})
	return sorted
}
