// Package models defines the persisted and display-side entities of the
// journal. Raw* types mirror database rows and carry ciphertext; their
// plain counterparts are what services hand back after decryption.
package models

// RawEntry is an entries row as stored. Title, Body and AgentData are
// ciphertext produced by the codec; no plaintext content ever reaches a row.
type RawEntry struct {
	ID              string
	UserID          string
	Title           string
	Body            string
	Created         int64
	CreatedTzOffset float64
	Deleted         *int64
	Pinned          *int64
	LabelID         *string
	Latitude        *float64
	Longitude       *float64
	AgentData       string
	WordCount       int
}

// Entry is a decrypted entry with its label resolved and edit history
// attached.
type Entry struct {
	ID              string
	Title           string
	Body            string
	Created         int64
	CreatedTzOffset float64
	Deleted         *int64
	Pinned          *int64
	Label           *Label
	Latitude        *float64
	Longitude       *float64
	AgentData       string
	WordCount       int
	Edits           []EntryEdit
}

// IsDeleted reports whether the entry is soft-deleted.
func (e *Entry) IsDeleted() bool { return e.Deleted != nil }

// IsPinned reports whether the entry is pinned.
func (e *Entry) IsPinned() bool { return e.Pinned != nil }

// LocalTime is the entry's creation time shifted into its own timezone,
// used for wall-clock ordering across timezones.
func (e *Entry) LocalTime() int64 {
	return e.Created + int64(e.CreatedTzOffset*3600)
}

// RawEntryEdit is an entry_edits row as stored: an immutable snapshot of an
// entry's state before one edit. OldTitle, OldBody and AgentData are
// ciphertext.
type RawEntryEdit struct {
	ID              string
	EntryID         string
	UserID          string
	OldTitle        string
	OldBody         string
	OldLabelID      *string
	Created         int64
	CreatedTzOffset float64
	Latitude        *float64
	Longitude       *float64
	AgentData       string
}

// EntryEdit is a decrypted edit snapshot with its old label resolved.
type EntryEdit struct {
	ID              string
	EntryID         string
	OldTitle        string
	OldBody         string
	OldLabel        *Label
	Created         int64
	CreatedTzOffset float64
	Latitude        *float64
	Longitude       *float64
	AgentData       string
}

// EntryTimes is the projection the streak engine works on.
type EntryTimes struct {
	Created         int64
	CreatedTzOffset float64
}

// Streaks is derived from the entry timeline and never persisted.
type Streaks struct {
	Current    int  `json:"current"`
	Longest    int  `json:"longest"`
	RunningOut bool `json:"runningOut"`
}

// WordIndexEntry is a words_in_entries row: one distinct word of one entry.
// Word is ciphertext; Count excludes title-only occurrences.
type WordIndexEntry struct {
	UserID         string
	EntryID        string
	Word           string
	Count          int
	EntryIsDeleted bool
}
