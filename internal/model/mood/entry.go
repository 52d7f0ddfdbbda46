package mood

import (
	"errors"
	"fmt"
	"strings"
)

// SyncStatus tracks whether an entry has reached the server.
type SyncStatus string

const (
	StatusPending SyncStatus = "pending"
	StatusSynced  SyncStatus = "synced"
)

var ErrInvalidEntry = errors.New("invalid mood entry")

// Entry is a single mood journal record keyed by its creation timestamp (ms since epoch).
type Entry struct {
	Timestamp  int64      `json:"timestamp"`
	Category   string     `json:"category"`
	Emotion    string     `json:"emotion"`
	SubEmotion string     `json:"subEmotion"`
	Note       string     `json:"note,omitempty"`
	SyncStatus SyncStatus `json:"syncStatus,omitempty"`
}

// Validate checks the key and that the selection is a path on the emotion wheel.
func (e Entry) Validate() error {
	if e.Timestamp <= 0 {
		return fmt.Errorf("%w: timestamp must be positive", ErrInvalidEntry)
	}
	switch e.SyncStatus {
	case "", StatusPending, StatusSynced:
	default:
		return fmt.Errorf("%w: unknown syncStatus %q", ErrInvalidEntry, e.SyncStatus)
	}
	if !Wheel().Contains(e.Category, e.Emotion, e.SubEmotion) {
		return fmt.Errorf("%w: %s/%s/%s is not on the emotion wheel", ErrInvalidEntry,
			strings.TrimSpace(e.Category), strings.TrimSpace(e.Emotion), strings.TrimSpace(e.SubEmotion))
	}
	return nil
}
