package route

import "fmt"

// SyncMode selects how Sync rebuilds an index.
type SyncMode string

const (
	// SyncFull re-encodes every utterance.
	SyncFull SyncMode = "full"
	// SyncIncremental reuses vectors already in the index.
	SyncIncremental SyncMode = "incremental"
)

// ParseSyncMode accepts "full" or "incremental". Empty means full.
func ParseSyncMode(s string) (SyncMode, error) {
	switch SyncMode(s) {
	case "", SyncFull:
		return SyncFull, nil
	case SyncIncremental:
		return SyncIncremental, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSyncMode, s)
}

// SyncResult summarises one sync.
type SyncResult struct {
	Mode    SyncMode `json:"mode"`
	Encoded int      `json:"encoded"` // Utterances sent to the encoder
	Reused  int      `json:"reused"`  // Vectors kept from the index
	Removed int      `json:"removed"` // Orphans deleted, incremental mode only
	Total   int      `json:"total"`   // Entries in the index afterwards
}
