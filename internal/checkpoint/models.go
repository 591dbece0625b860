// Package checkpoint adds an operational save/restore facility above the
// purely in-memory forest core: a SnapshotRepository records forest
// metadata (tree count, element count, and each tree's coarse-mesh id
// and class), and a BlobStore holds the serialized per-tree element
// arrays under a key derived from the snapshot id. Restoring a snapshot
// re-hydrates a forest's trees without re-running adapt; it never defines
// a persistence format for the core element/tree/adapt contracts
// themselves, which remain pure in-memory state.
package checkpoint

import "time"

// Snapshot records one forest's metadata at the moment it was saved.
type Snapshot struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;size:255" json:"name"`
	NumTrees     int       `json:"num_trees"`
	NumElements  int64     `json:"num_elements"`
	ConfigJSON   string    `gorm:"type:text" json:"config_json"`
	CreatedAt    time.Time `json:"created_at"`
	BlobKeysJSON string    `gorm:"type:text" json:"blob_keys_json"`
}

// TreeMeta records one local tree's coarse-mesh id and class. The slice
// of every tree's TreeMeta, JSON-encoded, is what Snapshot.ConfigJSON
// holds.
type TreeMeta struct {
	CoarseID int    `json:"coarse_id"`
	Class    string `json:"class"`
}
