package checkpoint

import (
	"context"
	"encoding/json"
	"time"

	"github.com/meshforest/forest/internal/cmesh"
	"github.com/meshforest/forest/internal/forest"
	cerrors "github.com/meshforest/forest/pkg/errors"
	"github.com/meshforest/forest/pkg/scheme"
)

// Manager ties a SnapshotRepository and a BlobStore together into a single
// save/load operation over a committed forest.
type Manager struct {
	Repo  SnapshotRepository
	Blobs BlobStore
}

// NewManager returns a Manager over the given repository and blob store.
func NewManager(repo SnapshotRepository, blobs BlobStore) *Manager {
	return &Manager{Repo: repo, Blobs: blobs}
}

// Save records f's metadata and per-tree element arrays under name,
// overwriting any prior snapshot of the same name.
func (m *Manager) Save(ctx context.Context, name string, f *forest.Forest) error {
	if !f.Committed() {
		return cerrors.New(cerrors.CodeInvalidInput, "cannot save an uncommitted forest")
	}

	meta := make([]TreeMeta, f.NumLocalTrees())
	for i := 0; i < f.NumLocalTrees(); i++ {
		meta[i] = TreeMeta{CoarseID: f.Tree(i).CoarseID, Class: f.Tree(i).Class.String()}
	}
	cfgJSON, err := json.Marshal(meta)
	if err != nil {
		return cerrors.Wrap(cerrors.CodeIOError, "failed to encode tree metadata", err)
	}

	for i := 0; i < f.NumLocalTrees(); i++ {
		if err := m.Blobs.PutTree(ctx, name, i, f.Tree(i).Elements()); err != nil {
			return err
		}
	}

	return m.Repo.Save(ctx, &Snapshot{
		Name:        name,
		NumTrees:    f.NumLocalTrees(),
		NumElements: f.NumLocalElements(),
		ConfigJSON:  string(cfgJSON),
		CreatedAt:   time.Now(),
	})
}

// Load re-hydrates a committed forest from a saved snapshot, over the
// given coarse mesh and scheme registry (the mesh that produced the
// snapshot in the first place — it is not itself persisted per spec).
func (m *Manager) Load(ctx context.Context, name string, reg *scheme.Registry, mesh *cmesh.CoarseMesh) (*forest.Forest, error) {
	snap, err := m.Repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	var meta []TreeMeta
	if err := json.Unmarshal([]byte(snap.ConfigJSON), &meta); err != nil {
		return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to decode tree metadata", err)
	}

	elementsByTree := make([][]scheme.Element, snap.NumTrees)
	for i := 0; i < snap.NumTrees; i++ {
		elems, err := m.Blobs.GetTree(ctx, name, i)
		if err != nil {
			return nil, err
		}
		elementsByTree[i] = elems
	}

	return forest.Restore(reg, mesh, elementsByTree)
}

// Delete removes a snapshot's metadata and blobs.
func (m *Manager) Delete(ctx context.Context, name string) error {
	snap, err := m.Repo.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := m.Blobs.DeleteSnapshot(ctx, name, snap.NumTrees); err != nil {
		return err
	}
	return m.Repo.Delete(ctx, name)
}
