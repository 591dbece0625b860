package checkpoint

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	cerrors "github.com/meshforest/forest/pkg/errors"
	"github.com/meshforest/forest/pkg/scheme"

	"github.com/meshforest/forest/internal/storage"
	"github.com/meshforest/forest/pkg/compression"
)

// BlobStore holds the serialized per-tree element arrays for a snapshot,
// keyed by snapshot name and local tree index. It never interprets the
// element state it stores; encodeTree/decodeTree own the wire layout.
type BlobStore interface {
	PutTree(ctx context.Context, snapshotName string, ltree int, elems []scheme.Element) error
	GetTree(ctx context.Context, snapshotName string, ltree int) ([]scheme.Element, error)
	DeleteSnapshot(ctx context.Context, snapshotName string, numTrees int) error
}

// storageBlobStore adapts the reference object-storage abstraction
// (local filesystem or COS, selected by internal/storage.NewStorage) into
// a BlobStore over scheme.Element arrays. Tree blobs are zstd-compressed
// before upload, since a uniform or deeply refined forest's element array
// is highly repetitive (shared class/level/type across long anchor runs).
type storageBlobStore struct {
	backend    storage.Storage
	compressor compression.Compressor
}

// NewBlobStore builds a BlobStore over a configured storage backend. cfg
// selects local filesystem or COS exactly as internal/storage.NewStorage
// does; this is the one place that config type is exercised outside its
// own package's tests.
func NewBlobStore(cfg *storage.COSConfig, localPath string, useCOS bool) (BlobStore, error) {
	var backend storage.Storage
	var err error
	if useCOS {
		backend, err = storage.NewCOSStorage(cfg)
	} else {
		backend, err = storage.NewLocalStorage(localPath)
	}
	if err != nil {
		return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to open blob store backend", err)
	}
	comp, err := compression.New(compression.TypeZstd, compression.LevelDefault)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to create blob store compressor", err)
	}
	return &storageBlobStore{backend: backend, compressor: comp}, nil
}

func treeKey(snapshotName string, ltree int) string {
	return fmt.Sprintf("%s/tree-%04d.bin", snapshotName, ltree)
}

// PutTree serializes elems (class, level, type and anchor of each
// element), zstd-compresses
// the result, and uploads it under the snapshot's tree key.
func (s *storageBlobStore) PutTree(ctx context.Context, snapshotName string, ltree int, elems []scheme.Element) error {
	buf, err := encodeTree(elems)
	if err != nil {
		return err
	}
	compressed, err := s.compressor.Compress(buf)
	if err != nil {
		return cerrors.Wrap(cerrors.CodeIOError, "failed to compress tree blob", err)
	}
	if err := s.backend.Upload(ctx, treeKey(snapshotName, ltree), bytes.NewReader(compressed)); err != nil {
		return cerrors.Wrap(cerrors.CodeIOError, "failed to upload tree blob", err)
	}
	return nil
}

// GetTree downloads, decompresses, and decodes a tree's element array.
func (s *storageBlobStore) GetTree(ctx context.Context, snapshotName string, ltree int) ([]scheme.Element, error) {
	r, err := s.backend.Download(ctx, treeKey(snapshotName, ltree))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to download tree blob", err)
	}
	defer r.Close()
	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to read tree blob", err)
	}
	data, err := s.compressor.Decompress(compressed)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to decompress tree blob", err)
	}
	return decodeTree(data)
}

// DeleteSnapshot removes every tree blob belonging to a snapshot.
func (s *storageBlobStore) DeleteSnapshot(ctx context.Context, snapshotName string, numTrees int) error {
	for i := 0; i < numTrees; i++ {
		if err := s.backend.Delete(ctx, treeKey(snapshotName, i)); err != nil {
			return cerrors.Wrap(cerrors.CodeIOError, "failed to delete tree blob", err)
		}
	}
	return nil
}

// wire layout: uint32 count, then per element: uint8 class, 3x int32
// anchor, uint8 level, uint8 type.
func encodeTree(elems []scheme.Element) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(elems))); err != nil {
		return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to encode tree length", err)
	}
	for _, e := range elems {
		fields := []any{
			uint8(e.Class),
			int32(e.Anchor[0]), int32(e.Anchor[1]), int32(e.Anchor[2]),
			uint8(e.Level),
			uint8(e.Type),
		}
		for _, f := range fields {
			if err := binary.Write(&buf, binary.LittleEndian, f); err != nil {
				return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to encode element", err)
			}
		}
	}
	return buf.Bytes(), nil
}

func decodeTree(data []byte) ([]scheme.Element, error) {
	r := bytes.NewReader(data)
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to decode tree length", err)
	}
	out := make([]scheme.Element, n)
	for i := range out {
		var class, level, typ uint8
		var a0, a1, a2 int32
		for _, f := range []any{&class, &a0, &a1, &a2, &level, &typ} {
			if err := binary.Read(r, binary.LittleEndian, f); err != nil {
				return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to decode element", err)
			}
		}
		out[i] = scheme.Element{
			Class:  scheme.Class(class),
			Anchor: [3]int32{a0, a1, a2},
			Level:  int8(level),
			Type:   int8(typ),
		}
	}
	return out, nil
}
