// Package blobmock is an in-memory blobstore.Store test double. It is
// intended for unit test use only, following the shape of
// cas/chunks/mock.InMemory and kv/kvmock.InMemory in the reference
// server.
package blobmock

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/codahale/blake2"

	"backuppull.io/blobstore"
	"backuppull.io/holder"
)

// InMemory is a blobstore.Store that keeps blobs in a map, keyed by a
// blake2 content hash, and streams them back split into pieces of
// ChunkSize bytes (the last piece usually shorter), to exercise the
// frame packer's handling of arbitrary chunk boundaries.
type InMemory struct {
	// ChunkSize controls how finely Get splits stored content before
	// writing it to the queue. Defaults to 4096 if zero.
	ChunkSize int

	mu     sync.Mutex
	blobs  map[holder.Holder][]byte
	faults map[holder.Holder]fault
}

type fault struct {
	after int
	err   error
}

var _ blobstore.Store = (*InMemory)(nil)

// Put stores content and returns its content-addressed Holder.
func (m *InMemory) Put(content []byte) holder.Holder {
	h := Hash(content)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blobs == nil {
		m.blobs = make(map[holder.Holder][]byte)
	}
	m.blobs[h] = content
	return h
}

// FailAfter makes a subsequent Get for h return content up to the
// given byte offset, then fail with err instead of reaching EOF. It
// is used to exercise the blob-store-error testable property (P4/
// scenario 5 in spec.md).
func (m *InMemory) FailAfter(h holder.Holder, after int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.faults == nil {
		m.faults = make(map[holder.Holder]fault)
	}
	m.faults[h] = fault{after: after, err: err}
}

// Get implements blobstore.Store.
func (m *InMemory) Get(ctx context.Context, h holder.Holder) (blobstore.ChunkReader, error) {
	m.mu.Lock()
	content, ok := m.blobs[h]
	f, hasFault := m.faults[h]
	m.mu.Unlock()
	if !ok && !h.IsEmpty() {
		return nil, fmt.Errorf("blobmock: holder %v not found", h)
	}

	size := m.ChunkSize
	if size <= 0 {
		size = 4096
	}
	r := &chunkReader{content: content, chunkSize: size, failAt: -1}
	if hasFault {
		r.failAt = f.after
		r.failErr = f.err
	}
	return r, nil
}

type chunkReader struct {
	content []byte
	off     int

	chunkSize int
	failAt    int
	failErr   error
}

func (r *chunkReader) Recv() ([]byte, error) {
	if r.failAt >= 0 && r.off >= r.failAt {
		return nil, r.failErr
	}
	if r.off >= len(r.content) {
		return nil, io.EOF
	}
	end := r.off + r.chunkSize
	if end > len(r.content) {
		end = len(r.content)
	}
	if r.failAt >= 0 && end > r.failAt {
		end = r.failAt
	}
	chunk := r.content[r.off:end]
	r.off = end
	return chunk, nil
}

// Hash derives the content-addressed Holder for content, the same
// blake2 family the reference server uses for its CAS keys
// (cas/chunks/chunkutil.Hash), simplified: no tree/fanout
// personalization, since this store has no pointer-chunk tree.
func Hash(content []byte) holder.Holder {
	if len(content) == 0 {
		return holder.Empty
	}
	config := &blake2.Config{Size: holder.Size}
	h := blake2.New(config)
	_, _ = h.Write(content)
	return holder.New(h.Sum(nil))
}
