// Package blobstore holds the contract the core consumes from the
// content-addressed blob store client (out of scope per spec.md §1),
// and the chunk source / chunk queue it drives (components A and B).
package blobstore

import (
	"context"
	"fmt"

	"backuppull.io/holder"
)

// Store is the contract the core needs from the blob store client: an
// asynchronous, chunked read of a blob by its Holder, terminated by
// EOF from the returned ChunkReader.
//
// A real implementation dials the blob store's network service; see
// blobmock for an in-memory stand-in used by tests.
type Store interface {
	Get(ctx context.Context, h holder.Holder) (ChunkReader, error)
}

// ChunkReader is an open read of one blob. Recv returns the blob's
// bytes in arbitrary-size pieces, not necessarily aligned with the
// frame cap, returning io.EOF once the blob is exhausted.
type ChunkReader interface {
	Recv() ([]byte, error)
}

// NotFoundError is returned by a Store.Get implementation when no
// blob exists under the given holder.
type NotFoundError struct {
	Holder holder.Holder
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("blobstore: holder %v not found", e.Holder)
}
