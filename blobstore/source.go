package blobstore

import (
	"context"
	"io"

	"github.com/glycerine/idem"

	"backuppull.io/holder"
)

// ChunkSource is component A: it pulls one blob from a Store and
// publishes its bytes, in arbitrary-size chunks, onto a shared
// ChunkQueue, then records its terminal status, publishes one
// empty-chunk sentinel, and closes Done.
//
// At most one ChunkSource is active per call (spec.md §3 invariant);
// callers are expected to let one run to completion (observed via
// Done) before starting the next.
type ChunkSource struct {
	queue  *ChunkQueue
	status *StatusHolder

	// Done is closed exactly once, when the source has written its
	// sentinel and recorded its terminal status. It is the one-shot
	// completion signal the termination coordinator (component F)
	// waits on.
	Done *idem.IdemCloseChan
}

// StartChunkSource starts pulling holder h from store, writing chunks
// to queue, and returns immediately; the pull runs in its own
// goroutine.
func StartChunkSource(ctx context.Context, store Store, h holder.Holder, queue *ChunkQueue) *ChunkSource {
	s := &ChunkSource{
		queue:  queue,
		status: &StatusHolder{state: Running},
		Done:   idem.NewIdemCloseChan(),
	}
	go s.run(ctx, store, h)
	return s
}

func (s *ChunkSource) run(ctx context.Context, store Store, h holder.Holder) {
	reader, err := store.Get(ctx, h)
	if err == nil {
		err = pump(reader, s.queue)
	}
	// status must be recorded before the sentinel is sent: the channel
	// send is what gives a consumer blocked in Read a happens-before
	// guarantee, and that guarantee only covers writes made before it.
	s.status.setDone(err)
	s.queue.BlockingWrite(nil)
	s.Done.Close()
}

func pump(reader ChunkReader, queue *ChunkQueue) error {
	for {
		chunk, err := reader.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(chunk) == 0 {
			// a store that itself emits a zero-length piece mid-stream
			// contributes nothing; only ChunkSource's own sentinel
			// signals end-of-blob to the consumer.
			continue
		}
		queue.BlockingWrite(chunk)
	}
}

// Status returns the source's lifecycle/outcome holder.
func (s *ChunkSource) Status() *StatusHolder {
	return s.status
}

// Read blocks for the next chunk off the source's queue. It returns a
// nil/empty slice for the end-of-blob sentinel.
func (s *ChunkSource) Read() []byte {
	return s.queue.BlockingRead()
}

// QueueEmpty reports whether the source's queue currently holds no
// unread chunks. It is only meaningful once the source is known Done.
func (s *ChunkSource) QueueEmpty() bool {
	return s.queue.IsEmpty()
}

// Err returns the source's terminal error, or nil on success. It is
// only meaningful once the source is known Done.
func (s *ChunkSource) Err() error {
	return s.status.Err()
}
