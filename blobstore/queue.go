package blobstore

// Capacity is the fixed size of a ChunkQueue, bounding how much of a
// slow consumer's backlog a single call can hold in memory.
const Capacity = 100

// ChunkQueue is a bounded, thread-safe FIFO of byte chunks shared
// between one ChunkSource (producer) and one Reactor (consumer). The
// zero-length chunk is reserved as the end-of-blob sentinel.
//
// In practice it is always used 1-producer/1-consumer; it is built on
// a buffered channel, which is safe for any number of each.
type ChunkQueue struct {
	ch chan []byte
}

// NewChunkQueue returns a ChunkQueue with the spec-mandated capacity.
func NewChunkQueue() *ChunkQueue {
	return &ChunkQueue{ch: make(chan []byte, Capacity)}
}

// BlockingWrite enqueues a chunk, blocking if the queue is full.
func (q *ChunkQueue) BlockingWrite(chunk []byte) {
	q.ch <- chunk
}

// BlockingRead dequeues the next chunk, blocking if the queue is
// empty.
func (q *ChunkQueue) BlockingRead() []byte {
	return <-q.ch
}

// IsEmpty reports whether the queue currently holds no chunks. It is
// meant to be called only once the caller already knows no further
// writes are coming (e.g. after observing the sentinel), since
// otherwise the result is stale the instant it is returned.
func (q *ChunkQueue) IsEmpty() bool {
	return len(q.ch) == 0
}
