// Package pull implements the server-side pull reactor: given a
// (user id, backup id) request, it streams back one compaction
// artifact followed by zero or more log artifacts as a sequence of
// size-capped frames, reassembled on demand from a content-addressed
// blob store.
package pull

import (
	"context"
	"sync"

	"backuppull.io/blobstore"
	"backuppull.io/metadata"
)

// Wire field names, counted alongside each field's value length when
// a frame's metadata padding is computed: the chunk limit bounds the
// whole frame, field names included, not just the bytes the server
// considers "payload".
const (
	fieldNameBackupID          = "backup_id"
	fieldNameAttachmentHolders = "attachment_holders"
	fieldNameLogID             = "log_id"
)

// Request identifies the backup to pull.
type Request struct {
	UserID   string
	BackupID string
}

// Frame is one unit of the response stream. Fields not relevant to
// the frame being produced are left at their zero value; the wire
// layer (backuppb/pullsvc) is responsible for only encoding the ones
// that are set.
type Frame struct {
	BackupID          string
	AttachmentHolders string
	CompactionChunk   []byte
	LogID             string
	LogChunk          []byte
}

// Reactor drives one pull from start to finish. WriteResponse holds
// the reactor's mutex for the whole call, so concurrent calls are
// serialized. Terminate takes the same mutex, so a Terminate issued
// during an in-flight WriteResponse waits for that call to return; it
// does not interrupt it.
type Reactor struct {
	chunkLimit int
	store      metadata.Store
	blobs      blobstore.Store

	mu     sync.Mutex
	phase  phase
	backup *metadata.BackupRecord
	logs   []metadata.LogRecord
	packer *FramePacker

	previousLogID string

	bytesCompaction int64
	bytesLogs       int64

	terminated     bool
	terminationErr error
}

// New returns a Reactor that packs each blob-backed frame so that its
// chunk plus its metadata field names and values fit in chunkLimit
// bytes. An inline log's value is sent whole in one frame, whatever
// its size.
func New(store metadata.Store, blobs blobstore.Store, chunkLimit int) *Reactor {
	return &Reactor{
		chunkLimit: chunkLimit,
		store:      store,
		blobs:      blobs,
		phase:      &initPhase{},
		packer:     NewFramePacker(chunkLimit),
	}
}

// Initialize validates the request and loads the backup record and
// its ordered logs. It must be called exactly once, before the first
// WriteResponse.
func (r *Reactor) Initialize(ctx context.Context, req Request) error {
	if req.UserID == "" {
		return ErrMissingUserID
	}
	if req.BackupID == "" {
		return ErrMissingBackupID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.phase.(*initPhase); !ok {
		return invariant("Initialize called more than once")
	}

	backup, err := r.store.FindBackup(ctx, req.UserID, req.BackupID)
	if err != nil {
		return err
	}
	if backup == nil {
		return &ErrBackupNotFound{UserID: req.UserID, BackupID: req.BackupID}
	}
	logs, err := r.store.FindLogs(ctx, req.BackupID)
	if err != nil {
		return err
	}

	r.backup = backup
	r.logs = logs
	r.phase = &compactionPhase{}
	return nil
}

// BytesCompaction reports how many compaction-chunk payload bytes
// have been packed into frames so far.
func (r *Reactor) BytesCompaction() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bytesCompaction
}

// BytesLogs reports how many log-chunk payload bytes have been packed
// into frames so far.
func (r *Reactor) BytesLogs() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bytesLogs
}

// WriteResponse produces the next frame. A nil Frame with a nil error
// means the pull is complete and the stream should close normally;
// a nil Frame with a non-nil error means the pull failed and the
// stream should close with that error. A non-nil Frame means there is
// more to send and WriteResponse should be called again.
func (r *Reactor) WriteResponse(ctx context.Context) (*Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.terminated {
		return nil, invariant("WriteResponse called after termination")
	}
	if _, ok := r.phase.(*initPhase); ok {
		return nil, invariant("WriteResponse called before Initialize")
	}

	frame := &Frame{}

	if cp, ok := r.phase.(*compactionPhase); ok {
		done, out, err := r.writeCompaction(ctx, cp, frame)
		if err != nil {
			return nil, err
		}
		if out != nil {
			return out, nil
		}
		if !done {
			return nil, invariant("writeCompaction neither produced a frame nor finished the phase")
		}
		// fall through into logs handling within the same call, as
		// there may be nothing left to wait for before the first log
		// frame is ready.
	}

	if lp, ok := r.phase.(*logsPhase); ok {
		return r.writeLogs(ctx, lp, frame)
	}

	if _, ok := r.phase.(*donePhase); ok {
		return nil, nil
	}

	return nil, invariant("unhandled phase")
}

// writeCompaction handles one WriteResponse call while in
// compactionPhase. done is true once the phase has been fully
// consumed (transitioning r.phase to *logsPhase); out is non-nil when
// a frame should be returned to the caller immediately.
func (r *Reactor) writeCompaction(ctx context.Context, cp *compactionPhase, frame *Frame) (done bool, out *Frame, err error) {
	extra := 0
	frame.BackupID = r.backup.BackupID
	extra += len(fieldNameBackupID) + len(frame.BackupID)

	if cp.source == nil {
		frame.AttachmentHolders = r.backup.AttachmentHolders
		extra += len(fieldNameAttachmentHolders) + len(frame.AttachmentHolders)
		queue := blobstore.NewChunkQueue()
		cp.source = blobstore.StartChunkSource(ctx, r.blobs, r.backup.CompactionHolder, queue)
	}

	var chunk []byte
	if r.packer.StashLen() < r.chunkLimit {
		chunk = cp.source.Read()
	}

	if len(chunk) != 0 || r.packer.StashLen()+extra >= r.chunkLimit {
		packed, err := r.packer.PrepareFrame(chunk, extra)
		if err != nil {
			return false, nil, err
		}
		frame.CompactionChunk = packed
		r.bytesCompaction += int64(len(packed))
		return false, frame, nil
	}

	if !cp.source.QueueEmpty() {
		return false, nil, invariant("dangling data discovered after reading compaction")
	}
	if err := cp.source.Err(); err != nil {
		return false, nil, err
	}

	r.phase = &logsPhase{}
	if r.packer.HasStash() {
		packed := r.packer.TakeBuffer()
		frame.CompactionChunk = packed
		r.bytesCompaction += int64(len(packed))
		return true, frame, nil
	}
	return true, nil, nil
}

// writeLogs handles one WriteResponse call while in logsPhase.
func (r *Reactor) writeLogs(ctx context.Context, lp *logsPhase, frame *Frame) (*Frame, error) {
	if len(r.logs) == 0 {
		r.phase = &donePhase{}
		return nil, nil
	}

	if lp.index == len(r.logs) {
		if !r.packer.HasStash() {
			r.phase = &donePhase{}
			return nil, nil
		}
		frame.LogID = r.previousLogID
		frame.LogChunk = r.packer.TakeBuffer()
		r.bytesLogs += int64(len(frame.LogChunk))
		r.phase = &donePhase{}
		return frame, nil
	}
	if lp.index > len(r.logs) {
		return nil, invariant("log index out of bound")
	}

	current := &r.logs[lp.index]
	extra := 0

	if !lp.current {
		lp.current = true
		extra += len(fieldNameLogID) + len(current.LogID)
		frame.AttachmentHolders = current.AttachmentHolders
		extra += len(fieldNameAttachmentHolders) + len(current.AttachmentHolders)

		if current.PersistedInBlob {
			queue := blobstore.NewChunkQueue()
			lp.source = blobstore.StartChunkSource(ctx, r.blobs, current.BlobHolder, queue)
		} else {
			frame.BackupID = current.BackupID
			frame.LogID = current.LogID
			frame.LogChunk = current.Value
			r.bytesLogs += int64(len(current.Value))
			r.nextLog(lp)
			return frame, nil
		}
	} else {
		extra += len(fieldNameLogID) + len(current.LogID)
	}

	frame.BackupID = current.BackupID
	frame.LogID = current.LogID

	var chunk []byte
	if r.packer.StashLen() < r.chunkLimit && !lp.endOfQueue {
		chunk = lp.source.Read()
	}
	lp.endOfQueue = lp.endOfQueue || len(chunk) == 0

	packed, err := r.packer.PrepareFrame(chunk, extra)
	if err != nil {
		return nil, err
	}
	if lp.endOfQueue {
		if !lp.source.QueueEmpty() {
			return nil, invariant("dangling data discovered after reading logs")
		}
		if err := lp.source.Err(); err != nil {
			return nil, err
		}
	}

	if len(packed) == 0 {
		r.nextLog(lp)
		return frame, nil
	}
	frame.LogChunk = packed
	r.bytesLogs += int64(len(packed))
	return frame, nil
}

// nextLog advances to the next log in sequence, resetting per-log
// state on the phase.
func (r *Reactor) nextLog(lp *logsPhase) {
	r.previousLogID = r.logs[lp.index].LogID
	lp.index++
	lp.current = false
	lp.source = nil
	lp.endOfQueue = false
}

// Terminate signals that the stream is ending, with callErr holding
// whatever outcome the caller (pullsvc) is closing with, and waits
// for any in-flight blob fetch to finish so nothing leaks past the
// call's lifetime. It is idempotent: repeat calls return the first
// computed outcome without waiting again.
//
// Per the no-blocking-calls-while-locked rule, the mutex is released
// before the blocking wait on the active source's Done channel and
// re-acquired only to record the final outcome.
func (r *Reactor) Terminate(callErr error) error {
	r.mu.Lock()
	if r.terminated {
		err := r.terminationErr
		r.mu.Unlock()
		return err
	}

	var source *blobstore.ChunkSource
	switch ph := r.phase.(type) {
	case *compactionPhase:
		source = ph.source
	case *logsPhase:
		source = ph.source
	}
	r.mu.Unlock()

	if source != nil {
		<-source.Done.Chan
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.terminated {
		return r.terminationErr
	}

	result := callErr
	if result == nil && source != nil {
		result = source.Err()
	}
	r.terminated = true
	r.terminationErr = result
	return result
}
