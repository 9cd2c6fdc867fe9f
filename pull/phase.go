package pull

import "backuppull.io/blobstore"

// phase is a sealed tagged union over the reactor's position in the
// pull: all implementers live in this package, so a type switch over
// phase can never hit an "unreachable" default at runtime without it
// actually being a bug.
type phase interface {
	isPhase()
}

// initPhase is the reactor's state before Initialize has run.
type initPhase struct{}

func (*initPhase) isPhase() {}

// compactionPhase streams the backup's compaction blob. source is nil
// until the first WriteResponse call starts the fetch.
type compactionPhase struct {
	source *blobstore.ChunkSource
}

func (*compactionPhase) isPhase() {}

// logsPhase streams the backup's log records in order. index is the
// position of the log currently being served (or about to be, once
// reading starts); current is true while mid-way through reading
// that log's payload.
type logsPhase struct {
	index      int
	current    bool
	source     *blobstore.ChunkSource
	endOfQueue bool
}

func (*logsPhase) isPhase() {}

// donePhase is terminal: every frame has been produced and the stream
// should close.
type donePhase struct{}

func (*donePhase) isPhase() {}
