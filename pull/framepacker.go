package pull

import "fmt"

// ErrChunkTooLarge is returned when a chunk handed to PrepareFrame
// already exceeds the frame size cap on its own.
var ErrChunkTooLarge = fmt.Errorf("pull: received data chunk bigger than the chunk limit")

// errBadChunkCalc guards against a stash computation going negative,
// which would otherwise panic on the slice below it.
var errBadChunkCalc = fmt.Errorf("pull: new data chunk incorrectly calculated")

// FramePacker accumulates chunk bytes and metadata padding into
// frames no larger than chunkLimit, stashing any overflow for the
// next call. It carries no knowledge of compaction vs. log phases;
// the reactor decides what padding and chunk to offer it.
type FramePacker struct {
	chunkLimit int
	buffer     []byte
}

// NewFramePacker returns a packer capped at chunkLimit bytes per
// frame.
func NewFramePacker(chunkLimit int) *FramePacker {
	return &FramePacker{chunkLimit: chunkLimit}
}

// take returns and clears the stashed buffer. Every read of the
// stash goes through take so there is exactly one place that decides
// the buffer has been consumed.
func (p *FramePacker) take() []byte {
	buf := p.buffer
	p.buffer = nil
	return buf
}

// HasStash reports whether a previous PrepareFrame call left bytes
// behind that haven't been emitted yet.
func (p *FramePacker) HasStash() bool {
	return len(p.buffer) > 0
}

// StashLen returns how many bytes are currently stashed.
func (p *FramePacker) StashLen() int {
	return len(p.buffer)
}

// TakeBuffer flushes and returns the stash directly, bypassing
// PrepareFrame's padding accounting. Callers use this at a phase
// boundary, where the stashed bytes are known to already fit within
// the limit and no further metadata needs to ride along.
func (p *FramePacker) TakeBuffer() []byte {
	return p.take()
}

// PrepareFrame combines the stashed bytes with chunk, reserves room
// for padding (out-of-band metadata such as backup_id or log_id that
// will ride in the same frame), and returns a slice no larger than
// chunkLimit. Any overflow is stashed for the next call.
func (p *FramePacker) PrepareFrame(chunk []byte, padding int) ([]byte, error) {
	if len(chunk) > p.chunkLimit {
		return nil, ErrChunkTooLarge
	}
	combined := append(p.take(), chunk...)
	realSize := len(combined) + padding
	if realSize <= p.chunkLimit {
		return combined, nil
	}
	cut := realSize - p.chunkLimit
	if cut < 0 || cut > len(combined) {
		return nil, errBadChunkCalc
	}
	keep := len(combined) - cut
	p.buffer = append([]byte(nil), combined[keep:]...)
	combined = combined[:keep]
	if len(combined) > p.chunkLimit {
		return nil, errBadChunkCalc
	}
	return combined, nil
}
