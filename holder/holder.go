// Package holder implements Holder, the opaque content-addressed
// identifier the blob store uses to key blobs.
package holder

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Size of a Holder in bytes.
const Size = 32

// BadSizeError is the error panicked by New when given input of the
// wrong length.
type BadSizeError struct {
	Holder []byte
}

var _ = error(&BadSizeError{})

func (b *BadSizeError) Error() string {
	return fmt.Sprintf("holder is bad length %d: %x", len(b.Holder), b.Holder)
}

// A Holder identifies a blob in the content-addressed blob store.
// Holders are immutable and comparable.
type Holder struct {
	object [Size]byte
}

// String returns a hex encoding of the holder.
func (h Holder) String() string {
	return hex.EncodeToString(h.object[:])
}

// Bytes returns a copy of the holder's byte content.
func (h Holder) Bytes() []byte {
	buf := make([]byte, Size)
	copy(buf, h.object[:])
	return buf
}

// New makes a Holder with the given byte contents.
//
// panics with BadSizeError if len(b) does not match Size.
func New(b []byte) Holder {
	h := Holder{}
	n := copy(h.object[:], b)
	if n != Size || len(b) != Size {
		panic(&BadSizeError{Holder: b})
	}
	return h
}

// FromHex decodes a hex-encoded holder, as produced by String.
func FromHex(s string) (Holder, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Holder{}, err
	}
	if len(b) != Size {
		return Holder{}, &BadSizeError{Holder: b}
	}
	return New(b), nil
}

// Empty is the zero Holder, denoting "no blob" (for example an
// inline-stored log that never touches the blob store).
var Empty = Holder{}

// IsEmpty reports whether h is the zero Holder.
func (h Holder) IsEmpty() bool {
	return bytes.Equal(h.object[:], Empty.object[:])
}
