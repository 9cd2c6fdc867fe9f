package holder_test

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"backuppull.io/holder"
)

func TestEmpty(t *testing.T) {
	buf := make([]byte, holder.Size)
	h := holder.New(buf)
	if g, e := h, holder.Empty; g != e {
		t.Errorf("not Empty: %q != %q", g, e)
	}
	if g, e := h.String(), strings.Repeat("00", holder.Size); g != e {
		t.Errorf("bad holder: %q != %q", g, e)
	}
	if !h.IsEmpty() {
		t.Error("expected IsEmpty")
	}
}

func TestSimple(t *testing.T) {
	buf := bytes.Repeat([]byte("borkBORK"), 4)
	h := holder.New(buf)
	if g, e := h.String(), hex.EncodeToString(buf); g != e {
		t.Errorf("bad holder: %q != %q", g, e)
	}
	if h.IsEmpty() {
		t.Error("did not expect IsEmpty")
	}
}

func TestBytes(t *testing.T) {
	buf := bytes.Repeat([]byte("borkBORK"), 4)
	h := holder.New(buf)
	if g, e := h.Bytes(), buf; !bytes.Equal(g, e) {
		t.Errorf("unexpected holder data: %x %x", g, e)
	}
}

func TestBadSize(t *testing.T) {
	buf := []byte("tooshort")
	defer func() {
		x := recover()
		switch i := x.(type) {
		case nil:
			t.Error("expected panic")
		case *holder.BadSizeError:
			if g, e := i.Error(), "holder is bad length 8: 746f6f73686f7274"; g != e {
				t.Errorf("bad error message: %q != %q", g, e)
			}
		default:
			t.Errorf("expected BadSizeError: %v", x)
		}
	}()
	_ = holder.New(buf)
}

func TestFromHexRoundTrip(t *testing.T) {
	buf := bytes.Repeat([]byte("borkBORK"), 4)
	h := holder.New(buf)
	h2, err := holder.FromHex(h.String())
	if err != nil {
		t.Fatalf("FromHex: %v", err)
	}
	if h != h2 {
		t.Errorf("round trip mismatch: %v != %v", h, h2)
	}
}
