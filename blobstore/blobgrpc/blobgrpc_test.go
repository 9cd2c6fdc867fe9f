package blobgrpc_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"backuppull.io/backuppb"
	"backuppull.io/blobstore"
	"backuppull.io/blobstore/blobgrpc"
	"backuppull.io/holder"
)

// fakeBlobGetClient is a minimal backuppb.BackupBlob_BlobGetClient that
// replays a fixed sequence of chunks, without a real connection.
type fakeBlobGetClient struct {
	chunks [][]byte
	idx    int
}

func (f *fakeBlobGetClient) Recv() (*backuppb.BlobGetResponse, error) {
	if f.idx >= len(f.chunks) {
		return nil, io.EOF
	}
	data := f.chunks[f.idx]
	f.idx++
	return &backuppb.BlobGetResponse{Data: data}, nil
}

func (f *fakeBlobGetClient) Header() (metadata.MD, error) { return nil, nil }
func (f *fakeBlobGetClient) Trailer() metadata.MD          { return nil }
func (f *fakeBlobGetClient) CloseSend() error              { return nil }
func (f *fakeBlobGetClient) Context() context.Context      { return context.Background() }
func (f *fakeBlobGetClient) SendMsg(m interface{}) error    { return nil }
func (f *fakeBlobGetClient) RecvMsg(m interface{}) error    { return nil }

// fakeBackupBlobClient hands out a canned stream or a canned error,
// keyed by the request holder, standing in for a dialed *grpc.ClientConn.
type fakeBackupBlobClient struct {
	byHolder map[string][][]byte
	notFound map[string]bool
}

func (c *fakeBackupBlobClient) BlobGet(ctx context.Context, in *backuppb.BlobGetRequest, opts ...grpc.CallOption) (backuppb.BackupBlob_BlobGetClient, error) {
	key := string(in.Holder)
	if c.notFound[key] {
		return nil, status.Error(codes.NotFound, "no such blob")
	}
	chunks, ok := c.byHolder[key]
	if !ok {
		return nil, errors.New("fake: unexpected holder requested")
	}
	return &fakeBlobGetClient{chunks: chunks}, nil
}

func TestClientGetForwardsChunks(t *testing.T) {
	h := holder.New([]byte("01234567890123456789012345678901"))
	rpc := &fakeBackupBlobClient{byHolder: map[string][][]byte{
		string(h.Bytes()): {[]byte("hello "), []byte("world")},
	}}
	c := blobgrpc.New(rpc)

	reader, err := c.Get(context.Background(), h)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	var got []byte
	for {
		chunk, err := reader.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		got = append(got, chunk...)
	}
	if string(got) != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}

func TestClientGetTranslatesNotFound(t *testing.T) {
	h := holder.New([]byte("01234567890123456789012345678901"))
	rpc := &fakeBackupBlobClient{notFound: map[string]bool{string(h.Bytes()): true}}
	c := blobgrpc.New(rpc)

	_, err := c.Get(context.Background(), h)
	var nf *blobstore.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want *blobstore.NotFoundError", err)
	}
	if nf.Holder != h {
		t.Fatalf("got holder %v, want %v", nf.Holder, h)
	}
}

func TestClientGetPropagatesOtherErrors(t *testing.T) {
	h := holder.New([]byte("01234567890123456789012345678901"))
	rpc := &fakeBackupBlobClient{}
	c := blobgrpc.New(rpc)

	_, err := c.Get(context.Background(), h)
	if err == nil {
		t.Fatal("expected an error for an unconfigured holder")
	}
	var nf *blobstore.NotFoundError
	if errors.As(err, &nf) {
		t.Fatal("did not expect a NotFoundError for this failure")
	}
}
