// Package blobgrpc implements blobstore.Store over a gRPC connection
// to the (out-of-scope) blob store service, following the client
// streaming pattern kv/kvpeer.KVPeer uses for its ObjectGet calls.
package blobgrpc

import (
	"context"
	"io"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"backuppull.io/backuppb"
	"backuppull.io/blobstore"
	"backuppull.io/holder"
)

// Client is a blobstore.Store backed by a dialed gRPC connection.
type Client struct {
	rpc backuppb.BackupBlobClient
}

var _ blobstore.Store = (*Client)(nil)

// New wraps rpc as a blobstore.Store.
func New(rpc backuppb.BackupBlobClient) *Client {
	return &Client{rpc: rpc}
}

// Get implements blobstore.Store.
func (c *Client) Get(ctx context.Context, h holder.Holder) (blobstore.ChunkReader, error) {
	stream, err := c.rpc.BlobGet(ctx, &backuppb.BlobGetRequest{Holder: h.Bytes()})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, &blobstore.NotFoundError{Holder: h}
		}
		return nil, err
	}
	return &chunkReader{stream: stream}, nil
}

type chunkReader struct {
	stream backuppb.BackupBlob_BlobGetClient
}

func (r *chunkReader) Recv() ([]byte, error) {
	resp, err := r.stream.Recv()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
