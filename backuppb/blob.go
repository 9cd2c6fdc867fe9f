package backuppb

import (
	"context"

	"github.com/golang/protobuf/proto"
	"google.golang.org/grpc"
)

// BlobGetRequest identifies a blob by its content holder.
type BlobGetRequest struct {
	Holder []byte `protobuf:"bytes,1,opt,name=holder,proto3" json:"holder,omitempty"`
}

func (m *BlobGetRequest) Reset()         { *m = BlobGetRequest{} }
func (m *BlobGetRequest) String() string { return proto.CompactTextString(m) }
func (*BlobGetRequest) ProtoMessage()    {}

// BlobGetResponse is one arbitrary-size piece of the requested blob.
type BlobGetResponse struct {
	Data []byte `protobuf:"bytes,1,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *BlobGetResponse) Reset()         { *m = BlobGetResponse{} }
func (m *BlobGetResponse) String() string { return proto.CompactTextString(m) }
func (*BlobGetResponse) ProtoMessage()    {}

// BackupBlob_BlobGetClient is the client-side stream handle for
// BlobGet, in the same shape as the reference server's generated
// wire.Peer_ObjectGetClient.
type BackupBlob_BlobGetClient interface {
	Recv() (*BlobGetResponse, error)
	grpc.ClientStream
}

type backupBlobBlobGetClient struct {
	grpc.ClientStream
}

func (x *backupBlobBlobGetClient) Recv() (*BlobGetResponse, error) {
	m := new(BlobGetResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// BackupBlobClient is the out-of-scope blob store's RPC surface, as
// seen by this service: it is dialed, never served, by backup-pulld.
type BackupBlobClient interface {
	BlobGet(ctx context.Context, in *BlobGetRequest, opts ...grpc.CallOption) (BackupBlob_BlobGetClient, error)
}

type backupBlobClient struct {
	cc *grpc.ClientConn
}

// NewBackupBlobClient returns a client for the blob store reachable
// over cc.
func NewBackupBlobClient(cc *grpc.ClientConn) BackupBlobClient {
	return &backupBlobClient{cc}
}

func (c *backupBlobClient) BlobGet(ctx context.Context, in *BlobGetRequest, opts ...grpc.CallOption) (BackupBlob_BlobGetClient, error) {
	stream, err := c.cc.NewStream(ctx, &_BackupBlob_serviceDesc.Streams[0], "/backuppull.BackupBlob/BlobGet", opts...)
	if err != nil {
		return nil, err
	}
	x := &backupBlobBlobGetClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

var _BackupBlob_serviceDesc = grpc.ServiceDesc{
	ServiceName: "backuppull.BackupBlob",
	HandlerType: (*BackupBlobClient)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "BlobGet",
			ServerStreams: true,
			ClientStreams: false,
		},
	},
	Metadata: "backuppull.proto",
}
