// Package backuppb holds the wire messages and gRPC service
// registration for the backup pull RPC. Message types are hand-
// written in the classic protoc-gen-go style (struct tags plus
// Reset/String/ProtoMessage) rather than generated, the same pattern
// metadata/wire uses for its BoltDB encoding.
package backuppb

import (
	"context"

	"github.com/golang/protobuf/proto"
	"google.golang.org/grpc"
)

// PullBackupRequest identifies the backup to pull.
type PullBackupRequest struct {
	UserId   string `protobuf:"bytes,1,opt,name=user_id,json=userId" json:"user_id,omitempty"`
	BackupId string `protobuf:"bytes,2,opt,name=backup_id,json=backupId" json:"backup_id,omitempty"`
}

func (m *PullBackupRequest) Reset()         { *m = PullBackupRequest{} }
func (m *PullBackupRequest) String() string { return proto.CompactTextString(m) }
func (*PullBackupRequest) ProtoMessage()    {}

// PullBackupResponse is one frame of the pull stream. Empty string
// and nil byte slice fields are simply not meaningful for the frame
// that carried them; the server never sends a frame with every field
// empty.
type PullBackupResponse struct {
	BackupId          string `protobuf:"bytes,1,opt,name=backup_id,json=backupId" json:"backup_id,omitempty"`
	AttachmentHolders string `protobuf:"bytes,2,opt,name=attachment_holders,json=attachmentHolders" json:"attachment_holders,omitempty"`
	CompactionChunk   []byte `protobuf:"bytes,3,opt,name=compaction_chunk,json=compactionChunk,proto3" json:"compaction_chunk,omitempty"`
	LogId             string `protobuf:"bytes,4,opt,name=log_id,json=logId" json:"log_id,omitempty"`
	LogChunk          []byte `protobuf:"bytes,5,opt,name=log_chunk,json=logChunk,proto3" json:"log_chunk,omitempty"`
}

func (m *PullBackupResponse) Reset()         { *m = PullBackupResponse{} }
func (m *PullBackupResponse) String() string { return proto.CompactTextString(m) }
func (*PullBackupResponse) ProtoMessage()    {}

// BackupPull_PullBackupServer is the server-side stream handle for
// the PullBackup RPC, matching the Send/Context shape the reference
// server's generated wire.Peer_VolumeSyncPullServer exposes.
type BackupPull_PullBackupServer interface {
	Send(*PullBackupResponse) error
	Context() context.Context
	grpc.ServerStream
}

type backupPullPullBackupServer struct {
	grpc.ServerStream
}

func (s *backupPullPullBackupServer) Send(resp *PullBackupResponse) error {
	return s.ServerStream.SendMsg(resp)
}

// BackupPullServer is implemented by the RPC handler registered
// against a *grpc.Server.
type BackupPullServer interface {
	PullBackup(*PullBackupRequest, BackupPull_PullBackupServer) error
}

func _BackupPull_PullBackup_Handler(srv interface{}, stream grpc.ServerStream) error {
	req := new(PullBackupRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(BackupPullServer).PullBackup(req, &backupPullPullBackupServer{stream})
}

var _BackupPull_serviceDesc = grpc.ServiceDesc{
	ServiceName: "backuppull.BackupPull",
	HandlerType: (*BackupPullServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "PullBackup",
			Handler:       _BackupPull_PullBackup_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "backuppull.proto",
}

// RegisterBackupPullServer registers srv as the handler for the
// BackupPull service on s.
func RegisterBackupPullServer(s *grpc.Server, srv BackupPullServer) {
	s.RegisterService(&_BackupPull_serviceDesc, srv)
}
