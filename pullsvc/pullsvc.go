// Package pullsvc adapts a pull.Reactor to the backuppb gRPC
// service: it drives WriteResponse in a loop, sends each frame on the
// wire, and translates pull's sentinel errors to grpc status codes.
// The pull package itself stays free of any gRPC or protobuf
// dependency; this package is where that boundary is crossed.
package pullsvc

import (
	"context"

	"github.com/tv42/jog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"backuppull.io/backuppb"
	"backuppull.io/blobstore"
	"backuppull.io/metadata"
	"backuppull.io/pull"
)

// callEvent is the event logged once per call, via tv42/jog, the way
// the reference server's cli hooks fuse's debug log to jog.
type callEvent struct {
	Op              string
	UserId          string
	BackupId        string
	Frames          int
	BytesCompaction int64
	BytesLogs       int64
	Err             string `json:",omitempty"`
}

// Server implements backuppb.BackupPullServer. ChunkLimit bounds the
// size of every blob-backed frame it sends, metadata included; an
// inline log's value is sent whole in one frame.
type Server struct {
	Store      metadata.Store
	Blobs      blobstore.Store
	ChunkLimit int
	Log        *jog.Logger
}

// New returns a Server ready to register against a *grpc.Server via
// backuppb.RegisterBackupPullServer.
func New(store metadata.Store, blobs blobstore.Store, chunkLimit int) *Server {
	return &Server{
		Store:      store,
		Blobs:      blobs,
		ChunkLimit: chunkLimit,
		Log:        jog.New(nil),
	}
}

var _ backuppb.BackupPullServer = (*Server)(nil)

// PullBackup implements backuppb.BackupPullServer.
func (s *Server) PullBackup(req *backuppb.PullBackupRequest, stream backuppb.BackupPull_PullBackupServer) error {
	ctx := stream.Context()
	reactor := pull.New(s.Store, s.Blobs, s.ChunkLimit)

	ev := callEvent{Op: "PullBackup", UserId: req.UserId, BackupId: req.BackupId}
	callErr := s.run(ctx, reactor, req, stream, &ev)
	if err := reactor.Terminate(callErr); err != nil && callErr == nil {
		callErr = err
	}
	if callErr != nil {
		ev.Err = callErr.Error()
	}
	ev.BytesCompaction = reactor.BytesCompaction()
	ev.BytesLogs = reactor.BytesLogs()
	s.Log.Event(ev)
	return toStatus(callErr)
}

func (s *Server) run(ctx context.Context, reactor *pull.Reactor, req *backuppb.PullBackupRequest, stream backuppb.BackupPull_PullBackupServer, ev *callEvent) error {
	pullReq := pull.Request{UserID: req.UserId, BackupID: req.BackupId}
	if err := reactor.Initialize(ctx, pullReq); err != nil {
		return err
	}
	for {
		frame, err := reactor.WriteResponse(ctx)
		if err != nil {
			return err
		}
		if frame == nil {
			return nil
		}
		ev.Frames++
		if err := stream.Send(frameToWire(frame)); err != nil {
			return err
		}
	}
}

func frameToWire(f *pull.Frame) *backuppb.PullBackupResponse {
	return &backuppb.PullBackupResponse{
		BackupId:          f.BackupID,
		AttachmentHolders: f.AttachmentHolders,
		CompactionChunk:   f.CompactionChunk,
		LogId:             f.LogID,
		LogChunk:          f.LogChunk,
	}
}

// toStatus maps a pull package error to a grpc status error.
// Everything pull doesn't have a specific sentinel for is treated as
// an internal error; its message is not echoed to the caller.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	switch err {
	case pull.ErrMissingUserID, pull.ErrMissingBackupID:
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if _, ok := err.(*pull.ErrBackupNotFound); ok {
		return status.Error(codes.NotFound, err.Error())
	}
	if _, ok := err.(*pull.InvariantViolation); ok {
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(codes.Internal, "internal error")
}
