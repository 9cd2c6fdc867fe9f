// Package wire holds the BoltDB-persisted encoding of backup and log
// records, in the same proto.Marshal/proto.Unmarshal style the
// reference server uses for its own bucket values (see
// db/volumeStorage.go's use of db/wire.VolumeStorage).
package wire

import "github.com/golang/protobuf/proto"

// BackupRecord is the persisted form of metadata.BackupRecord.
type BackupRecord struct {
	UserId            string `protobuf:"bytes,1,opt,name=user_id,json=userId" json:"user_id,omitempty"`
	BackupId          string `protobuf:"bytes,2,opt,name=backup_id,json=backupId" json:"backup_id,omitempty"`
	CompactionHolder  []byte `protobuf:"bytes,3,opt,name=compaction_holder,json=compactionHolder,proto3" json:"compaction_holder,omitempty"`
	AttachmentHolders string `protobuf:"bytes,4,opt,name=attachment_holders,json=attachmentHolders" json:"attachment_holders,omitempty"`
}

func (m *BackupRecord) Reset()         { *m = BackupRecord{} }
func (m *BackupRecord) String() string { return proto.CompactTextString(m) }
func (*BackupRecord) ProtoMessage()    {}

// LogRecord is the persisted form of metadata.LogRecord.
type LogRecord struct {
	LogId             string `protobuf:"bytes,1,opt,name=log_id,json=logId" json:"log_id,omitempty"`
	BackupId          string `protobuf:"bytes,2,opt,name=backup_id,json=backupId" json:"backup_id,omitempty"`
	AttachmentHolders string `protobuf:"bytes,3,opt,name=attachment_holders,json=attachmentHolders" json:"attachment_holders,omitempty"`
	PersistedInBlob   bool   `protobuf:"varint,4,opt,name=persisted_in_blob,json=persistedInBlob,proto3" json:"persisted_in_blob,omitempty"`
	Value             []byte `protobuf:"bytes,5,opt,name=value,proto3" json:"value,omitempty"`
	BlobHolder        []byte `protobuf:"bytes,6,opt,name=blob_holder,json=blobHolder,proto3" json:"blob_holder,omitempty"`
	CreatedAt         int64  `protobuf:"varint,7,opt,name=created_at,json=createdAt,proto3" json:"created_at,omitempty"`
}

func (m *LogRecord) Reset()         { *m = LogRecord{} }
func (m *LogRecord) String() string { return proto.CompactTextString(m) }
func (*LogRecord) ProtoMessage()    {}
