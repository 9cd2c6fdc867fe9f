// Package metadata is component E: it locates the backup record and
// its ordered log records for a requesting user.
package metadata

import "backuppull.io/holder"

// BackupRecord is identified by (UserID, BackupID).
type BackupRecord struct {
	UserID            string
	BackupID          string
	CompactionHolder  holder.Holder
	AttachmentHolders string
}

// LogRecord belongs to a backup and is ordered within it. When
// PersistedInBlob is true, the log's bytes live in the blob store
// under BlobHolder; otherwise Value holds the inline payload.
//
// CreatedAt resolves spec.md §9's open question on log ordering:
// FindLogs returns logs ordered by (CreatedAt, LogID), both ascending.
// The store assigns CreatedAt at append time when the caller leaves it
// zero; a non-zero value supplied by the caller is kept as given.
type LogRecord struct {
	LogID             string
	BackupID          string
	AttachmentHolders string
	PersistedInBlob   bool
	Value             []byte
	BlobHolder        holder.Holder
	CreatedAt         int64
}
