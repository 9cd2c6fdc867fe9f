package metadata

import "context"

// Store is the contract the core needs from the metadata repository:
// locate a backup and its ordered logs. A nil, nil return from
// FindBackup means "no such backup for that user"; it is not an
// error, letting the caller translate absence to not-found.
type Store interface {
	FindBackup(ctx context.Context, userID, backupID string) (*BackupRecord, error)
	FindLogs(ctx context.Context, backupID string) ([]LogRecord, error)
}
