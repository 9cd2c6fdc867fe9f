// Package metamock is an in-memory metadata.Store test double,
// following the shape of kv/kvmock.InMemory in the reference server.
package metamock

import (
	"context"
	"sort"

	"backuppull.io/metadata"
)

type backupKey struct {
	userID   string
	backupID string
}

// InMemory is a metadata.Store backed by plain maps. Zero value is
// ready to use.
type InMemory struct {
	Backups map[backupKey]metadata.BackupRecord
	Logs    map[string][]metadata.LogRecord // keyed by BackupID
}

var _ metadata.Store = (*InMemory)(nil)

// AddBackup registers a backup record for its owning user.
func (m *InMemory) AddBackup(rec metadata.BackupRecord) {
	if m.Backups == nil {
		m.Backups = make(map[backupKey]metadata.BackupRecord)
	}
	m.Backups[backupKey{rec.UserID, rec.BackupID}] = rec
}

// AddLog appends a log record under its backup, assigning CreatedAt
// as the next sequence number if the caller left it zero, mirroring
// how a real store stamps arrival order.
func (m *InMemory) AddLog(rec metadata.LogRecord) {
	if m.Logs == nil {
		m.Logs = make(map[string][]metadata.LogRecord)
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = int64(len(m.Logs[rec.BackupID]) + 1)
	}
	m.Logs[rec.BackupID] = append(m.Logs[rec.BackupID], rec)
}

// FindBackup implements metadata.Store.
func (m *InMemory) FindBackup(ctx context.Context, userID, backupID string) (*metadata.BackupRecord, error) {
	rec, ok := m.Backups[backupKey{userID, backupID}]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

// FindLogs implements metadata.Store, returning logs ordered by
// (CreatedAt, LogID) ascending.
func (m *InMemory) FindLogs(ctx context.Context, backupID string) ([]metadata.LogRecord, error) {
	logs := append([]metadata.LogRecord(nil), m.Logs[backupID]...)
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].CreatedAt != logs[j].CreatedAt {
			return logs[i].CreatedAt < logs[j].CreatedAt
		}
		return logs[i].LogID < logs[j].LogID
	})
	return logs, nil
}
