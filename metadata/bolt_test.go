package metadata_test

import (
	"context"
	"path/filepath"
	"testing"

	"backuppull.io/holder"
	"backuppull.io/metadata"
)

func openTestStore(t *testing.T) *metadata.BoltStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.db")
	store, err := metadata.Open(path, 0600)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreFindBackupNotFound(t *testing.T) {
	store := openTestStore(t)
	rec, err := store.FindBackup(context.Background(), "alice", "b1")
	if err != nil {
		t.Fatalf("FindBackup: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestBoltStorePutAndFindBackup(t *testing.T) {
	store := openTestStore(t)
	want := metadata.BackupRecord{
		UserID:            "alice",
		BackupID:          "b1",
		CompactionHolder:  holder.New(make([]byte, holder.Size)),
		AttachmentHolders: "h1,h2",
	}
	if err := store.PutBackup(want); err != nil {
		t.Fatalf("PutBackup: %v", err)
	}
	got, err := store.FindBackup(context.Background(), "alice", "b1")
	if err != nil {
		t.Fatalf("FindBackup: %v", err)
	}
	if got == nil {
		t.Fatal("expected a record")
	}
	if got.UserID != want.UserID || got.BackupID != want.BackupID || got.AttachmentHolders != want.AttachmentHolders {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got.CompactionHolder != want.CompactionHolder {
		t.Fatalf("holder mismatch: got %v want %v", got.CompactionHolder, want.CompactionHolder)
	}
}

func TestBoltStoreFindLogsOrdering(t *testing.T) {
	store := openTestStore(t)
	// Insert out of order; CreatedAt auto-assigned in call order.
	for _, id := range []string{"log-c", "log-a", "log-b"} {
		if err := store.AppendLog(metadata.LogRecord{LogID: id, BackupID: "b1", Value: []byte(id)}); err != nil {
			t.Fatalf("AppendLog(%s): %v", id, err)
		}
	}
	logs, err := store.FindLogs(context.Background(), "b1")
	if err != nil {
		t.Fatalf("FindLogs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(logs))
	}
	want := []string{"log-c", "log-a", "log-b"}
	for i, w := range want {
		if logs[i].LogID != w {
			t.Fatalf("logs[%d] = %s, want %s", i, logs[i].LogID, w)
		}
	}
}

func TestBoltStoreFindLogsEmpty(t *testing.T) {
	store := openTestStore(t)
	logs, err := store.FindLogs(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("FindLogs: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("expected no logs, got %d", len(logs))
	}
}
