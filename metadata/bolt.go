package metadata

import (
	"context"
	"encoding/binary"
	"os"

	"github.com/boltdb/bolt"
	"github.com/golang/protobuf/proto"

	"backuppull.io/holder"
	"backuppull.io/metadata/wire"
)

const (
	bucketBackups = "backups"
	bucketLogs    = "logs"
)

// BoltStore is a Store backed by a BoltDB file, following the
// DB/Tx wrapper shape of db/db.go: one bucket tree per entity kind,
// opened and bootstrapped once at Open time.
type BoltStore struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the BoltDB file at path and
// ensures its top-level buckets exist, mirroring db.Open's
// idempotent db.init.
func Open(path string, mode os.FileMode) (*BoltStore, error) {
	db, err := bolt.Open(path, mode, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketBackups)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketLogs)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// Close releases the underlying BoltDB file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BoltStore)(nil)

// PutBackup stores (or replaces) a backup record. It exists for
// seeding data; the pull pipeline itself only reads.
func (s *BoltStore) PutBackup(rec BackupRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		users, err := tx.Bucket([]byte(bucketBackups)).CreateBucketIfNotExists([]byte(rec.UserID))
		if err != nil {
			return err
		}
		msg := &wire.BackupRecord{
			UserId:            rec.UserID,
			BackupId:          rec.BackupID,
			CompactionHolder:  rec.CompactionHolder.Bytes(),
			AttachmentHolders: rec.AttachmentHolders,
		}
		buf, err := proto.Marshal(msg)
		if err != nil {
			return err
		}
		return users.Put([]byte(rec.BackupID), buf)
	})
}

// AppendLog appends a log record under its backup. CreatedAt, if
// zero, is assigned as one past the highest existing CreatedAt for
// the backup, so callers that just want "append in call order" don't
// need to track a sequence themselves.
func (s *BoltStore) AppendLog(rec LogRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		logs, err := tx.Bucket([]byte(bucketLogs)).CreateBucketIfNotExists([]byte(rec.BackupID))
		if err != nil {
			return err
		}
		if rec.CreatedAt == 0 {
			if k, _ := logs.Cursor().Last(); k != nil {
				rec.CreatedAt = int64(binary.BigEndian.Uint64(k[:8])) + 1
			} else {
				rec.CreatedAt = 1
			}
		}
		msg := &wire.LogRecord{
			LogId:             rec.LogID,
			BackupId:          rec.BackupID,
			AttachmentHolders: rec.AttachmentHolders,
			PersistedInBlob:   rec.PersistedInBlob,
			Value:             rec.Value,
			BlobHolder:        rec.BlobHolder.Bytes(),
			CreatedAt:         rec.CreatedAt,
		}
		buf, err := proto.Marshal(msg)
		if err != nil {
			return err
		}
		return logs.Put(logKey(rec.CreatedAt, rec.LogID), buf)
	})
}

// logKey builds the composite key that makes bucket iteration order
// equal to (CreatedAt, LogID) ascending, per SPEC_FULL.md §13.
func logKey(createdAt int64, logID string) []byte {
	key := make([]byte, 8+len(logID))
	binary.BigEndian.PutUint64(key[:8], uint64(createdAt))
	copy(key[8:], logID)
	return key
}

// FindBackup implements Store.
func (s *BoltStore) FindBackup(ctx context.Context, userID, backupID string) (*BackupRecord, error) {
	var rec *BackupRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		users := tx.Bucket([]byte(bucketBackups)).Bucket([]byte(userID))
		if users == nil {
			return nil
		}
		buf := users.Get([]byte(backupID))
		if buf == nil {
			return nil
		}
		var msg wire.BackupRecord
		if err := proto.Unmarshal(buf, &msg); err != nil {
			return err
		}
		rec = &BackupRecord{
			UserID:            msg.UserId,
			BackupID:          msg.BackupId,
			CompactionHolder:  decodeHolder(msg.CompactionHolder),
			AttachmentHolders: msg.AttachmentHolders,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindLogs implements Store, iterating the backup's log bucket in key
// order, which is (CreatedAt, LogID) ascending by construction.
func (s *BoltStore) FindLogs(ctx context.Context, backupID string) ([]LogRecord, error) {
	var logs []LogRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketLogs)).Bucket([]byte(backupID))
		if bucket == nil {
			return nil
		}
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var msg wire.LogRecord
			if err := proto.Unmarshal(v, &msg); err != nil {
				return err
			}
			logs = append(logs, LogRecord{
				LogID:             msg.LogId,
				BackupID:          msg.BackupId,
				AttachmentHolders: msg.AttachmentHolders,
				PersistedInBlob:   msg.PersistedInBlob,
				Value:             msg.Value,
				BlobHolder:        decodeHolder(msg.BlobHolder),
				CreatedAt:         msg.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func decodeHolder(b []byte) holder.Holder {
	if len(b) == 0 {
		return holder.Empty
	}
	return holder.New(b)
}
