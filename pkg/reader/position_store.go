package reader

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketPositions = []byte("file_positions") // Path -> Offset

// boltPositionStore implements PositionStore using BoltDB. It owns the
// database lifecycle: Close closes the underlying DB.
type boltPositionStore struct {
	db *bolt.DB
}

// NewBoltPositionStore opens (creating if necessary) a BoltDB file at
// path and returns a position store persisted in it. Follow runs
// pointed at the same store resume from where the previous run left
// off.
func NewBoltPositionStore(path string) (PositionStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open positions db: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketPositions)
		return createErr
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create positions bucket: %w", err)
	}

	return &boltPositionStore{db: db}, nil
}

// GetPosition implements PositionStore.GetPosition.
func (s *boltPositionStore) GetPosition(path string) (int64, error) {
	var offset int64

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketPositions).Get([]byte(path))
		if data == nil {
			offset = 0
			return nil
		}
		if len(data) != 8 {
			return fmt.Errorf("corrupt offset for %s: %d bytes", path, len(data))
		}
		offset = int64(binary.BigEndian.Uint64(data))
		return nil
	})
	if err != nil {
		return 0, err
	}

	return offset, nil
}

// SetPosition implements PositionStore.SetPosition.
func (s *boltPositionStore) SetPosition(path string, offset int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		var data [8]byte
		binary.BigEndian.PutUint64(data[:], uint64(offset))
		return tx.Bucket(bucketPositions).Put([]byte(path), data[:])
	})
}

// Close implements PositionStore.Close.
func (s *boltPositionStore) Close() error {
	return s.db.Close()
}

// memoryPositionStore implements PositionStore with an in-memory map.
// The default for one-off follow runs, and useful for testing.
type memoryPositionStore struct {
	mu        sync.RWMutex
	positions map[string]int64
}

// NewMemoryPositionStore creates a position store without persistence.
func NewMemoryPositionStore() PositionStore {
	return &memoryPositionStore{
		positions: make(map[string]int64),
	}
}

// GetPosition implements PositionStore.GetPosition.
func (s *memoryPositionStore) GetPosition(path string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positions[path], nil
}

// SetPosition implements PositionStore.SetPosition.
func (s *memoryPositionStore) SetPosition(path string, offset int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[path] = offset
	return nil
}

// Close implements PositionStore.Close.
func (s *memoryPositionStore) Close() error {
	return nil
}
