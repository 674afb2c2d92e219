package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cinepedia/cinepedia/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketCatalog  = []byte("catalog")
	bucketProfile  = []byte("profile")
	bucketSettings = []byte("settings")
)

// Keys kept from the browser-storage layout. The catalog key is versioned so
// a schema change can start from a fresh snapshot.
const (
	KeyCatalog = "cinepedia_db_v31"
	KeyProfile = "cinepedia_user"

	KeyTheme        = "cinepedia_theme"
	KeyMaintenance  = "cinepedia_maintenance"
	KeyAnnouncement = "cinepedia_announcement"
)

// LocalStore implements domain.Store using BoltDB.
type LocalStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

var _ domain.Store = (*LocalStore)(nil)

// Open opens (or creates) the store file at path.
// An empty path yields a memory-only store with no persistence.
func Open(path string) (*LocalStore, error) {
	if path == "" {
		return &LocalStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets() {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &LocalStore{db: db, cache: make(map[string][]byte)}, nil
}

func allBuckets() [][]byte {
	return [][]byte{bucketCatalog, bucketProfile, bucketSettings}
}

func (s *LocalStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *LocalStore) getRaw(bucket []byte, key string) ([]byte, bool) {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return data, true
}

func (s *LocalStore) putRaw(bucket []byte, key string, data []byte) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return err
		}
	}

	// Cache only after the write is durable so a failed write never shadows disk
	s.mu.Lock()
	s.cache[string(bucket)+":"+key] = data
	s.mu.Unlock()
	return nil
}

func (s *LocalStore) get(bucket []byte, key string, dest interface{}) bool {
	data, ok := s.getRaw(bucket, key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (s *LocalStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.putRaw(bucket, key, data)
}

// === Catalog ===

func (s *LocalStore) GetRecords() ([]domain.Record, bool) {
	var records []domain.Record
	ok := s.get(bucketCatalog, KeyCatalog, &records)
	return records, ok
}

func (s *LocalStore) SaveRecords(records []domain.Record) error {
	return s.set(bucketCatalog, KeyCatalog, records)
}

// === Profile ===

func (s *LocalStore) GetProfile() (domain.Profile, bool) {
	var p domain.Profile
	ok := s.get(bucketProfile, KeyProfile, &p)
	return p, ok
}

func (s *LocalStore) SaveProfile(p domain.Profile) error {
	return s.set(bucketProfile, KeyProfile, p)
}

// === Settings (stored as plain strings, not JSON) ===

func (s *LocalStore) GetSetting(key string) (string, bool) {
	data, ok := s.getRaw(bucketSettings, key)
	if !ok {
		return "", false
	}
	return string(data), true
}

func (s *LocalStore) SaveSetting(key, value string) error {
	return s.putRaw(bucketSettings, key, []byte(value))
}

// Clear deletes all data from all buckets
func (s *LocalStore) Clear() error {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets() {
			if tx.Bucket(bucket) != nil {
				if err := tx.DeleteBucket(bucket); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
