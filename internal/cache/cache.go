// ABOUTME: Rendered chart cache backed by an embedded badger key-value store.
// ABOUTME: Keys bind the table fingerprint, chart ID, image format, and size.
package cache

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// DefaultTTL is how long a rendered chart stays cached.
const DefaultTTL = 24 * time.Hour

// Cache stores rendered chart images.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens a cache on disk at dir, creating it if needed.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a cache that lives only as long as the process.
func OpenInMemory() (*Cache, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Cache, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return &Cache{db: db, ttl: DefaultTTL}, nil
}

// Key builds the cache key of one rendered chart at a given image size.
func Key(fingerprint, chartID, format string, width, height int) []byte {
	return []byte(fmt.Sprintf("%s|%s|%s|%dx%d", fingerprint, chartID, format, width, height))
}

// Get returns the cached bytes for key. ok is false on a miss.
func (c *Cache) Get(key []byte) (data []byte, ok bool, err error) {
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}
	return data, true, nil
}

// Put stores data under key.
func (c *Cache) Put(key, data []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, data).WithTTL(c.ttl))
	})
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// GetOrCompute returns the cached value for key, computing and storing it on a miss.
// hit reports whether the value came from the cache.
func (c *Cache) GetOrCompute(key []byte, compute func() ([]byte, error)) (data []byte, hit bool, err error) {
	data, ok, err := c.Get(key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return data, true, nil
	}
	data, err = compute()
	if err != nil {
		return nil, false, err
	}
	if err := c.Put(key, data); err != nil {
		return nil, false, err
	}
	return data, false, nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if err := c.db.DropAll(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.db.Close()
}
