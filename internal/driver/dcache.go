package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"ember/internal/version"
)

// diskCacheSchemaVersion увеличивать при изменении формата Payload
const diskCacheSchemaVersion uint16 = 1

// Digest is a sha256 cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// CacheKey hashes everything that determines the emitted assembly: the
// compiler version, the entry symbol and the normalised source.
func CacheKey(entry string, content []byte) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(version.Version))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(entry))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Payload is one cached compilation.
type Payload struct {
	Schema uint16 `msgpack:"schema"`
	Path   string `msgpack:"path"`
	Asm    string `msgpack:"asm"`
}

// DiskCache stores Payloads under <dir>/asm/<hex>.mp. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// NewDiskCache uses dir as the cache root, creating it when missing.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCache opens the cache at $XDG_CACHE_HOME/<app>, falling back to
// the user cache directory.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		var err error
		if base, err = os.UserCacheDir(); err != nil {
			return nil, err
		}
	}
	return NewDiskCache(filepath.Join(base, app))
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "asm", key.String()+".mp")
}

// Put writes payload atomically: encode to a temp file, then rename.
func (c *DiskCache) Put(key Digest, payload *Payload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	stored := *payload
	stored.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(&stored); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), p)
}

// Get decodes the payload for key into out. A missing entry or one written
// by another schema is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var got Payload
	if err := msgpack.NewDecoder(f).Decode(&got); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	if got.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	*out = got
	return true, nil
}

// DropAll removes every cached payload.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "asm"))
}
