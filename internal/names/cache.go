package names

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Cache is a persisted identifier → name map
type Cache struct {
	names map[string]string
	mutex sync.RWMutex
	path  string
}

// NewCache creates a cache backed by path. An empty path keeps it in memory.
func NewCache(path string) *Cache {
	return &Cache{
		names: make(map[string]string),
		path:  path,
	}
}

// Load reads the cache file; a missing file leaves the cache empty
func (c *Cache) Load() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.names = make(map[string]string)
	if c.path == "" {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading name cache: %w", err)
	}

	if err := json.Unmarshal(data, &c.names); err != nil {
		c.names = make(map[string]string)
		return fmt.Errorf("error decoding name cache %s: %w", c.path, err)
	}
	return nil
}

// Save writes the cache file
func (c *Cache) Save() error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("error creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(c.names, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(c.path, data)
}

// writeFile replaces path through a temp file in the same folder, so an
// interrupted save leaves the previous cache intact
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-")
	if err != nil {
		return fmt.Errorf("error writing name cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("error writing name cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error writing name cache: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error writing name cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("error writing name cache: %w", err)
	}
	return nil
}

// Get returns the cached name for id
func (c *Cache) Get(id string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	name, ok := c.names[id]
	return name, ok
}

// Set stores the name for id
func (c *Cache) Set(id, name string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.names[id] = name
}

// Len returns the number of cached names
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.names)
}
