// Package fs provides file-based storage for raw and parsed documents.
package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/doctrail/doctrail"
)

// Ensure Store implements doctrail.DocumentStore at compile time.
var _ doctrail.DocumentStore = (*Store)(nil)

// Store reads and writes document content on the local filesystem.
// Each operation opens and closes its own file handle.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Write stores data at path, creating parent directories as needed, and
// returns the xxhash digest of the content.
func (s *Store) Write(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", doctrail.Errorf(doctrail.EPERSISTENCE, "create directory %q: %v", dir, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", doctrail.Errorf(doctrail.EPERSISTENCE, "write %q: %v", path, err)
	}

	return hashContent(data), nil
}

// Read returns the content stored at path.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, doctrail.Errorf(doctrail.ENOTFOUND, "no document at %q", path)
	}
	if err != nil {
		return nil, doctrail.Errorf(doctrail.EPERSISTENCE, "read %q: %v", path, err)
	}
	return data, nil
}

// hashContent computes the xxhash digest of content as a hex string.
func hashContent(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}
