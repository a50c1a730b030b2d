package doctrail

// DocumentStore persists raw and parsed document content on disk. File
// handles are scoped to the single read or write that needs them.
type DocumentStore interface {
	// Write stores data at path, creating parent directories as needed.
	// Returns the content hash of the written data.
	Write(path string, data []byte) (hash string, err error)

	// Read returns the content stored at path.
	// Returns ENOTFOUND if no file exists there.
	Read(path string) ([]byte, error)
}
