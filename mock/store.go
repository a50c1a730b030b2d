package mock

import "github.com/doctrail/doctrail"

var _ doctrail.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of doctrail.DocumentStore.
type DocumentStore struct {
	WriteFn func(path string, data []byte) (string, error)
	ReadFn  func(path string) ([]byte, error)
}

func (s *DocumentStore) Write(path string, data []byte) (string, error) {
	return s.WriteFn(path, data)
}

func (s *DocumentStore) Read(path string) ([]byte, error) {
	return s.ReadFn(path)
}
