package store

import (
	"context"
	"os"
)

// FileBackend persists the store in a local JSON file.
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend writing to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Load reads the file; a missing file is an empty store, not an error.
func (b *FileBackend) Load(ctx context.Context) ([]byte, error) {
	blob, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return blob, nil
}

// Save writes the blob to the file.
func (b *FileBackend) Save(ctx context.Context, blob []byte) error {
	return os.WriteFile(b.path, blob, 0o644)
}
