package session

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/krancour/resman/internal/file"
	"github.com/pkg/errors"
)

type fileStore struct {
	dir  string
	path string
	mu   sync.Mutex
}

// NewFileStore returns a Store that keeps the Session as a JSON document named
// after StorageKey in the specified directory. The directory is created on
// first write.
func NewFileStore(dir string) Store {
	return &fileStore{
		dir:  dir,
		path: filepath.Join(dir, StorageKey),
	}
}

func (f *fileStore) Read(context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *fileStore) Write(_ context.Context, s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(s)
}

func (f *fileStore) Update(_ context.Context, patch Patch) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return update(f.read, f.write, patch)
}

func (f *fileStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "error deleting session file %s", f.path)
	}
	return nil
}

func (f *fileStore) read() (*Session, error) {
	if !file.Exists(f.path) {
		return nil, nil
	}
	data, err := ioutil.ReadFile(f.path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading session file %s", f.path)
	}
	return decode(data, f.path), nil
}

func (f *fileStore) write(s Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	if err := file.EnsureDirectory(f.dir, 0700); err != nil {
		return err
	}
	return file.WriteAtomically(f.path, data, 0600)
}
