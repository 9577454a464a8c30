package storage

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/agora-bot/agora/models"
	"github.com/pkg/errors"
)

// FileBackend keeps every document in <dir>/<name>.json
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (f *FileBackend) path(name models.DocumentName) string {
	return filepath.Join(f.dir, string(name)+".json")
}

func (f *FileBackend) Read(ctx context.Context, name models.DocumentName) ([]byte, error) {
	data, err := ioutil.ReadFile(f.path(name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", f.path(name))
	}
	return data, nil
}

// Write replaces the document through a temporary file and a rename so a
// crash mid-write leaves the previous version in place.
func (f *FileBackend) Write(ctx context.Context, name models.DocumentName, data []byte) error {
	err := os.MkdirAll(f.dir, 0755)
	if err != nil {
		return errors.Wrapf(err, "creating %s", f.dir)
	}

	tmp, err := ioutil.TempFile(f.dir, "."+string(name)+"-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}

	err = os.Rename(tmp.Name(), f.path(name))
	return errors.Wrapf(err, "replacing %s", f.path(name))
}

func (f *FileBackend) Close() error {
	return nil
}
