// Package store persists sealed secrets as JSON files.
package store

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Sajjon/svar"
	"github.com/spf13/afero"
)

// ErrExists is returned by Save when the file exists and overwrite is off.
var ErrExists = errors.New("sealed secret file already exists")

// FileStore reads and writes sealed secrets on fs.
type FileStore struct {
	fs afero.Fs
}

// NewFileStore creates a store on fs.
func NewFileStore(fs afero.Fs) *FileStore {
	return &FileStore{fs: fs}
}

// Exists reports whether path exists.
func (s *FileStore) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// Save writes sealed to path. The file is written to a temporary name in
// the same directory first and renamed into place.
func (s *FileStore) Save(path string, sealed *svar.SealedSecret, overwrite bool) error {
	data, err := sealed.Marshal()
	if err != nil {
		return err
	}

	if !overwrite {
		exists, err := afero.Exists(s.fs, path)
		if err != nil {
			return fmt.Errorf("failed to check file existence %s: %w", path, err)
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("failed to rename %s to %s: %w", tmpName, path, err)
	}

	return nil
}

// Load reads and validates the sealed secret at path.
func (s *FileStore) Load(path string) (*svar.SealedSecret, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sealed secret %s: %w", path, err)
	}

	sealed, err := svar.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return sealed, nil
}
