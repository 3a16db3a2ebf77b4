package file

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Exists returns true if the specified file exists and false otherwise.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDirectory creates the specified directory, along with any missing
// parents, if it does not already exist.
func EnsureDirectory(dir string, perm os.FileMode) error {
	if _, err := os.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(
				err,
				"error checking for existence of directory %s",
				dir,
			)
		}
		// The directory doesn't exist-- create it
		if err := os.MkdirAll(dir, perm); err != nil {
			return errors.Wrapf(err, "error creating directory %s", dir)
		}
	}
	return nil
}

// WriteAtomically writes data to a temporary file alongside path and renames
// it into place so that readers never observe a partially written file.
func WriteAtomically(path string, data []byte, perm os.FileMode) error {
	tmp, err := ioutil.TempFile(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "error creating temporary file for %s", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // nolint: errcheck
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() // nolint: errcheck
		return errors.Wrapf(err, "error writing to %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "error closing %s", tmpName)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return errors.Wrapf(err, "error setting permissions on %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "error moving %s to %s", tmpName, path)
	}
	return nil
}
