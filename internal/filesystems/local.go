package filesystems

import (
	"iter"
	"os"
	"path/filepath"
)

// LocalFS implements FileSystem over the host filesystem
type LocalFS struct{}

func NewLocalFS() *LocalFS {
	return &LocalFS{}
}

func (lfs *LocalFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (lfs *LocalFS) ReadDir(name string) iter.Seq2[DirEntry, error] {
	return func(yield func(DirEntry, error) bool) {
		entries, err := os.ReadDir(name)
		if err != nil {
			yield(nil, err)
			return
		}

		for _, entry := range entries {
			if !yield(&localDirEntry{entry}, nil) {
				return
			}
		}
	}
}

func (lfs *LocalFS) Stat(name string) (FileInfo, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (lfs *LocalFS) Walk(root string, fn WalkFunc) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		var fileInfo FileInfo
		if info != nil {
			fileInfo = info
		}
		return fn(path, fileInfo, err)
	})
}

func (lfs *LocalFS) Join(elem ...string) string {
	return filepath.Join(elem...)
}

func (lfs *LocalFS) Base(path string) string {
	return filepath.Base(path)
}

func (lfs *LocalFS) Dir(path string) string {
	return filepath.Dir(path)
}

func (lfs *LocalFS) Rel(basepath, targpath string) (string, error) {
	return filepath.Rel(basepath, targpath)
}

// localDirEntry wraps os.DirEntry
type localDirEntry struct {
	os.DirEntry
}

func (e *localDirEntry) Info() (FileInfo, error) {
	info, err := e.DirEntry.Info()
	if err != nil {
		return nil, err
	}
	return info, nil
}
