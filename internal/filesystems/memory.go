package filesystems

import (
	"fmt"
	"io/fs"
	"iter"
	"path"
	"sort"
	"strings"
	"time"
)

// MemoryFS implements FileSystem over an in-memory tree. It exists for
// tests: fixtures build a repo layout without touching disk.
type MemoryFS struct {
	files map[string][]byte
	dirs  map[string]bool
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// AddFile adds a file, creating parent directories implicitly.
func (mfs *MemoryFS) AddFile(name string, content []byte) {
	mfs.files[path.Clean(name)] = content
	mfs.addParents(name)
}

// AddDir adds an empty directory, creating parents implicitly.
func (mfs *MemoryFS) AddDir(name string) {
	mfs.dirs[path.Clean(name)] = true
	mfs.addParents(name)
}

func (mfs *MemoryFS) addParents(name string) {
	dir := path.Dir(path.Clean(name))
	for dir != "." && dir != "/" {
		mfs.dirs[dir] = true
		dir = path.Dir(dir)
	}
}

func (mfs *MemoryFS) ReadFile(name string) ([]byte, error) {
	content, exists := mfs.files[path.Clean(name)]
	if !exists {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	return content, nil
}

func (mfs *MemoryFS) ReadDir(name string) iter.Seq2[DirEntry, error] {
	return func(yield func(DirEntry, error) bool) {
		cleanName := path.Clean(name)
		if cleanName != "." && !mfs.dirs[cleanName] {
			yield(nil, fmt.Errorf("directory not found: %s", name))
			return
		}

		names := mfs.childNames(cleanName)
		for _, childName := range names {
			fullPath := childName
			if cleanName != "." {
				fullPath = path.Join(cleanName, childName)
			}

			entry := &memoryDirEntry{
				name:     childName,
				isDir:    mfs.dirs[fullPath],
				mfs:      mfs,
				fullPath: fullPath,
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// childNames collects the direct children of dir, sorted.
func (mfs *MemoryFS) childNames(dir string) []string {
	seen := make(map[string]bool)
	collect := func(p string) {
		var remainder string
		if dir == "." {
			remainder = p
		} else if strings.HasPrefix(p, dir+"/") {
			remainder = strings.TrimPrefix(p, dir+"/")
		} else {
			return
		}
		if remainder == "" {
			return
		}
		seen[strings.SplitN(remainder, "/", 2)[0]] = true
	}

	for filePath := range mfs.files {
		collect(filePath)
	}
	for dirPath := range mfs.dirs {
		collect(dirPath)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (mfs *MemoryFS) Stat(name string) (FileInfo, error) {
	cleanName := path.Clean(name)
	if content, exists := mfs.files[cleanName]; exists {
		return &memoryFileInfo{name: path.Base(cleanName), size: int64(len(content)), mode: 0644}, nil
	}
	if cleanName == "." || mfs.dirs[cleanName] {
		return &memoryFileInfo{name: path.Base(cleanName), mode: fs.ModeDir | 0755, isDir: true}, nil
	}
	return nil, fmt.Errorf("not found: %s", name)
}

func (mfs *MemoryFS) Walk(root string, fn WalkFunc) error {
	cleanRoot := path.Clean(root)

	var walkDir func(string) error
	walkDir = func(p string) error {
		isDir := mfs.dirs[p] || p == "."

		var info FileInfo
		if isDir {
			info = &memoryFileInfo{name: path.Base(p), mode: fs.ModeDir | 0755, isDir: true}
		} else if content, exists := mfs.files[p]; exists {
			info = &memoryFileInfo{name: path.Base(p), size: int64(len(content)), mode: 0644}
		}

		if info != nil {
			if err := fn(p, info, nil); err != nil {
				if err == SkipDir && info.IsDir() {
					return nil
				}
				return err
			}
		}

		if isDir {
			for _, childName := range mfs.childNames(p) {
				childPath := childName
				if p != "." {
					childPath = path.Join(p, childName)
				}
				if err := walkDir(childPath); err != nil {
					return err
				}
			}
		}

		return nil
	}

	return walkDir(cleanRoot)
}

func (mfs *MemoryFS) Join(elem ...string) string {
	return path.Join(elem...)
}

func (mfs *MemoryFS) Base(p string) string {
	return path.Base(p)
}

func (mfs *MemoryFS) Dir(p string) string {
	return path.Dir(p)
}

func (mfs *MemoryFS) Rel(basepath, targpath string) (string, error) {
	base := path.Clean(basepath)
	target := path.Clean(targpath)

	if base == target {
		return ".", nil
	}
	if base == "." {
		return target, nil
	}
	if strings.HasPrefix(target, base+"/") {
		return strings.TrimPrefix(target, base+"/"), nil
	}
	return target, nil
}

type memoryDirEntry struct {
	name     string
	isDir    bool
	mfs      *MemoryFS
	fullPath string
}

func (e *memoryDirEntry) Name() string {
	return e.name
}

func (e *memoryDirEntry) IsDir() bool {
	return e.isDir
}

func (e *memoryDirEntry) Type() fs.FileMode {
	if e.isDir {
		return fs.ModeDir
	}
	return 0
}

func (e *memoryDirEntry) Info() (FileInfo, error) {
	if e.isDir {
		return &memoryFileInfo{name: e.name, mode: fs.ModeDir | 0755, isDir: true}, nil
	}

	content, exists := e.mfs.files[e.fullPath]
	if !exists {
		return nil, fmt.Errorf("file not found: %s", e.fullPath)
	}
	return &memoryFileInfo{name: e.name, size: int64(len(content)), mode: 0644}, nil
}

type memoryFileInfo struct {
	name  string
	size  int64
	mode  fs.FileMode
	isDir bool
}

func (fi *memoryFileInfo) Name() string       { return fi.name }
func (fi *memoryFileInfo) Size() int64        { return fi.size }
func (fi *memoryFileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi *memoryFileInfo) ModTime() time.Time { return time.Time{} }
func (fi *memoryFileInfo) IsDir() bool        { return fi.isDir }
func (fi *memoryFileInfo) Sys() interface{}   { return nil }
