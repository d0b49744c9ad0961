package filesystems

import (
	"sort"
	"testing"
)

func TestMemoryFS_ReadFile(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("repo/render.yaml", []byte("services: []\n"))

	content, err := mfs.ReadFile("repo/render.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(content) != "services: []\n" {
		t.Errorf("unexpected content %q", content)
	}

	if _, err := mfs.ReadFile("repo/missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMemoryFS_ReadDir(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("repo/render.yaml", nil)
	mfs.AddFile("repo/app/main.py", nil)
	mfs.AddFile("repo/zz.txt", nil)

	var names []string
	var dirs []string
	for entry, err := range mfs.ReadDir("repo") {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		names = append(names, entry.Name())
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}

	want := []string{"app", "render.yaml", "zz.txt"}
	if !sort.StringsAreSorted(names) || len(names) != len(want) {
		t.Fatalf("expected sorted entries %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
	if len(dirs) != 1 || dirs[0] != "app" {
		t.Errorf("expected app to be the only directory, got %v", dirs)
	}
}

func TestMemoryFS_Stat(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("repo/render.yaml", []byte("services: []\n"))

	info, err := mfs.Stat("repo/render.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.IsDir() || info.Name() != "render.yaml" || info.Size() != 13 {
		t.Errorf("unexpected file info: %v %d", info.Name(), info.Size())
	}

	info, err = mfs.Stat("repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected repo to stat as a directory")
	}

	if _, err := mfs.Stat("repo/missing"); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestMemoryFS_ReadDirMissing(t *testing.T) {
	mfs := NewMemoryFS()

	for _, err := range mfs.ReadDir("nope") {
		if err == nil {
			t.Fatal("expected error for missing directory")
		}
		return
	}
	t.Fatal("expected the iterator to yield an error")
}

func TestMemoryFS_WalkSkipDir(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("repo/app/main.py", nil)
	mfs.AddFile("repo/skipme/inner.py", nil)

	var visited []string
	err := mfs.Walk("repo", func(path string, info FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && path == "repo/skipme" {
			return SkipDir
		}
		if !info.IsDir() {
			visited = append(visited, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(visited) != 1 || visited[0] != "repo/app/main.py" {
		t.Errorf("expected only repo/app/main.py, got %v", visited)
	}
}

func TestMemoryFS_Rel(t *testing.T) {
	mfs := NewMemoryFS()

	rel, err := mfs.Rel("repo", "repo/app/main.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rel != "app/main.py" {
		t.Errorf("expected app/main.py, got %q", rel)
	}

	rel, err = mfs.Rel("repo", "repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rel != "." {
		t.Errorf("expected ., got %q", rel)
	}
}

func TestNewFileSystem(t *testing.T) {
	if _, err := NewFileSystem("."); err != nil {
		t.Errorf("plain path should map to the local filesystem: %v", err)
	}
	if _, err := NewFileSystem("file:///tmp/repo"); err != nil {
		t.Errorf("file scheme should map to the local filesystem: %v", err)
	}
	if _, err := NewFileSystem("s3://bucket/repo"); err == nil {
		t.Error("expected unsupported schemes to be rejected")
	}
}

func TestBasePath(t *testing.T) {
	if got := BasePath("./repo"); got != "./repo" {
		t.Errorf("expected plain path passthrough, got %q", got)
	}
	if got := BasePath("file:///tmp/repo"); got != "/tmp/repo" {
		t.Errorf("expected the file URI path, got %q", got)
	}
}

func TestFindFile(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("repo/Render.YAML", nil)

	path, err := FindFile(mfs, "repo", "render.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "repo/Render.YAML" {
		t.Errorf("expected case-insensitive match with on-disk case, got %q", path)
	}

	path, err = FindFile(mfs, "repo", "procfile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path for absent file, got %q", path)
	}
}
