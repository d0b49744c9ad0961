package discovery

import (
	"context"
	"sort"
	"testing"

	"github.com/slipway-sh/slipway/internal/filesystems"
)

func TestFind_CollectsManifests(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("repo/render.yaml", []byte("services: []\n"))
	mfs.AddFile("repo/services/bot/render.yml", []byte("services: []\n"))
	mfs.AddFile("repo/services/bot/main.py", []byte("print('hi')\n"))
	mfs.AddFile("repo/README.md", []byte("# repo\n"))

	manifests, err := NewFinder(mfs).Find(context.Background(), "repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var paths []string
	for _, m := range manifests {
		paths = append(paths, m.Path)
	}
	sort.Strings(paths)

	want := []string{"repo/render.yaml", "repo/services/bot/render.yml"}
	if len(paths) != len(want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("expected %v, got %v", want, paths)
			break
		}
	}
}

func TestFind_ManifestDirIsParent(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("repo/sub/render.yaml", []byte("services: []\n"))

	manifests, err := NewFinder(mfs).Find(context.Background(), "repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	if manifests[0].Dir != "repo/sub" {
		t.Errorf("expected dir repo/sub, got %q", manifests[0].Dir)
	}
}

func TestFind_SkipsExcludedDirectories(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("repo/node_modules/pkg/render.yaml", []byte("services: []\n"))
	mfs.AddFile("repo/.git/render.yaml", []byte("services: []\n"))
	mfs.AddFile("repo/_archive/render.yaml", []byte("services: []\n"))
	mfs.AddFile("repo/app/render.yaml", []byte("services: []\n"))

	manifests, err := NewFinder(mfs).Find(context.Background(), "repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(manifests) != 1 || manifests[0].Dir != "repo/app" {
		t.Fatalf("expected only repo/app manifest, got %v", manifests)
	}
}

func TestFind_RespectsMaxDepth(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("repo/a/b/c/d/e/render.yaml", []byte("services: []\n"))

	manifests, err := NewFinder(mfs).Find(context.Background(), "repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected manifests below the depth limit to be skipped, got %v", manifests)
	}
}

func TestFind_MissingRootFails(t *testing.T) {
	mfs := filesystems.NewMemoryFS()

	if _, err := NewFinder(mfs).Find(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unreadable root")
	}
}

func TestFind_CanceledContext(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("repo/render.yaml", []byte("services: []\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFinder(mfs).Find(ctx, "repo"); err == nil {
		t.Fatal("expected context cancellation to stop the walk")
	}
}

func TestIgnoreDirectory(t *testing.T) {
	for _, name := range []string{"node_modules", "VENDOR", ".git", "_private", "dist"} {
		if !IgnoreDirectory(name) {
			t.Errorf("expected %q to be ignored", name)
		}
	}
	for _, name := range []string{"app", "services", "api"} {
		if IgnoreDirectory(name) {
			t.Errorf("expected %q to be walked", name)
		}
	}
}
