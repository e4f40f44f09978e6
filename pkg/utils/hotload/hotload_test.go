package hotload

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestShouldIgnore(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "proj")
	patterns := []string{"*.log", "node_modules", "out", "./build/tmp"}
	tests := []struct {
		path string
		want bool
	}{
		{"src/main.js", false},
		{"debug.log", true},
		{"src/deep/trace.log", true},
		{"node_modules/electron/index.js", true},
		{"out/make/zip/demo.zip", true},
		{"build/tmp/x", true},
		{"build/keep.js", false},
		{"src/.DS_Store", true},
		{"package.json", false},
	}
	for _, tt := range tests {
		path := filepath.Join(root, filepath.FromSlash(tt.path))
		if got := shouldIgnore(root, path, patterns); got != tt.want {
			t.Errorf("shouldIgnore(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
	if shouldIgnore(root, root, patterns) {
		t.Error("root itself must not be ignored")
	}
}

func TestWatch_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "out"), 0o755); err != nil {
		t.Fatal(err)
	}

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Options{Dir: dir, Debounce: 100 * time.Millisecond, IgnorePatterns: []string{"out"}}, func() {
			runs.Add(1)
		})
	}()

	// 等待 watcher 就绪
	time.Sleep(200 * time.Millisecond)
	for i := range 5 {
		if err := os.WriteFile(filepath.Join(dir, "main.js"), []byte{byte(i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	// 输出目录中的写入不触发
	if err := os.WriteFile(filepath.Join(dir, "out", "artifact.zip"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned %v", err)
	}
	if got := runs.Load(); got != 1 {
		t.Errorf("hook ran %d times, want 1", got)
	}
}
