package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) handle(ctx context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestWatcherHandlesSettledFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w, err := New(dir, rec.handle)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	w.Debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	png := filepath.Join(dir, "home.png")
	f, err := os.Create(png)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		f.Write([]byte("chunk"))
		time.Sleep(5 * time.Millisecond)
	}
	f.Close()

	for _, name := range []string{"notes.txt", ".hidden.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && len(rec.snapshot()) == 0 {
		time.Sleep(20 * time.Millisecond)
	}
	// give ignored files the chance to show up if they were wrongly accepted
	time.Sleep(200 * time.Millisecond)

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned error: %v", err)
	}

	got := rec.snapshot()
	if len(got) != 1 || got[0] != png {
		t.Errorf("Expected exactly [%s], got %v", png, got)
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing", "*.png"), func(context.Context, string) {}); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestNewGlobWatchesPatternDir(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "home*.png"), func(context.Context, string) {})
	if err != nil {
		t.Fatalf("Failed to watch glob: %v", err)
	}
	defer w.watcher.Close()

	if w.Dir != dir {
		t.Errorf("Expected watched dir %s, got %s", dir, w.Dir)
	}
	w.Skip = func(path string) bool { return strings.Contains(filepath.Base(path), ".framed.") }

	tests := []struct {
		name string
		want bool
	}{
		{"home.png", true},
		{"home-dark.png", true},
		{"other.png", false},
		{"home.jpg", false},
		{".home.png", false},
		{"home.framed.1.png", false},
	}
	for _, tt := range tests {
		if got := w.accepts(filepath.Join(dir, tt.name)); got != tt.want {
			t.Errorf("accepts(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWatcherHandlesGlobMatches(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w, err := New(filepath.Join(dir, "*.png"), rec.handle)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	w.Debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	png := filepath.Join(dir, "home.png")
	if err := os.WriteFile(png, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && len(rec.snapshot()) == 0 {
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	<-done

	got := rec.snapshot()
	if len(got) != 1 || filepath.Clean(got[0]) != png {
		t.Errorf("Expected exactly [%s], got %v", png, got)
	}
}
