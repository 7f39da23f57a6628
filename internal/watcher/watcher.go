// Package watcher processes inputs as they are dropped into a directory.
package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/ivlev/mockup-scroller/internal/source"
)

// DefaultDebounce is how long a file must stay quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Handler processes one settled file.
type Handler func(ctx context.Context, path string)

type Watcher struct {
	Dir        string // watched directory
	Pattern    string // glob new files must match, empty for a plain directory
	Extensions []string
	Debounce   time.Duration
	Skip       func(path string) bool

	handle  Handler
	watcher *fsnotify.Watcher
}

// New starts watching input, a directory or a glob. For a glob the directory
// before the first wildcard is watched, without recursion, and new files must
// match the whole pattern. Events that arrive before Run are kept.
func New(input string, handle Handler) (*Watcher, error) {
	dir, pattern := input, ""
	if fi, err := os.Stat(input); err != nil || !fi.IsDir() {
		pattern = filepath.Clean(input)
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("bad input pattern %q", input)
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		dir = filepath.FromSlash(base)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch folder %s: %w", dir, err)
	}

	return &Watcher{
		Dir:        dir,
		Pattern:    pattern,
		Extensions: source.DefaultExtensions,
		Debounce:   DefaultDebounce,
		handle:     handle,
		watcher:    fsWatcher,
	}, nil
}

func (w *Watcher) accepts(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") || !source.HasExtension(path, w.Extensions) {
		return false
	}
	if w.Skip != nil && w.Skip(path) {
		return false
	}
	if w.Pattern != "" {
		ok, err := doublestar.PathMatch(w.Pattern, filepath.Clean(path))
		return err == nil && ok
	}
	return true
}

// Run delivers settled files to the handler one at a time until ctx is
// cancelled. A file written repeatedly is handled once, after the last write.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ticker := time.NewTicker(debounce / 4)
	defer ticker.Stop()

	log.Printf("[*] Watching %s for new inputs...", w.Dir)
	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.accepts(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[!] Watcher error: %v", err)

		case now := <-ticker.C:
			var ready []string
			for path, last := range pending {
				if now.Sub(last) >= debounce {
					ready = append(ready, path)
				}
			}
			sort.Strings(ready)
			for _, path := range ready {
				delete(pending, path)
				if ctx.Err() != nil {
					return nil
				}
				w.handle(ctx, path)
			}
		}
	}
}
