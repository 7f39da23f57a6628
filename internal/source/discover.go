package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MinFileSize skips files too small to hold a real screenshot.
const MinFileSize = 1024

// DefaultExtensions are the input extensions picked up from directories and globs.
var DefaultExtensions = []string{".png"}

// Resolve expands input into the list of files to process. A directory
// yields its non-hidden files, anything else is treated as a glob. URLs are
// passed through unchanged. Hidden files are skipped and the result is sorted.
func Resolve(input string, extensions []string) ([]string, error) {
	if IsURL(input) {
		return []string{input}, nil
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	var candidates []string
	if fi, err := os.Stat(input); err == nil && fi.IsDir() {
		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			candidates = append(candidates, filepath.Join(input, entry.Name()))
		}
	} else {
		matches, err := doublestar.FilepathGlob(input)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", input, err)
		}
		candidates = matches
	}

	var files []string
	for _, path := range candidates {
		if strings.HasPrefix(filepath.Base(path), ".") || !HasExtension(path, extensions) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || info.Size() < MinFileSize {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// HasExtension reports whether path ends in one of extensions, ignoring case.
func HasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
