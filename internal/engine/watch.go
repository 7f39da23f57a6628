package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/ivlev/mockup-scroller/internal/system"
	"github.com/ivlev/mockup-scroller/internal/watcher"
)

// outputName matches the files ProcessFile writes next to its inputs.
var outputName = regexp.MustCompile(`\.(framed\.scroll\.gif|framed\.\d+\.png|screen\.\d+\.png|palette\.png|\d{6}\.png)$`)

// IsOutput reports whether path looks like a file this tool produced.
func IsOutput(path string) bool {
	return outputName.MatchString(filepath.Base(path))
}

// Watch processes inputs that appear in input, a directory or a glob, until
// ctx is cancelled or an upload fails. Outputs are never picked up as
// inputs, so the output directory may be the watched one.
func (p *Project) Watch(ctx context.Context, input string) (Summary, error) {
	var sum Summary
	if err := system.EnsureDir(p.Config.OutputDir); err != nil {
		return sum, fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	w, err := watcher.New(input, func(ctx context.Context, path string) {
		if err := p.processOne(ctx, path, &sum); err != nil {
			cancel(err)
		}
	})
	if err != nil {
		return sum, err
	}
	if len(p.Config.Extensions) > 0 {
		w.Extensions = p.Config.Extensions
	}
	w.Skip = IsOutput
	if p.debounce > 0 {
		w.Debounce = p.debounce
	}

	if err := w.Run(ctx); err != nil {
		return sum, err
	}
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return sum, cause
	}
	return sum, nil
}
