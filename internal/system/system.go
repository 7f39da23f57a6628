package system

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

// ErrBinaryNotFound is returned when a required external tool is missing.
var ErrBinaryNotFound = errors.New("binary not found")

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Failed to read the open file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Failed to raise the open file limit: %v", err)
	}
}

// CheckBinary verifies that name is on PATH and returns the first line of
// `name -version`.
func CheckBinary(ctx context.Context, name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrBinaryNotFound)
	}

	out, err := exec.CommandContext(ctx, path, "-version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s -version failed: %w", name, ErrBinaryNotFound)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// CleanupDir removes dir and everything below it. Errors are ignored.
func CleanupDir(dir string) {
	os.RemoveAll(dir)
}

// CleanupFile removes a single file. Errors are ignored.
func CleanupFile(path string) {
	os.Remove(path)
}

// OutputPath joins the output directory with base and suffix, e.g.
// OutputPath("out", "home", "framed.scroll.gif").
func OutputPath(dir, base, suffix string) string {
	return filepath.Join(dir, base+"."+suffix)
}
