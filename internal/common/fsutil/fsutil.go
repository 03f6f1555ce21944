package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/models/llm
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists checks if the given path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// WorkDir resolves dir for scratch files: empty means the OS temp dir, '~' is
// expanded and the directory is created if missing.
func WorkDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return os.TempDir(), nil
	}
	p, err := ExpandHome(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(p, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	return p, nil
}

// WriteUnique writes data to a new file named prefix-<uuid><ext> inside dir
// and returns its path. The file is created exclusively.
func WriteUnique(dir, prefix, ext string, data []byte) (string, error) {
	name := prefix + "-" + uuid.NewString() + ext
	p := filepath.Join(dir, name)
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(p)
		return "", err
	}
	return p, nil
}
