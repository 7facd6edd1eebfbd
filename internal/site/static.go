package site

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyStatic replaces dst with a recursive copy of src and returns the
// number of files copied
func CopyStatic(src, dst string) (int, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("failed to read static dir: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("static path %s is not a directory", src)
	}

	if err := os.RemoveAll(dst); err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", dst, err)
	}

	return copyTree(src, dst)
}

// copyTree mirrors src into dst without clearing dst first. Every call
// reads and owns its own entry list.
func copyTree(src, dst string) (int, error) {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", src, err)
	}

	copied := 0
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			n, err := copyTree(from, to)
			copied += n
			if err != nil {
				return copied, err
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}
		if err := copyFile(from, to); err != nil {
			return copied, err
		}
		copied++
	}

	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}

	return out.Close()
}
