package skillsync

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/usestring/authmap/pkg/types"
)

// WriteIfDifferent writes data to dst unless dst already holds exactly data.
// Parent directories are created as needed.
func WriteIfDifferent(dst string, data []byte) (types.SyncStatus, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", dst, err)
	}

	existing, err := os.ReadFile(dst)
	existed := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading %s: %w", dst, err)
	}
	if existed && bytes.Equal(existing, data) {
		return types.SyncUnchanged, nil
	}

	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	if existed {
		return types.SyncUpdated, nil
	}
	return types.SyncCreated, nil
}

// SyncFile copies src to dst, applying transform to the contents first when non-nil.
func SyncFile(src, dst string, transform func([]byte) []byte) (types.SyncStatus, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", src, err)
	}
	if transform != nil {
		data = transform(data)
	}
	return WriteIfDifferent(dst, data)
}

// SyncDir copies every regular file directly inside srcDir into dstDir.
// Results are keyed by file name and returned in name order.
func SyncDir(srcDir, dstDir string) ([]types.SyncResult, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dstDir, err)
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", srcDir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	results := make([]types.SyncResult, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		status, err := SyncFile(filepath.Join(srcDir, entry.Name()), filepath.Join(dstDir, entry.Name()), nil)
		if err != nil {
			return nil, err
		}
		results = append(results, types.SyncResult{Path: entry.Name(), Status: status})
	}
	return results, nil
}
