// Package store implements the persisted-state filesystem layout of spec §6:
// monitor configs/state, research run artifacts, and the aggregated ops
// log, all under a single data_root tree.
package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriteFile writes data to path via write-temp-then-rename, the single
// atomicity primitive spec §5 requires for both monitor state persistence
// and research_data.json writes. Modeled on
// basegraphhq-basegraph/relay/internal/store.LocalSpecStore.Write's
// temp-file-then-os.Rename pattern, generalized from one callsite to a
// shared helper since this spec needs the same primitive in two components.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("store: creating directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("store: writing temp file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: renaming %s to %s: %w", tmp, path, err)
	}
	return nil
}
