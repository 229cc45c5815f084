package snapshots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"league-mirror/internal/domain"
)

// Writer persists resource snapshots and tracks refresh times in a manifest.
type Writer struct {
	basePath string
	now      func() time.Time
}

// NewWriter constructs a writer rooted at basePath.
func NewWriter(basePath string) *Writer {
	return &Writer{basePath: basePath, now: time.Now}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteSnapshot writes the raw snapshot for a resource via tmp+rename. When
// the bytes are unchanged only the manifest timestamp is refreshed.
func (w *Writer) WriteSnapshot(resource domain.Resource, raw json.RawMessage) error {
	if w == nil {
		return fmt.Errorf("snapshot writer not configured")
	}
	if !resource.Valid() {
		return fmt.Errorf("unknown resource %q", resource)
	}
	if len(raw) == 0 {
		return fmt.Errorf("empty snapshot for %s", resource)
	}

	target := SnapshotPath(w.basePath, resource)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, raw) {
		return w.updateManifest(resource)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}

	return w.updateManifest(resource)
}

func (w *Writer) updateManifest(resource domain.Resource) error {
	path := manifestPath(w.basePath)
	m := readManifest(path)
	m.LastRefreshed[resource] = w.now().UTC()
	return writeManifest(path, m)
}

// Manifest returns the current manifest contents.
func (w *Writer) Manifest() Manifest {
	if w == nil {
		return Manifest{}
	}
	return readManifest(manifestPath(w.basePath))
}
