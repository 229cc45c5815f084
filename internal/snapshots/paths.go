package snapshots

import (
	"fmt"
	"path/filepath"

	"league-mirror/internal/domain"
)

// SnapshotPath builds the path to a resource's persisted snapshot.
func SnapshotPath(basePath string, resource domain.Resource) string {
	return filepath.Join(basePath, fmt.Sprintf("%s.json", resource))
}

func manifestPath(basePath string) string {
	return filepath.Join(basePath, "manifest.json")
}
