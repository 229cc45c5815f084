package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"league-mirror/internal/domain"
)

// FSStore loads persisted snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot loader rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// Load reads a resource's persisted snapshot. A missing file is reported via
// os.ErrNotExist so callers can distinguish absence from corruption.
func (s *FSStore) Load(resource domain.Resource) (json.RawMessage, error) {
	if s == nil {
		return nil, errors.New("snapshot store not configured")
	}
	if !resource.Valid() {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}

	data, err := os.ReadFile(SnapshotPath(s.basePath, resource))
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("snapshot %s: invalid JSON on disk", resource)
	}
	return json.RawMessage(data), nil
}
