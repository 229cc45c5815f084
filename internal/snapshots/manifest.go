package snapshots

import (
	"encoding/json"
	"os"
	"time"

	"league-mirror/internal/domain"
)

// Manifest records when each resource snapshot was last refreshed.
type Manifest struct {
	LastRefreshed map[domain.Resource]time.Time `json:"lastRefreshed"`
}

func readManifest(path string) Manifest {
	m := Manifest{LastRefreshed: make(map[domain.Resource]time.Time)}
	data, err := os.ReadFile(path)
	if err != nil {
		return m
	}
	// A corrupt manifest is rebuilt rather than treated as fatal.
	if err := json.Unmarshal(data, &m); err != nil || m.LastRefreshed == nil {
		m.LastRefreshed = make(map[domain.Resource]time.Time)
	}
	return m
}

func writeManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
