package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Archive is the filesystem object store for raw downloaded payloads. Writes
// happen before parsing so the evidence survives a parse failure, and a path
// is written at most once per payload.
type Archive struct {
	root string
}

// NewArchive roots the archive at dir, creating it if needed.
func NewArchive(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive root: %w", err)
	}
	return &Archive{root: dir}, nil
}

// ObjectMeta is the sidecar metadata stored next to each payload.
type ObjectMeta struct {
	Source    string    `json:"source"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Bytes     int       `json:"bytes"`
	RowCount  int       `json:"row_count,omitempty"`
}

// SaveRaw stores a short-horizon payload under raw/YYYY-MM-DD/<family>/ and
// returns the stored path. Re-saving an existing path is a no-op.
func (a *Archive) SaveRaw(family, filename string, data []byte, meta ObjectMeta) (string, error) {
	day := meta.Timestamp.UTC().Format("2006-01-02")
	rel := filepath.Join("raw", day, family, filename)
	return a.save(rel, data, meta)
}

// SaveForecast stores a long-horizon payload (predispatch, ST PASA) under
// archive/<family>/YYYY-MM-DD/.
func (a *Archive) SaveForecast(family, filename string, data []byte, meta ObjectMeta) (string, error) {
	day := meta.Timestamp.UTC().Format("2006-01-02")
	rel := filepath.Join("archive", family, day, filename)
	return a.save(rel, data, meta)
}

func (a *Archive) save(rel string, data []byte, meta ObjectMeta) (string, error) {
	path := filepath.Join(a.root, rel)
	if _, err := os.Stat(path); err == nil {
		log.Debug().Str("path", rel).Msg("archive object already present, skipping")
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write archive object: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalise archive object: %w", err)
	}

	meta.Bytes = len(data)
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return path, fmt.Errorf("failed to marshal object metadata: %w", err)
	}
	if err := os.WriteFile(path+".meta.json", metaBytes, 0o644); err != nil {
		return path, fmt.Errorf("failed to write object metadata: %w", err)
	}
	return path, nil
}

// ReadRaw returns the bytes of a previously stored object by relative path.
func (a *Archive) ReadRaw(rel string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(a.root, rel))
	if err != nil {
		return nil, fmt.Errorf("failed to read archive object %s: %w", rel, err)
	}
	return b, nil
}
