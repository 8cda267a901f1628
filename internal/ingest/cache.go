package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

// CacheFile is the name of the table cache in a snapshot directory.
const CacheFile = "cachev1.json"

// ReadCache reads the table cache of dir. A missing cache yields an error
// matching fs.ErrNotExist.
func ReadCache(dir string) (core.RawTables, error) {
	data, err := os.ReadFile(filepath.Join(dir, CacheFile))
	if err != nil {
		return nil, err
	}
	var raw core.RawTables
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", CacheFile, err)
	}
	return raw, nil
}

// WriteCache writes the table cache of dir atomically: readers see either
// the old cache or the complete new one.
func WriteCache(dir string, raw core.RawTables) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode %s: %w", CacheFile, err)
	}

	tmp, err := os.CreateTemp(dir, CacheFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", CacheFile, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", CacheFile, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", CacheFile, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, CacheFile)); err != nil {
		return fmt.Errorf("write %s: %w", CacheFile, err)
	}
	return nil
}
