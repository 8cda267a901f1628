// Package ingest reads the CSV export of one season snapshot into raw
// tables. A snapshot directory holds one <table>.csv per export table;
// tables are read concurrently and can be cached as a single JSON file next
// to the CSV files.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/krotoncheck/internal/core"
	"github.com/JonMunkholm/krotoncheck/internal/logging"
)

// Options configure how a snapshot directory is read.
type Options struct {
	// Encoding of the CSV files, see Decoder. Empty means DefaultEncoding.
	Encoding string
	// Cache enables reading and writing CacheFile in the snapshot directory.
	Cache bool
}

// Load reads a snapshot directory. With opts.Cache, an existing cache file
// is used instead of the CSV files, and a fresh load writes one.
func Load(ctx context.Context, dir string, opts Options) (core.RawTables, error) {
	if !opts.Cache {
		return LoadDir(ctx, dir, opts)
	}

	log := logging.WithFields(ctx, "dir", dir)
	raw, err := ReadCache(dir)
	if err == nil {
		log.Debug("using table cache", "tables", len(raw))
		return raw, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		log.Warn("ignoring unreadable table cache", "error", err)
	}

	raw, err = LoadDir(ctx, dir, opts)
	if err != nil {
		return nil, err
	}
	if err := WriteCache(dir, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// LoadDir reads every table of core.AllTables from dir. Tables in
// core.RequiredTables must exist; other tables are optional.
func LoadDir(ctx context.Context, dir string, opts Options) (core.RawTables, error) {
	enc, err := Decoder(opts.Encoding)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var mu sync.Mutex
	raw := make(core.RawTables, len(core.AllTables))

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range core.AllTables {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			path := filepath.Join(dir, name+".csv")
			f, err := os.Open(path)
			if errors.Is(err, fs.ErrNotExist) && !slices.Contains(core.RequiredTables, name) {
				return nil
			}
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("missing table %s in %s", name, dir)
			}
			if err != nil {
				return fmt.Errorf("read table %s: %w", name, err)
			}
			defer f.Close()

			tableStart := time.Now()
			cr := newCountingReader(f)
			records, err := ReadTable(enc.NewDecoder().Reader(cr))
			if err != nil {
				return fmt.Errorf("read table %s: %w", name, err)
			}

			logging.WithFields(ctx, "table", name).Debug("table loaded",
				"rows", len(records),
				"bytes", cr.n,
				"duration_ms", time.Since(tableStart).Milliseconds(),
			)

			mu.Lock()
			raw[name] = records
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.WithFields(ctx, "dir", dir).Info("snapshot loaded",
		"tables", len(raw),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return raw, nil
}
