// Package season reads season definition files. A definition names the
// tournament of a season, where its snapshot lives, the last eligible dates
// per league tier, the ignore list and the receivers of filtered reports.
//
// Definitions are TOML, YAML or JSON files, one per season:
//
//	key = "2024"
//	name = "Saison 2024/25"
//	tournament_id = "C0A1B2C3-0000-4000-8000-000000000000"
//	data_dir = "2024"
//	lastdate_olrl = "15.01.2025"
//	lastdate_o19 = "31.01.2025"
//	lastdate_u19 = "31.01.2025"
//	ignore = ["6f1c..."]
//
//	[[receivers]]
//	email = "stb-nord@example.org"
//	region_filter = "N"
package season

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

// Extensions lists the file extensions read as season definitions.
var Extensions = []string{".toml", ".yaml", ".yml", ".json"}

// ErrNotFound matches errors for unknown seasons.
var ErrNotFound = errors.New("season not found")

// file is the on-disk shape of a definition.
type file struct {
	Key          string          `mapstructure:"key"`
	Name         string          `mapstructure:"name"`
	TournamentID string          `mapstructure:"tournament_id"`
	DataDir      string          `mapstructure:"data_dir"`
	LastDateOLRL string          `mapstructure:"lastdate_olrl"`
	LastDateO19  string          `mapstructure:"lastdate_o19"`
	LastDateU19  string          `mapstructure:"lastdate_u19"`
	Ignore       []string        `mapstructure:"ignore"`
	CheckNow     string          `mapstructure:"check_now"`
	Receivers    []core.Receiver `mapstructure:"receivers"`
}

// LoadFile reads one definition. The key defaults to the file name without
// extension; a relative data_dir is resolved against dataRoot and defaults
// to the key.
func LoadFile(path, dataRoot string) (*core.Season, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read season %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("key", strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read season %s: %w", path, err)
	}

	var f file
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode season %s: %w", path, err)
	}
	return f.season(dataRoot)
}

func (f *file) season(dataRoot string) (*core.Season, error) {
	if f.TournamentID == "" {
		return nil, fmt.Errorf("season %s: tournament_id is required", f.Key)
	}

	s := &core.Season{
		Key:          f.Key,
		Name:         f.Name,
		TournamentID: f.TournamentID,
		DataDir:      f.DataDir,
		LastDates:    make(map[string]string),
		Ignore:       f.Ignore,
		Receivers:    f.Receivers,
	}
	if s.DataDir == "" {
		s.DataDir = s.Key
	}
	if !filepath.IsAbs(s.DataDir) && dataRoot != "" {
		s.DataDir = filepath.Join(dataRoot, s.DataDir)
	}

	for tier, d := range map[string]string{
		core.TierOLRL: f.LastDateOLRL,
		core.TierO19:  f.LastDateO19,
		core.TierU19:  f.LastDateU19,
	} {
		if d != "" {
			s.LastDates[tier] = d
		}
	}

	if f.CheckNow != "" {
		now, err := core.ParseTime(f.CheckNow)
		if err != nil {
			return nil, fmt.Errorf("season %s: check_now: %w", f.Key, err)
		}
		s.Now = now
	}
	return s, nil
}

// Catalog is a directory of season definitions.
type Catalog struct {
	Dir      string // Directory holding the definition files
	DataRoot string // Base of relative data directories
}

// List reads every definition in the catalog, sorted by key.
func (c *Catalog) List() ([]*core.Season, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("read seasons %s: %w", c.Dir, err)
	}

	var seasons []*core.Season
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(Extensions, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		s, err := LoadFile(filepath.Join(c.Dir, e.Name()), c.DataRoot)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}

	slices.SortFunc(seasons, func(a, b *core.Season) int {
		return strings.Compare(a.Key, b.Key)
	})
	for i := 1; i < len(seasons); i++ {
		if seasons[i].Key == seasons[i-1].Key {
			return nil, fmt.Errorf("read seasons %s: duplicate key %q", c.Dir, seasons[i].Key)
		}
	}
	return seasons, nil
}

// Get returns the season with the given key.
func (c *Catalog) Get(key string) (*core.Season, error) {
	seasons, err := c.List()
	if err != nil {
		return nil, err
	}
	for _, s := range seasons {
		if s.Key == key {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
}
