package season

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

const tomlSeason = `
name = "Saison 2024/25"
tournament_id = "T-2024"
lastdate_olrl = "15.01.2025"
lastdate_o19 = "31.01.2025"
ignore = ["abc", "def"]
check_now = "12.09.2024 19:30:00"

[[receivers]]
email = "nord@example.org"
region_filter = "N"

[[receivers]]
email = "stb@example.org"
stb_filter = "Staffel"
`

const yamlSeason = `
key: "2023"
tournament_id: T-2023
data_dir: /srv/exports/2023
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "2024.toml", tomlSeason)

	s, err := LoadFile(path, "/data")
	if err != nil {
		t.Fatalf("LoadFile() unexpected error: %v", err)
	}

	if s.Key != "2024" {
		t.Errorf("Key = %q, want file name 2024", s.Key)
	}
	if s.Name != "Saison 2024/25" || s.TournamentID != "T-2024" {
		t.Errorf("Name/TournamentID = %q/%q", s.Name, s.TournamentID)
	}
	if s.DataDir != filepath.Join("/data", "2024") {
		t.Errorf("DataDir = %q, want /data/2024", s.DataDir)
	}
	if s.LastDate(core.TierOLRL) != "15.01.2025" || s.LastDate(core.TierO19) != "31.01.2025" {
		t.Errorf("LastDates = %v", s.LastDates)
	}
	if s.LastDate(core.TierU19) != "" {
		t.Errorf("LastDate(u19) = %q, want empty", s.LastDate(core.TierU19))
	}
	if !s.IsIgnored("def") || s.IsIgnored("xyz") {
		t.Errorf("Ignore = %v", s.Ignore)
	}
	want := time.Date(2024, 9, 12, 19, 30, 0, 0, core.Location)
	if !s.Now.Equal(want) {
		t.Errorf("Now = %v, want %v", s.Now, want)
	}
	if len(s.Receivers) != 2 {
		t.Fatalf("Receivers = %v, want 2", s.Receivers)
	}
	if r := s.Receivers[0]; r.Email != "nord@example.org" || r.RegionFilter != "N" {
		t.Errorf("Receivers[0] = %+v", r)
	}
	if r := s.Receivers[1]; r.StBFilter != "Staffel" {
		t.Errorf("Receivers[1] = %+v", r)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "old.yaml", yamlSeason)

	s, err := LoadFile(path, "/data")
	if err != nil {
		t.Fatalf("LoadFile() unexpected error: %v", err)
	}
	if s.Key != "2023" {
		t.Errorf("Key = %q, want explicit key 2023", s.Key)
	}
	if s.DataDir != "/srv/exports/2023" {
		t.Errorf("DataDir = %q, absolute dir must be kept", s.DataDir)
	}
	if !s.Now.IsZero() {
		t.Errorf("Now = %v, want zero", s.Now)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		path     string
		notFound bool
	}{
		{"missing file", filepath.Join(dir, "nope.toml"), true},
		{"no tournament", writeFile(t, dir, "a.toml", `name = "x"`), false},
		{"bad check_now", writeFile(t, dir, "b.toml", "tournament_id = \"T\"\ncheck_now = \"2024-09-12\"\n"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(tt.path, "")
			if err == nil {
				t.Fatal("LoadFile() expected error")
			}
			if got := errors.Is(err, ErrNotFound); got != tt.notFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v (err: %v)", got, tt.notFound, err)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024.toml", tomlSeason)
	writeFile(t, dir, "2023.yaml", yamlSeason)
	writeFile(t, dir, "README.md", "not a season")

	c := &Catalog{Dir: dir, DataRoot: "/data"}
	seasons, err := c.List()
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(seasons) != 2 || seasons[0].Key != "2023" || seasons[1].Key != "2024" {
		t.Fatalf("List() = %v, want seasons 2023 and 2024", seasons)
	}

	s, err := c.Get("2024")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if s.TournamentID != "T-2024" {
		t.Errorf("Get().TournamentID = %q", s.TournamentID)
	}

	_, err = c.Get("1999")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}
	if got := core.MapError(err).Code; got != "SEA001" {
		t.Errorf("MapError().Code = %q, want SEA001", got)
	}
}

func TestCatalog_DuplicateKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.toml", "key = \"x\"\ntournament_id = \"T\"\n")
	writeFile(t, dir, "b.yaml", "key: x\ntournament_id: T\n")

	if _, err := (&Catalog{Dir: dir}).List(); err == nil {
		t.Error("List() expected duplicate key error")
	}
}
