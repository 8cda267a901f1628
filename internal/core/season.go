package core

import "time"

// League tiers with their own last eligible date.
const (
	TierOLRL = "olrl"
	TierO19  = "o19"
	TierU19  = "u19"
)

// Receiver is a recipient of a filtered report.
type Receiver struct {
	Email        string `json:"email" mapstructure:"email"`
	StBFilter    string `json:"stb_filter,omitempty" mapstructure:"stb_filter"`
	RegionFilter string `json:"region_filter,omitempty" mapstructure:"region_filter"`
}

// Season is the context a run is evaluated in.
type Season struct {
	Key          string `json:"key"`
	Name         string `json:"name,omitempty"`
	TournamentID string `json:"tournament_id"`
	DataDir      string `json:"data_dir,omitempty"`

	// Now is the instant deadlines are measured against. Zero means the
	// time the run starts.
	Now time.Time `json:"check_now,omitempty"`

	// LastDates maps a tier (TierOLRL, TierO19, TierU19) to the last
	// eligible date in export format.
	LastDates map[string]string `json:"lastdates,omitempty"`

	// Ignore lists problem ids suppressed from active review.
	Ignore []string `json:"ignore,omitempty"`

	Receivers []Receiver `json:"receivers,omitempty"`
}

// LastDate returns the last eligible date of a tier.
func (s *Season) LastDate(tier string) string {
	if s.LastDates == nil {
		return ""
	}
	return s.LastDates[tier]
}

// IsIgnored reports whether a problem id is on the ignore list.
func (s *Season) IsIgnored(id string) bool {
	for _, ig := range s.Ignore {
		if ig == id {
			return true
		}
	}
	return false
}
