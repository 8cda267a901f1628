// Package report turns the raw problem stream of a run into the reviewed
// report: problems are enriched with the entities they refer to, given a
// stable identity, checked against the ignore list, totally ordered and
// colored for grouped rendering.
package report

import (
	"crypto/sha512"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

// DefaultBaseURL is the result site links are built against.
const DefaultBaseURL = "https://www.turnier.de/sport/"

// Options configure finalization.
type Options struct {
	// BaseURL of the result site, with trailing slash. Empty means DefaultBaseURL.
	BaseURL string
	// ContactURL is linked from the group of internal errors.
	ContactURL string
}

func (o Options) baseURL() string {
	if o.BaseURL == "" {
		return DefaultBaseURL
	}
	return o.BaseURL
}

// Report is the finalized result of one run of a season.
type Report struct {
	Season    string         `json:"season"`
	RunID     uuid.UUID      `json:"run_id"`
	CreatedAt time.Time      `json:"created_at"`
	Problems  []core.Problem `json:"found"`
}

// Active returns the problems not on the ignore list.
func (r *Report) Active() []core.Problem {
	res := make([]core.Problem, 0, len(r.Problems))
	for _, p := range r.Problems {
		if !p.Ignored {
			res = append(res, p)
		}
	}
	return res
}

// ProblemID returns the identity of a problem: the hex SHA-512 of its
// message. Problems with the same message are the same problem, whichever
// check produced them.
func ProblemID(message string) string {
	sum := sha512.Sum512([]byte(message))
	return hex.EncodeToString(sum[:])
}

// Finalize drains the problem sequence of a run and returns the ordered
// report. The first error of the sequence, or of resolving a problem's
// references, aborts finalization.
func Finalize(season *core.Season, repo *core.Repository, seq core.Problems, opts Options) (*Report, error) {
	problems, err := core.Collect(seq)
	if err != nil {
		return nil, err
	}
	if err := Enrich(season, repo, problems, opts); err != nil {
		return nil, err
	}
	MarkIgnored(season, problems)
	Sort(problems)
	for i := range problems {
		Colorize(&problems[i])
	}

	return &Report{
		Season:    season.Key,
		RunID:     uuid.New(),
		CreatedAt: time.Now(),
		Problems:  problems,
	}, nil
}

// MarkIgnored flags problems whose id is on the season's ignore list.
func MarkIgnored(season *core.Season, problems []core.Problem) {
	for i := range problems {
		problems[i].Ignored = season.IsIgnored(problems[i].ID)
	}
}
