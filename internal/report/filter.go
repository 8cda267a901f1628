package report

import (
	"strings"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

// FilterFor returns the problems a receiver gets: everything not ignored,
// narrowed to the StB and region the receiver subscribed to.
func FilterFor(problems []core.Problem, r core.Receiver) []core.Problem {
	res := make([]core.Problem, 0, len(problems))
	for _, p := range problems {
		if p.Ignored {
			continue
		}
		if r.StBFilter != "" && (p.StB == nil || !strings.Contains(p.StB.Name(), r.StBFilter)) {
			continue
		}
		if r.RegionFilter != "" && (p.Region == "" || !strings.Contains(p.Region, r.RegionFilter)) {
			continue
		}
		res = append(res, p)
	}
	return res
}
