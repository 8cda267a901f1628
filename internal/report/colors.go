package report

import (
	"slices"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

// Problem colors.
const (
	ColorVRL         = "lightgray"
	ColorFixed       = "lightblue"
	ColorConfirmed   = "red"
	ColorUnconfirmed = "yellow"
	ColorOther       = "black"
	ColorIgnored     = "green"
)

// InternalErrorsKey groups all internal errors of a region.
const InternalErrorsKey = "Interne Fehler"

// Colorize sets the color of a problem. Problems without a team match and
// without a dedicated type are grouped by their type instead of a region.
func Colorize(p *core.Problem) {
	switch {
	case p.Type == core.TypeVRL:
		p.Color = ColorVRL
	case p.Type == core.TypeFixed:
		p.Color = ColorFixed
	case p.TeamMatch != nil:
		p.Color = ColorUnconfirmed
		if p.TeamMatch.IsConfirmed() {
			p.Color = ColorConfirmed
		}
	default:
		p.Color = ColorOther
		p.Region = p.Type
	}
	if p.Ignored {
		p.Color = ColorIgnored
	}
}

// ColorGroup holds the problems of one color.
type ColorGroup struct {
	Color   string   `json:"color"`
	Regions []Region `json:"regions"`
}

// Region holds the problems of one region within a color.
type Region struct {
	Name   string  `json:"name"`
	Groups []Group `json:"groups"`
}

// Group holds the problems sharing a club, a team match or the internal
// error bucket.
type Group struct {
	Key          string          `json:"key"`
	Header       string          `json:"header,omitempty"`
	TurnierURL   string          `json:"turnier_url,omitempty"`
	TeamMatchURL string          `json:"teammatch_url,omitempty"`
	TeamMatchID  string          `json:"teammatch_id,omitempty"`
	TeamMatch    *core.TeamMatch `json:"teammatch,omitempty"`
	Problems     []core.Problem  `json:"problems"`
}

// ColorRender groups problems by color, region and group key. Colors keep
// the order in which they first occur; regions follow core.RegionOrder with
// unlisted regions after them in order of occurrence; groups are sorted by
// key. Problems keep their relative order within a group.
func ColorRender(problems []core.Problem, opts Options) []ColorGroup {
	type regionAcc struct {
		name   string
		groups map[string]*Group
	}
	type colorAcc struct {
		color   string
		regions []*regionAcc
	}

	var colors []*colorAcc
	for _, p := range problems {
		if p.Color == "" {
			Colorize(&p)
		}

		idx := slices.IndexFunc(colors, func(c *colorAcc) bool { return c.color == p.Color })
		if idx < 0 {
			colors = append(colors, &colorAcc{color: p.Color})
			idx = len(colors) - 1
		}
		col := colors[idx]

		ridx := slices.IndexFunc(col.regions, func(r *regionAcc) bool { return r.name == p.Region })
		if ridx < 0 {
			col.regions = append(col.regions, &regionAcc{name: p.Region, groups: make(map[string]*Group)})
			ridx = len(col.regions) - 1
		}
		reg := col.regions[ridx]

		key, fresh := groupOf(&p, opts)
		g, ok := reg.groups[key]
		if !ok {
			g = fresh
			reg.groups[key] = g
		}
		g.Problems = append(g.Problems, p)
	}

	res := make([]ColorGroup, 0, len(colors))
	for _, col := range colors {
		slices.SortStableFunc(col.regions, func(a, b *regionAcc) int {
			return regionRank(a.name) - regionRank(b.name)
		})

		cg := ColorGroup{Color: col.color}
		for _, reg := range col.regions {
			keys := make([]string, 0, len(reg.groups))
			for k := range reg.groups {
				keys = append(keys, k)
			}
			slices.Sort(keys)

			r := Region{Name: reg.name}
			for _, k := range keys {
				r.Groups = append(r.Groups, *reg.groups[k])
			}
			cg.Regions = append(cg.Regions, r)
		}
		res = append(res, cg)
	}
	return res
}

// regionRank is the position in core.RegionOrder; unlisted regions share
// the rank after the last listed one, so a stable sort keeps their order.
func regionRank(name string) int {
	if i := slices.Index(core.RegionOrder, name); i >= 0 {
		return i
	}
	return len(core.RegionOrder)
}

// groupOf returns the group key of a problem and a new group for it.
func groupOf(p *core.Problem, opts Options) (string, *Group) {
	clubHeader := "(" + p.ClubCode + ") " + p.ClubName
	switch {
	case p.Type == core.TypeVRL:
		return p.TurnierURL, &Group{Key: p.TurnierURL, Header: clubHeader, TurnierURL: p.TurnierURL}
	case p.Type == core.TypeFixed:
		return p.ClubCode, &Group{Key: p.ClubCode, Header: clubHeader, TurnierURL: p.TurnierVRLURL}
	case p.Type == core.TypeInternalError:
		return InternalErrorsKey, &Group{Key: InternalErrorsKey, TurnierURL: opts.ContactURL}
	default:
		return p.TeamMatchID, &Group{
			Key:          p.TeamMatchID,
			TeamMatch:    p.TeamMatch,
			TurnierURL:   p.TurnierURL,
			TeamMatchURL: p.TeamMatchURL,
			TeamMatchID:  p.TeamMatchID,
		}
	}
}
