package report

import (
	"net/url"

	"github.com/JonMunkholm/krotoncheck/internal/core"
)

// RegionFixed is the region of problems about matches with a fixed result.
const RegionFixed = "Festgespielt"

// Enrich resolves the references of each problem to entities, attaches
// StB, region and result site links and sets the identity.
func Enrich(season *core.Season, repo *core.Repository, problems []core.Problem, opts Options) error {
	links := linker{base: opts.baseURL(), tournament: season.TournamentID}
	for i := range problems {
		if err := enrichOne(repo, links, &problems[i]); err != nil {
			return err
		}
	}
	return nil
}

func enrichOne(repo *core.Repository, links linker, p *core.Problem) error {
	switch {
	case p.Type == core.TypeVRL || p.Type == core.TypeFixed:
		club, err := repo.Club(p.ClubCode)
		if err != nil {
			return err
		}
		p.ClubName = club.Name
		if p.VRLTypeID != "" {
			p.Header = "VRL " + p.VRLTypeID + " von (" + club.Code + ") " + club.Name
		}
		if p.Type == core.TypeFixed {
			tm, err := repo.TeamMatch(p.TeamMatchID)
			if err != nil {
				return err
			}
			p.TeamMatch = tm
			p.TurnierURL = links.teamMatch(p.TeamMatchID)
			p.TurnierVRLURL = links.clubRanking(club.XTPID)
			p.Region = RegionFixed
		} else {
			p.TurnierURL = links.clubRanking(club.XTPID)
			if p.Region, err = repo.ClubRegion(p.ClubCode); err != nil {
				return err
			}
		}

	case p.TeamMatchID != "":
		tm, err := repo.TeamMatch(p.TeamMatchID)
		if err != nil {
			return err
		}
		p.TeamMatch = tm
		p.TeamMatchURL = links.teamMatch(p.TeamMatchID)
		p.TurnierURL = p.TeamMatchURL
		if p.TeamMatch2ID != "" {
			p.Turnier2URL = links.teamMatch(p.TeamMatch2ID)
		}
		p.StB = repo.StB(tm)
		p.Region = repo.Region(tm)
	}

	if p.MatchID != "" {
		pm, err := repo.PlayerMatch(p.MatchID)
		if err != nil {
			return err
		}
		p.Match = pm
		p.MatchName = pm.Name()
	}

	p.ID = ProblemID(p.Message)
	return nil
}

// linker builds result site links of one tournament.
type linker struct {
	base       string
	tournament string
}

func (l linker) teamMatch(id string) string {
	return l.base + "teammatch.aspx?id=" + url.QueryEscape(l.tournament) + "&match=" + url.QueryEscape(id)
}

func (l linker) clubRanking(xtpid string) string {
	return l.base + "clubranking.aspx?id=" + url.QueryEscape(l.tournament) + "&cid=" + url.QueryEscape(xtpid)
}
