package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/krotoncheck/internal/core"
	"github.com/JonMunkholm/krotoncheck/internal/report"
	"github.com/JonMunkholm/krotoncheck/internal/service"
)

type healthResponse struct {
	Status string                     `json:"status"`
	Checks service.CheckLimiterStatus `json:"checks"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Checks: s.checker.LimiterStatus(),
	})
}

func (s *Server) handleListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := s.checker.Seasons(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seasons)
}

// problemsResponse is a stored report, optionally narrowed to a receiver.
type problemsResponse struct {
	Season    string         `json:"season"`
	RunID     uuid.UUID      `json:"run_id"`
	CreatedAt time.Time      `json:"created_at"`
	Total     int            `json:"total"`
	Found     []core.Problem `json:"found"`
}

// handleProblems returns the latest report. Without filters every problem is
// listed, ignored ones included; stb or region narrow it like a receiver.
func (s *Server) handleProblems(w http.ResponseWriter, r *http.Request) {
	rep, err := s.checker.Latest(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	found := rep.Problems
	if recv, ok := receiverFrom(r); ok {
		found = report.FilterFor(found, recv)
	}
	if found == nil {
		found = []core.Problem{}
	}
	writeJSON(w, http.StatusOK, problemsResponse{
		Season:    rep.Season,
		RunID:     rep.RunID,
		CreatedAt: rep.CreatedAt,
		Total:     len(rep.Problems),
		Found:     found,
	})
}

func (s *Server) handleColors(w http.ResponseWriter, r *http.Request) {
	recv, _ := receiverFrom(r)
	groups, err := s.checker.Colors(r.Context(), chi.URLParam(r, "key"), recv)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if groups == nil {
		groups = []report.ColorGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

type recheckResponse struct {
	Season    string    `json:"season"`
	RunID     uuid.UUID `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Total     int       `json:"total"`
	Active    int       `json:"active"`
}

func (s *Server) handleRecheck(w http.ResponseWriter, r *http.Request) {
	rep, err := s.checker.Recheck(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recheckResponse{
		Season:    rep.Season,
		RunID:     rep.RunID,
		CreatedAt: rep.CreatedAt,
		Total:     len(rep.Problems),
		Active:    len(rep.Active()),
	})
}

// receiverFrom reads the stb and region query filters.
func receiverFrom(r *http.Request) (core.Receiver, bool) {
	q := r.URL.Query()
	recv := core.Receiver{
		StBFilter:    q.Get("stb"),
		RegionFilter: q.Get("region"),
	}
	return recv, recv.StBFilter != "" || recv.RegionFilter != ""
}
