package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/krotoncheck/internal/core"
	"github.com/JonMunkholm/krotoncheck/internal/ingest"
	"github.com/JonMunkholm/krotoncheck/internal/report"
	"github.com/JonMunkholm/krotoncheck/internal/season"
)

type checkOptions struct {
	seasonFile string
	dataRoot   string
	encoding   string
	cache      bool
	now        string
	checks     []string
	baseURL    string
	format     string
	all        bool
	fail       bool
}

func (o *checkOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.seasonFile, "season", "", "Season definition file (required)")
	cmd.Flags().StringVar(&o.dataRoot, "data", "", "Base of relative data directories (default: directory of the season file)")
	cmd.Flags().StringVar(&o.encoding, "encoding", ingest.DefaultEncoding, "Encoding of the CSV export")
	cmd.Flags().BoolVar(&o.cache, "cache", false, "Read and write the snapshot cache")
	cmd.Flags().StringVar(&o.now, "now", "", "Check time (DD.MM.YYYY[ HH:MM:SS]; default now)")
	cmd.Flags().StringSliceVar(&o.checks, "check", nil, "Run only the named checks")
	cmd.Flags().StringVar(&o.baseURL, "base-url", report.DefaultBaseURL, "Result site links are built against")
	_ = cmd.MarkFlagRequired("season")
}

// run loads the season and its snapshot and returns the finalized report.
func (o *checkOptions) run(cmd *cobra.Command) (*report.Report, error) {
	dataRoot := o.dataRoot
	if dataRoot == "" {
		dataRoot = filepath.Dir(o.seasonFile)
	}
	s, err := season.LoadFile(o.seasonFile, dataRoot)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	if o.now != "" {
		now, err := core.ParseTime(o.now)
		if err != nil {
			return nil, withCode(exitUsage, fmt.Errorf("invalid --now: %w", err))
		}
		s.Now = now
	}

	defs, err := selectChecks(o.checks)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}

	raw, err := ingest.Load(cmd.Context(), s.DataDir, ingest.Options{Encoding: o.encoding, Cache: o.cache})
	if err != nil {
		return nil, err
	}
	repo, err := core.Build(raw)
	if err != nil {
		return nil, fmt.Errorf("build season %s: %w", s.Key, err)
	}
	return report.Finalize(s, repo, core.Run(s, repo, defs...), report.Options{BaseURL: o.baseURL})
}

func selectChecks(names []string) ([]core.CheckDefinition, error) {
	if len(names) == 0 {
		return core.All(), nil
	}
	defs := make([]core.CheckDefinition, 0, len(names))
	for _, name := range names {
		def, ok := core.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown check %q (known: %s)", name, strings.Join(core.Names(), ", "))
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func newCheckCmd() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a season snapshot and print its problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.run(cmd)
			if err != nil {
				return err
			}

			problems := r.Problems
			if !opts.all {
				problems = r.Active()
			}

			out := cmd.OutOrStdout()
			switch opts.format {
			case "json":
				err = writeJSON(out, problems)
			case "text":
				err = writeText(out, problems)
			default:
				return withCode(exitUsage, fmt.Errorf("unsupported --format: %s", opts.format))
			}
			if err != nil {
				return err
			}

			if opts.fail && len(r.Active()) > 0 {
				return withCode(exitProblems, fmt.Errorf("%d problems", len(r.Active())))
			}
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text|json")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Include ignored problems")
	cmd.Flags().BoolVar(&opts.fail, "fail", false, "Exit with code 3 when problems remain")
	return cmd
}

// newIDsCmd prints the id of every problem, for maintaining ignore lists.
func newIDsCmd() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "ids",
		Short: "Print problem ids for the ignore list",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.run(cmd)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, p := range r.Problems {
				mark := ""
				if p.Ignored {
					mark = "ignored"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, mark, p.Message)
			}
			return w.Flush()
		},
	}
	opts.bind(cmd)
	return cmd
}

func newChecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the registered checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, def := range core.All() {
				fmt.Fprintf(w, "%s\t%s\n", def.Name, def.Description)
			}
			return w.Flush()
		},
	}
}

func writeJSON(w io.Writer, problems []core.Problem) error {
	if problems == nil {
		problems = []core.Problem{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(problems)
}

// writeText prints problems grouped by color and region.
func writeText(w io.Writer, problems []core.Problem) error {
	for _, cg := range report.ColorRender(problems, report.Options{}) {
		for _, reg := range cg.Regions {
			if _, err := fmt.Fprintf(w, "== %s / %s\n", cg.Color, regionLabel(reg.Name)); err != nil {
				return err
			}
			for _, g := range reg.Groups {
				header := g.Header
				if header == "" {
					header = g.Key
				}
				if header != "" {
					fmt.Fprintf(w, "  [%s]\n", header)
				}
				for _, p := range g.Problems {
					if p.Hint != "" {
						fmt.Fprintf(w, "    %s (%s)\n", p.Message, p.Hint)
						continue
					}
					fmt.Fprintf(w, "    %s\n", p.Message)
				}
			}
		}
	}
	return nil
}

func regionLabel(name string) string {
	if name == "" {
		return "-"
	}
	return name
}
