package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"skoview/internal/dashboard"
	"skoview/internal/state"
	"skoview/internal/statview"
	"skoview/internal/tpdb"
	"skoview/internal/visuals"

	"github.com/spf13/cobra"
)

type statOptions struct {
	selection dashboard.Selection
	technical bool
	top       int
	mermaid   bool
	bar       bool
	history   bool
	asJSON    bool
}

var statOpts statOptions

var statCmd = &cobra.Command{
	Use:   "stat",
	Short: "Print call statistics for a selection",
	Example: `  skoview stat --preselect Journalen --top 5
  skoview stat --from 2021-03-01 --to 2021-03-31 --tp 4 --mermaid`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := statOpts
		if cmd.Flags().Changed("technical") {
			opts.selection.TechnicalTerms = &opts.technical
		}
		return runStat(cmd.Context(), cmd.OutOrStdout(), newSession(), opts)
	},
}

func init() {
	f := statCmd.Flags()
	f.StringVar(&statOpts.selection.DateEffective, "from", "", "first day of the period (defaults to the latest snapshot)")
	f.StringVar(&statOpts.selection.DateEnd, "to", "", "last day of the period (defaults to the latest snapshot)")
	f.StringVar(&statOpts.selection.Preselect, "preselect", "", "pre-selection template label")
	f.IntVar(&statOpts.selection.StatTpID, "tp", 0, "statistics platform id")
	f.BoolVar(&statOpts.technical, "technical", false, "show technical names instead of synonyms")
	f.IntVar(&statOpts.top, "top", 10, "rows per item type, -1 for all")
	f.BoolVar(&statOpts.mermaid, "mermaid", false, "print Mermaid charts instead of tables")
	f.BoolVar(&statOpts.bar, "bar", false, "with --mermaid, draw bar charts instead of pies")
	f.BoolVar(&statOpts.history, "history", false, "also print calls per day")
	f.BoolVar(&statOpts.asJSON, "json", false, "print the statistics as JSON")
}

func runStat(ctx context.Context, w io.Writer, session *dashboard.Session, opts statOptions) error {
	if _, err := session.Select(ctx, opts.selection); err != nil {
		return err
	}
	view, st, err := session.StatisticsView(ctx)
	if err != nil {
		return err
	}
	if opts.history {
		if st, err = session.LoadHistory(ctx); err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
	}

	if opts.asJSON {
		out := struct {
			DateEffective string         `json:"dateEffective"`
			DateEnd       string         `json:"dateEnd"`
			Preselect     string         `json:"preselect"`
			View          statview.View  `json:"view"`
			History       map[string]int `json:"history,omitempty"`
			Bookmark      string         `json:"bookmark"`
		}{st.DateEffective, st.DateEnd, st.PreSelect.Label, view, nil, state.BookmarkOf(st).Encode()}
		if opts.history {
			out.History = st.HistoryMap
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "%s, %s..%s, %d calls\n\n", st.PreSelect.DisplayLabel(st.AdvancedMode()), st.DateEffective, st.DateEnd, view.Consumers.Total())
	for _, t := range tpdb.StatItemTypes {
		title := st.PreSelect.LabelMap[t]
		if title == "" {
			title = string(t)
		}
		if opts.mermaid {
			chart := visuals.GenerateCallsPie
			if opts.bar {
				chart = visuals.GenerateCallsBar
			}
			fmt.Fprintln(w, chart(title, view.List(t), opts.top))
			fmt.Fprintln(w)
			continue
		}
		writeTable(w, title, view.List(t).Top(opts.top))
	}

	if opts.history {
		if opts.mermaid {
			fmt.Fprintln(w, visuals.GenerateHistoryChart(st.HistoryMap))
			return nil
		}
		days := make([]string, 0, len(st.HistoryMap))
		for d := range st.HistoryMap {
			days = append(days, d)
		}
		slices.Sort(days)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DAY\tCALLS")
		for _, d := range days {
			fmt.Fprintf(tw, "%s\t%d\n", d, st.HistoryMap[d])
		}
		return tw.Flush()
	}
	return nil
}

func writeTable(w io.Writer, title string, list statview.List) {
	fmt.Fprintln(w, title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  CALLS\tID\tNAME")
	for _, r := range list {
		fmt.Fprintf(tw, "  %d\t%d\t%s\n", r.Calls, r.ItemID, r.Description)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}
