package commands

import (
	"fmt"
	"strings"

	"skoview/internal/preselect"
	"skoview/internal/state"
	"skoview/internal/tpdb"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// openURL is replaced in tests.
var openURL = browser.OpenURL

type openOptions struct {
	bookmark  state.Bookmark
	consumers []int
	producers []int
	addresses []int
	contracts []int
	printOnly bool
}

var openOpts openOptions

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the web dashboard with a selection",
	Example: `  skoview open --preselect Remisser --from 2021-03-01
  skoview open --consumer 434,693 --print`,
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := dashboardLink(cfg.DashboardURL, preselect.Builtin(), openOpts)
		if err != nil {
			return err
		}
		if openOpts.printOnly {
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		}
		log.Info().Str("url", link).Msg("Opening dashboard")
		return openURL(link)
	},
}

func init() {
	f := openCmd.Flags()
	f.StringVar(&openOpts.bookmark.DateEffective, "from", "", "first day of the period")
	f.StringVar(&openOpts.bookmark.DateEnd, "to", "", "last day of the period")
	f.StringVar(&openOpts.bookmark.PreSelectLabel, "preselect", "", "pre-selection template label")
	f.IntVar(&openOpts.bookmark.StatTpID, "tp", 0, "statistics platform id")
	f.BoolVar(&openOpts.bookmark.ShowTechnicalTerms, "technical", false, "show technical names instead of synonyms")
	f.IntSliceVar(&openOpts.consumers, "consumer", nil, "consumer ids to select")
	f.IntSliceVar(&openOpts.producers, "producer", nil, "producer ids to select")
	f.IntSliceVar(&openOpts.addresses, "address", nil, "logical address ids to select")
	f.IntSliceVar(&openOpts.contracts, "contract", nil, "contract ids to select")
	f.BoolVar(&openOpts.printOnly, "print", false, "print the link instead of opening a browser")
}

func dashboardLink(base string, reg *preselect.Registry, opts openOptions) (string, error) {
	b := opts.bookmark
	if b.PreSelectLabel != "" {
		if _, ok := reg.Get(b.PreSelectLabel); !ok {
			return "", fmt.Errorf("unknown preselect %q", b.PreSelectLabel)
		}
	}
	b.Selected = map[tpdb.ItemType][]int{
		tpdb.Consumer:       opts.consumers,
		tpdb.Producer:       opts.producers,
		tpdb.LogicalAddress: opts.addresses,
		tpdb.Contract:       opts.contracts,
	}

	query := b.Encode()
	if query == "" {
		return base, nil
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + query, nil
}
