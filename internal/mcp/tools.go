package mcp

import (
	"context"
	"fmt"
	"strings"

	"skoview/internal/dashboard"
	"skoview/internal/state"
	"skoview/internal/statview"
	"skoview/internal/tpdb"
	"skoview/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultTop = 10

type ListPreselectsInput struct {
	Advanced bool `json:"advanced,omitempty" jsonschema:"list the templates of the advanced statistics view instead of the simple one"`
}

type PreselectInfo struct {
	Label        string           `json:"label"`
	DisplayLabel string           `json:"display_label"`
	Display      string           `json:"simple_view_display"`
	Selected     map[string][]int `json:"selected"`
}

type ListPreselectsOutput struct {
	Preselects []PreselectInfo `json:"preselects"`
}

type GetStatisticsInput struct {
	DateEffective  string `json:"date_effective,omitempty" jsonschema:"first day of the period (YYYY-MM-DD); must be a loaded date"`
	DateEnd        string `json:"date_end,omitempty" jsonschema:"last day of the period (YYYY-MM-DD); must be a loaded date"`
	Preselect      string `json:"preselect,omitempty" jsonschema:"label of a template from list_preselects"`
	StatTpID       int    `json:"stat_tp_id,omitempty" jsonschema:"statistics platform id; 3 keeps the current selection"`
	TechnicalTerms *bool  `json:"technical_terms,omitempty" jsonschema:"show technical names instead of synonyms"`
	Top            int    `json:"top,omitempty" jsonschema:"number of rows per item type (default 10, -1 for all)"`
	IncludeHistory bool   `json:"include_history,omitempty" jsonschema:"also return calls per day for the period"`
	IncludeCharts  bool   `json:"include_charts,omitempty" jsonschema:"attach Mermaid charts when the server allows it"`
}

type StatisticsOutput struct {
	DateEffective    string            `json:"date_effective"`
	DateEnd          string            `json:"date_end"`
	StatTpID         int               `json:"stat_tp_id"`
	Preselect        string            `json:"preselect"`
	TotalCalls       int               `json:"total_calls"`
	Consumers        []statview.Record `json:"consumers"`
	Producers        []statview.Record `json:"producers"`
	LogicalAddresses []statview.Record `json:"logical_addresses"`
	Contracts        []statview.Record `json:"contracts"`
	History          map[string]int    `json:"history,omitempty"`
	Charts           []string          `json:"charts,omitempty"`
	Bookmark         string            `json:"bookmark"`
}

type ToggleItemInput struct {
	ItemType string `json:"item_type" jsonschema:"type of the item to toggle"`
	ID       int    `json:"id" jsonschema:"id of the item as returned by get_statistics"`
}

type ToggleItemOutput struct {
	Selected  bool             `json:"selected"`
	Selection map[string][]int `json:"selection"`
}

type GetStateInput struct{}

type StateOutput struct {
	Downloads          map[string]string `json:"downloads"`
	DateEffective      string            `json:"date_effective"`
	DateEnd            string            `json:"date_end"`
	IntegrationDates   []string          `json:"integration_dates"`
	StatisticsDates    []string          `json:"statistics_dates"`
	View               string            `json:"view"`
	StatTpID           int               `json:"stat_tp_id"`
	Preselect          string            `json:"preselect"`
	Selected           map[string][]int  `json:"selected"`
	ShowTechnicalTerms bool              `json:"show_technical_terms"`
	ErrorMessage       string            `json:"error_message,omitempty"`
	Bookmark           string            `json:"bookmark"`
	URL                string            `json:"url,omitempty"`
	LastAction         string            `json:"last_action"`
}

type ApplyBookmarkInput struct {
	Bookmark string `json:"bookmark" jsonschema:"bookmark query string as returned in get_state"`
	View     string `json:"view,omitempty" jsonschema:"view to switch to; defaults to the current view"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_preselects",
		Description: "List the pre-selection templates (e.g. 'Journalen', 'Remisser') that scope the statistics to a known set of services.",
		InputSchema: inputSchema[ListPreselectsInput](nil),
	}, s.listPreselects)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "get_statistics",
		Description: "Get call statistics for the current selection, split into consumers, producers, logical addresses and contracts, " +
			"each sorted by calls (highest first). Optional arguments change the selection before fetching and are kept for later calls.",
		InputSchema: inputSchema[GetStatisticsInput](nil),
	}, s.getStatistics)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "toggle_item",
		Description: "Select an item if it is not selected, deselect it otherwise. Subsequent statistics are filtered by the selection.",
		InputSchema: inputSchema[ToggleItemInput](map[string][]any{
			"item_type": itemTypeEnum(),
		}),
	}, s.toggleItem)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_state",
		Description: "Show the current dashboard state: dates, selection, template, download status and a shareable bookmark.",
		InputSchema: inputSchema[GetStateInput](nil),
	}, s.getState)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "apply_bookmark",
		Description: "Restore dates, selection, platform and template from a bookmark. Dates that are no longer loaded are ignored.",
		InputSchema: inputSchema[ApplyBookmarkInput](map[string][]any{
			"view": {string(state.HippoView), string(state.StatSimpleView), string(state.StatAdvancedView)},
		}),
	}, s.applyBookmark)
}

func itemTypeEnum() []any {
	types := []tpdb.ItemType{tpdb.Consumer, tpdb.Producer, tpdb.LogicalAddress, tpdb.Contract, tpdb.Domain, tpdb.PlatformChain}
	out := make([]any, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func (s *Server) listPreselects(ctx context.Context, req *mcp.CallToolRequest, in ListPreselectsInput) (*mcp.CallToolResult, ListPreselectsOutput, error) {
	reg := s.session.Store().Preselects()
	out := ListPreselectsOutput{Preselects: []PreselectInfo{}}
	for _, t := range reg.Visible(in.Advanced) {
		out.Preselects = append(out.Preselects, PreselectInfo{
			Label:        t.Label,
			DisplayLabel: t.DisplayLabel(in.Advanced),
			Display:      string(t.SimpleViewDisplay),
			Selected:     selectionOut(t.SelectedItems),
		})
	}
	return nil, out, nil
}

func (s *Server) getStatistics(ctx context.Context, req *mcp.CallToolRequest, in GetStatisticsInput) (*mcp.CallToolResult, StatisticsOutput, error) {
	_, err := s.session.Select(ctx, dashboard.Selection{
		DateEffective:  in.DateEffective,
		DateEnd:        in.DateEnd,
		Preselect:      in.Preselect,
		StatTpID:       in.StatTpID,
		TechnicalTerms: in.TechnicalTerms,
	})
	if err != nil {
		return nil, StatisticsOutput{}, err
	}

	view, st, err := s.session.StatisticsView(ctx)
	if err != nil {
		return nil, StatisticsOutput{}, err
	}

	top := in.Top
	if top == 0 {
		top = defaultTop
	}
	out := StatisticsOutput{
		DateEffective:    st.DateEffective,
		DateEnd:          st.DateEnd,
		StatTpID:         st.StatTpID,
		Preselect:        st.PreSelect.Label,
		TotalCalls:       view.Consumers.Total(),
		Consumers:        nonNil(view.Consumers.Top(top)),
		Producers:        nonNil(view.Producers.Top(top)),
		LogicalAddresses: nonNil(view.LogicalAddresses.Top(top)),
		Contracts:        nonNil(view.Contracts.Top(top)),
		Bookmark:         state.BookmarkOf(st).Encode(),
	}

	if in.IncludeHistory {
		st, err = s.session.LoadHistory(ctx)
		if err != nil {
			return nil, StatisticsOutput{}, fmt.Errorf("failed to load history: %w", err)
		}
		out.History = st.HistoryMap
	}

	if in.IncludeCharts && s.opts.MermaidCharts {
		for _, t := range tpdb.StatItemTypes {
			if chart := visuals.GenerateCallsPie(chartTitle(st, t), view.List(t), top); chart != "" {
				out.Charts = append(out.Charts, chart)
			}
		}
		if chart := visuals.GenerateHistoryChart(out.History); chart != "" {
			out.Charts = append(out.Charts, chart)
		}
	}
	return nil, out, nil
}

func (s *Server) toggleItem(ctx context.Context, req *mcp.CallToolRequest, in ToggleItemInput) (*mcp.CallToolResult, ToggleItemOutput, error) {
	t, err := tpdb.ParseItemType(strings.ToUpper(in.ItemType))
	if err != nil {
		return nil, ToggleItemOutput{}, err
	}
	cat, err := s.session.Catalog(ctx)
	if err != nil {
		return nil, ToggleItemOutput{}, err
	}
	if !itemExists(cat, t, in.ID) {
		return nil, ToggleItemOutput{}, fmt.Errorf("no %s with id %d", t, in.ID)
	}

	store := s.session.Store()
	var st state.State
	if store.Current().IsSelected(t, in.ID) {
		st = store.Dispatch(state.ItemIdDeselected{ID: in.ID, ViewType: t})
	} else {
		st = store.Dispatch(state.ItemIdSelected{ID: in.ID, ViewType: t})
	}
	return nil, ToggleItemOutput{
		Selected:  st.IsSelected(t, in.ID),
		Selection: selectionOut(st.Selected),
	}, nil
}

func (s *Server) getState(ctx context.Context, req *mcp.CallToolRequest, in GetStateInput) (*mcp.CallToolResult, StateOutput, error) {
	return nil, s.stateOut(s.session.Store().Current()), nil
}

func (s *Server) applyBookmark(ctx context.Context, req *mcp.CallToolRequest, in ApplyBookmarkInput) (*mcp.CallToolResult, StateOutput, error) {
	b, err := state.ParseBookmark(in.Bookmark)
	if err != nil {
		return nil, StateOutput{}, err
	}
	// Dates in the bookmark are checked against the loaded ones.
	if _, err := s.session.Catalog(ctx); err != nil {
		return nil, StateOutput{}, err
	}

	store := s.session.Store()
	view := store.Current().View
	if in.View != "" {
		v, ok := state.ParseView(in.View)
		if !ok {
			return nil, StateOutput{}, fmt.Errorf("unknown view %q", in.View)
		}
		view = v
	}
	return nil, s.stateOut(store.Dispatch(state.ApplyBookmark{View: view, Bookmark: b})), nil
}

func (s *Server) stateOut(st state.State) StateOutput {
	out := StateOutput{
		Downloads: map[string]string{
			"base_dates":   st.DownloadBaseDatesStatus.String(),
			"base_items":   st.DownloadBaseItemStatus.String(),
			"integrations": st.DownloadIntegrationStatus.String(),
			"statistics":   st.DownloadStatisticsStatus.String(),
			"history":      st.DownloadHistoryStatus.String(),
		},
		DateEffective:      st.DateEffective,
		DateEnd:            st.DateEnd,
		IntegrationDates:   nonNil(st.IntegrationDates),
		StatisticsDates:    nonNil(st.StatisticsDates),
		View:               string(st.View),
		StatTpID:           st.StatTpID,
		Preselect:          st.PreSelect.Label,
		Selected:           selectionOut(st.Selected),
		ShowTechnicalTerms: st.ShowTechnicalTerms,
		ErrorMessage:       st.ErrorMessage,
		Bookmark:           state.BookmarkOf(st).Encode(),
		LastAction:         st.CurrentAction,
	}
	if s.opts.DashboardURL != "" {
		out.URL = s.opts.DashboardURL + "?" + out.Bookmark
	}
	return out
}

func itemExists(cat *tpdb.Catalog, t tpdb.ItemType, id int) bool {
	var ok bool
	switch t {
	case tpdb.Consumer, tpdb.Producer:
		_, ok = cat.Component(id)
	case tpdb.LogicalAddress:
		_, ok = cat.LogicalAddress(id)
	case tpdb.Contract:
		_, ok = cat.Contract(id)
	case tpdb.Domain:
		_, ok = cat.Domain(id)
	case tpdb.PlatformChain:
		_, ok = cat.PlatformChain(id)
	}
	return ok
}

func chartTitle(st state.State, t tpdb.ItemType) string {
	if label, ok := st.PreSelect.LabelMap[t]; ok {
		return label
	}
	return string(t)
}

func selectionOut(sel map[tpdb.ItemType][]int) map[string][]int {
	out := make(map[string][]int, len(sel))
	for t, ids := range sel {
		out[string(t)] = ids
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
