package state

import (
	"slices"

	"skoview/internal/preselect"
	"skoview/internal/tpdb"
)

// State is the complete snapshot the dashboard renders from. It is replaced
// wholesale on every dispatched action and must be treated as read-only;
// slices and maps inside it are never modified after the snapshot is built.
type State struct {
	// Download status, one per asynchronous resource.
	DownloadBaseDatesStatus   AsyncStatus `json:"downloadBaseDatesStatus"`
	DownloadBaseItemStatus    AsyncStatus `json:"downloadBaseItemStatus"`
	DownloadIntegrationStatus AsyncStatus `json:"downloadIntegrationStatus"`
	DownloadStatisticsStatus  AsyncStatus `json:"downloadStatisticsStatus"`
	DownloadHistoryStatus     AsyncStatus `json:"downloadHistoryStatus"`

	// Dates known from the last base-items load, newest first.
	IntegrationDates []string `json:"integrationDates"`
	StatisticsDates  []string `json:"statisticsDates"`

	DateEffective string `json:"dateEffective"`
	DateEnd       string `json:"dateEnd"`

	IntegrationArrs []tpdb.Integration `json:"integrationArrs"`
	MaxCounters     tpdb.MaxCounters   `json:"maxCounters"`
	UpdateDates     []string           `json:"updateDates"`

	VServiceConsumersMax int `json:"vServiceConsumersMax"`
	VServiceProducersMax int `json:"vServiceProducersMax"`
	VLogicalAddressesMax int `json:"vLogicalAddressesMax"`

	// Selected holds the selected item ids per type.
	Selected map[tpdb.ItemType][]int `json:"selected"`

	ShowConsumers        bool `json:"showConsumers"`
	ShowProducers        bool `json:"showProducers"`
	ShowLogicalAddresses bool `json:"showLogicalAddresses"`
	ShowContracts        bool `json:"showContracts"`
	ShowTechnicalTerms   bool `json:"showTechnicalTerms"`
	ShowTimeGraph        bool `json:"showTimeGraph"`
	ShowAllItemTypes     bool `json:"showAllItemTypes"`
	LockShowAllItemTypes bool `json:"lockShowAllItemTypes"`

	View      View               `json:"view"`
	StatTpID  int                `json:"statTpId"`
	PreSelect preselect.Template `json:"preSelect"`

	StatBlob   StatisticsBlob `json:"statBlob"`
	HistoryMap map[string]int `json:"historyMap"`

	ErrorMessage string `json:"errorMessage,omitempty"`
	// CurrentAction is the tag of the last applied action, for tracing only.
	CurrentAction string `json:"currentAction"`
}

// Initial returns the snapshot the dashboard starts from.
func Initial(reg *preselect.Registry) State {
	return State{
		DownloadBaseDatesStatus:   Unstarted,
		DownloadBaseItemStatus:    Unstarted,
		DownloadIntegrationStatus: Unstarted,
		DownloadStatisticsStatus:  Unstarted,
		DownloadHistoryStatus:     Unstarted,
		IntegrationDates:          []string{},
		StatisticsDates:           []string{},
		IntegrationArrs:           []tpdb.Integration{},
		UpdateDates:               []string{},
		VServiceConsumersMax:      DefaultVMax,
		VServiceProducersMax:      DefaultVMax,
		VLogicalAddressesMax:      DefaultVMax,
		Selected:                  map[tpdb.ItemType][]int{},
		ShowConsumers:             true,
		ShowProducers:             true,
		ShowLogicalAddresses:      true,
		ShowContracts:             true,
		View:                      StatSimpleView,
		StatTpID:                  KeepSelectionTpID,
		PreSelect:                 reg.Default(),
		StatBlob:                  NewStatisticsBlob(nil),
		HistoryMap:                map[string]int{},
		CurrentAction:             "Init",
	}
}

// SelectedIDs returns the selected ids for t. The result must not be modified.
func (s State) SelectedIDs(t tpdb.ItemType) []int {
	return s.Selected[t]
}

// IsSelected reports whether id is selected for t.
func (s State) IsSelected(t tpdb.ItemType, id int) bool {
	return slices.Contains(s.Selected[t], id)
}

// Query describes the snapshot and filters of the current selection for TPDB requests.
func (s State) Query() tpdb.Query {
	return tpdb.Query{
		DateEffective: s.DateEffective,
		DateEnd:       s.DateEnd,
		StatTpID:      s.StatTpID,
		Selected:      s.Selected,
	}
}

// AdvancedMode reports whether the statistics page shows the advanced controls.
func (s State) AdvancedMode() bool {
	return s.View == StatAdvancedView
}

func (s State) hasIntegrationDate(date string) bool {
	return slices.Contains(s.IntegrationDates, date)
}

// withDates installs the loaded date lists and seeds the range from the newest integration date.
func (s State) withDates(d tpdb.Dates) State {
	s.IntegrationDates = slices.Clone(d.Integrations)
	s.StatisticsDates = slices.Clone(d.Statistics)
	if first, ok := d.FirstIntegrationDate(); ok {
		s.DateEffective = first
		s.DateEnd = first
	}
	return s
}

func (s State) dateSelected(date string, dateType DateType) (State, bool) {
	if len(s.IntegrationDates) > 0 && !s.hasIntegrationDate(date) {
		return s, false
	}
	switch dateType {
	case DateEffective:
		s.DateEffective = date
	case DateEnd:
		s.DateEnd = date
	default:
		return s, false
	}
	return s, true
}

// itemIDToggled flips the membership of id in the selection for t.
func (s State) itemIDToggled(id int, t tpdb.ItemType) State {
	current := s.Selected[t]
	var next []int
	if slices.Contains(current, id) {
		next = slices.DeleteFunc(slices.Clone(current), func(v int) bool { return v == id })
	} else {
		next = append(slices.Clone(current), id)
	}

	sel := cloneSelection(s.Selected)
	if len(next) == 0 {
		delete(sel, t)
	} else {
		sel[t] = next
	}
	s.Selected = sel
	return s
}

// withFilteredItems replaces every selection with the ids in filter.
// Each id is kept once so a later toggle removes it completely.
func (s State) withFilteredItems(filter map[tpdb.ItemType][]int) State {
	sel := make(map[tpdb.ItemType][]int, len(filter))
	for t, ids := range filter {
		if len(ids) > 0 {
			sel[t] = uniqueIDs(ids)
		}
	}
	s.Selected = sel
	return s
}

// uniqueIDs returns ids without repeats, in first-seen order.
func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s State) withPreselect(t preselect.Template) State {
	s = s.withFilteredItems(t.SelectedItems)
	s.PreSelect = t
	return s
}

func (s State) withFlag(f Flag, on bool) (State, bool) {
	switch f {
	case FlagTimeGraph:
		s.ShowTimeGraph = on
	case FlagTechnicalTerms:
		s.ShowTechnicalTerms = on
	default:
		return s, false
	}
	return s, true
}

// withShowAllItemTypes sets the composite flag together with the four per-type flags.
// While locked, the composite flag cannot be turned off.
func (s State) withShowAllItemTypes(on bool) State {
	if s.LockShowAllItemTypes && !on {
		return s
	}
	s.ShowAllItemTypes = on
	s.ShowConsumers = on
	s.ShowProducers = on
	s.ShowLogicalAddresses = on
	s.ShowContracts = on
	return s
}

func cloneSelection(sel map[tpdb.ItemType][]int) map[tpdb.ItemType][]int {
	out := make(map[tpdb.ItemType][]int, len(sel))
	for t, ids := range sel {
		out[t] = ids
	}
	return out
}
