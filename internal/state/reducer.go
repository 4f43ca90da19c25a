package state

import (
	"maps"
	"slices"

	"skoview/internal/preselect"
	"skoview/internal/tpdb"

	"github.com/rs/zerolog/log"
)

// Reducer computes the next State from the current one and an action.
// It performs no I/O; the only side effect is diagnostic logging for
// payloads that are rejected.
type Reducer struct {
	Preselects *preselect.Registry
}

// NewReducer creates a reducer that resets selections to reg's default template.
func NewReducer(reg *preselect.Registry) Reducer {
	return Reducer{Preselects: reg}
}

// Reduce applies a to s. Every action yields a complete state stamped with the action's tag.
func (r Reducer) Reduce(s State, a Action) State {
	next := r.apply(s, a)
	next.CurrentAction = a.Tag()
	return next
}

func (r Reducer) apply(s State, a Action) State {
	switch a := a.(type) {

	case SetDownloadBaseDatesStatus:
		if a.Status == Completed {
			if first, ok := a.Dates.FirstIntegrationDate(); ok {
				s.DateEffective = first
				s.DateEnd = first
			}
			s.DownloadBaseDatesStatus = a.Status
			return s
		}
		// Any other incoming status is recorded as COMPLETED.
		s.DownloadBaseDatesStatus = Completed
		return s

	case StartDownloadBaseItems:
		s.DownloadBaseItemStatus = Initialized
		return s

	case DoneDownloadBaseItems:
		s = s.withDates(a.Dates)
		s.DownloadBaseItemStatus = Completed
		s.DownloadBaseDatesStatus = Completed
		return s

	case ErrorDownloadBaseItems:
		s.DownloadBaseItemStatus = Error
		s.ErrorMessage = a.ErrorMessage
		return s

	case StartDownloadIntegrations:
		s.DownloadIntegrationStatus = Initialized
		return s

	case DoneDownloadIntegrations:
		s.DownloadIntegrationStatus = Completed
		s.IntegrationArrs = slices.Clone(a.IntegrationArrs)
		s.MaxCounters = a.MaxCounters
		s.UpdateDates = slices.Clone(a.UpdateDates)
		s.VServiceConsumersMax = DefaultVMax
		s.VServiceProducersMax = DefaultVMax
		s.VLogicalAddressesMax = DefaultVMax
		return s

	case ErrorDownloadIntegrations:
		s.DownloadIntegrationStatus = Error
		s.ErrorMessage = a.ErrorMessage
		return s

	case StartDownloadStatistics:
		s.DownloadStatisticsStatus = Initialized
		return s

	case DoneDownloadStatistics:
		s.DownloadStatisticsStatus = Completed
		s.StatBlob = NewStatisticsBlob(a.StatisticsArrArr)
		return s

	case ErrorDownloadStatistics:
		s.DownloadStatisticsStatus = Error
		s.ErrorMessage = a.ErrorMessage
		return s

	case StartDownloadHistory:
		s.DownloadHistoryStatus = Initialized
		return s

	case DoneDownloadHistory:
		s.DownloadHistoryStatus = Completed
		s.HistoryMap = maps.Clone(a.HistoryMap)
		if s.HistoryMap == nil {
			s.HistoryMap = map[string]int{}
		}
		return s

	case ErrorDownloadHistory:
		s.DownloadHistoryStatus = Error
		s.ErrorMessage = a.ErrorMessage
		return s

	case ApplyBookmark:
		return r.applyBookmark(s, a.View, a.Bookmark)

	case DateSelected:
		next, ok := s.dateSelected(a.SelectedDate, a.DateType)
		if !ok {
			log.Warn().Str("date", a.SelectedDate).Str("dateType", string(a.DateType)).Msg("Ignoring date outside the loaded integration dates")
		}
		return next

	case StatTpSelected:
		if a.TpID != KeepSelectionTpID {
			s = s.withPreselect(r.Preselects.Default())
		}
		s.StatTpID = a.TpID
		return s

	case ItemIdSelected:
		return s.itemIDToggled(a.ID, a.ViewType)

	case ItemIdDeselected:
		return s.itemIDToggled(a.ID, a.ViewType)

	case SetVMax:
		switch a.Type {
		case tpdb.Consumer:
			s.VServiceConsumersMax = a.Size
		case tpdb.LogicalAddress:
			s.VLogicalAddressesMax = a.Size
		case tpdb.Producer:
			s.VServiceProducersMax = a.Size
		default:
			log.Error().Str("itemType", string(a.Type)).Msg("Internal error in the SetVMax reducer")
		}
		return s

	case ShowTimeGraph:
		return r.setFlag(s, a)

	case ShowTechnicalTerms:
		return r.setFlag(s, a)

	case SetView:
		return r.setNewView(s, a.View)

	case ShowConsumers:
		s.ShowConsumers = a.IsShown
		return s

	case ShowProducers:
		s.ShowProducers = a.IsShown
		return s

	case ShowLogicalAddresses:
		s.ShowLogicalAddresses = a.IsShown
		return s

	case ShowContracts:
		s.ShowContracts = a.IsShown
		return s

	case ShowAllItemTypes:
		return s.withShowAllItemTypes(a.IsShown)

	case LockShowAllItemTypes:
		if a.IsShown {
			s = s.withShowAllItemTypes(true)
			s.LockShowAllItemTypes = true
			return s
		}
		s.LockShowAllItemTypes = false
		return s

	case SetPreselect:
		return s.withPreselect(a.PreSelect)
	}

	log.Error().Str("action", a.Tag()).Msg("Unhandled action in reducer")
	return s
}

func (r Reducer) setFlag(s State, a FlagAction) State {
	next, ok := s.withFlag(a.Flag(), a.Shown())
	if !ok {
		log.Error().Str("flag", string(a.Flag())).Msg("Unknown flag")
	}
	return next
}

// setNewView switches view. A statistics view that hides the active template
// falls back to the default template.
func (r Reducer) setNewView(s State, v View) State {
	if _, ok := ParseView(string(v)); !ok {
		log.Error().Str("view", string(v)).Msg("Unknown view")
		return s
	}
	s.View = v
	switch v {
	case StatSimpleView:
		if !s.PreSelect.ShowInSimpleView {
			s = s.withPreselect(r.Preselects.Default())
		}
	case StatAdvancedView:
		if !s.PreSelect.ShowInAdvancedView {
			s = s.withPreselect(r.Preselects.Default())
		}
	}
	return s
}

// applyBookmark restores the parts of a saved dashboard that are still valid
// for the loaded dates, then switches to view.
func (r Reducer) applyBookmark(s State, v View, b Bookmark) State {
	if b.DateEffective != "" && s.hasIntegrationDate(b.DateEffective) {
		s.DateEffective = b.DateEffective
	}
	if b.DateEnd != "" && s.hasIntegrationDate(b.DateEnd) {
		s.DateEnd = b.DateEnd
	}
	s = s.withFilteredItems(b.Selected)
	if b.StatTpID != 0 {
		s.StatTpID = b.StatTpID
	}
	s.ShowTechnicalTerms = b.ShowTechnicalTerms
	if b.PreSelectLabel != "" {
		if t, ok := r.Preselects.Get(b.PreSelectLabel); ok {
			s.PreSelect = t
		}
	}
	return r.setNewView(s, v)
}
