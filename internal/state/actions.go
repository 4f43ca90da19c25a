package state

import (
	"skoview/internal/preselect"
	"skoview/internal/tpdb"
)

// Action is one user or system event. The set is closed: only the types in
// this file implement it.
type Action interface {
	// Tag is the action name recorded in State.CurrentAction.
	Tag() string
	isAction()
}

// FlagAction is an action that sets a single named boolean flag.
type FlagAction interface {
	Action
	Flag() Flag
	Shown() bool
}

type action struct{}

func (action) isAction() {}

type SetDownloadBaseDatesStatus struct {
	action
	Status AsyncStatus
	Dates  tpdb.Dates
}

type StartDownloadBaseItems struct{ action }

// DoneDownloadBaseItems is dispatched after every reference table has loaded
// and contracts have been attached to their domains.
type DoneDownloadBaseItems struct {
	action
	Dates tpdb.Dates
}

type ErrorDownloadBaseItems struct {
	action
	ErrorMessage string
}

type StartDownloadIntegrations struct{ action }

type DoneDownloadIntegrations struct {
	action
	IntegrationArrs []tpdb.Integration
	MaxCounters     tpdb.MaxCounters
	UpdateDates     []string
}

type ErrorDownloadIntegrations struct {
	action
	ErrorMessage string
}

type StartDownloadStatistics struct{ action }

// DoneDownloadStatistics carries raw rows of [consumer, producer, logicalAddress, contract, calls].
type DoneDownloadStatistics struct {
	action
	StatisticsArrArr [][]int
}

type ErrorDownloadStatistics struct {
	action
	ErrorMessage string
}

type StartDownloadHistory struct{ action }

type DoneDownloadHistory struct {
	action
	HistoryMap map[string]int
}

type ErrorDownloadHistory struct {
	action
	ErrorMessage string
}

type ApplyBookmark struct {
	action
	View     View
	Bookmark Bookmark
}

type DateSelected struct {
	action
	SelectedDate string
	DateType     DateType
}

// StatTpSelected picks the statistics platform.
type StatTpSelected struct {
	action
	TpID int
}

type ItemIdSelected struct {
	action
	ID       int
	ViewType tpdb.ItemType
}

type ItemIdDeselected struct {
	action
	ID       int
	ViewType tpdb.ItemType
}

// SetVMax sets how many items of Type are listed.
type SetVMax struct {
	action
	Type tpdb.ItemType
	Size int
}

type ShowTimeGraph struct {
	action
	IsShown bool
}

type ShowTechnicalTerms struct {
	action
	IsShown bool
}

type SetView struct {
	action
	View View
}

type ShowConsumers struct {
	action
	IsShown bool
}

type ShowProducers struct {
	action
	IsShown bool
}

type ShowLogicalAddresses struct {
	action
	IsShown bool
}

type ShowContracts struct {
	action
	IsShown bool
}

type ShowAllItemTypes struct {
	action
	IsShown bool
}

type LockShowAllItemTypes struct {
	action
	IsShown bool
}

type SetPreselect struct {
	action
	PreSelect preselect.Template
}

func (SetDownloadBaseDatesStatus) Tag() string { return "SetDownloadBaseDatesStatus" }
func (StartDownloadBaseItems) Tag() string { return "StartDownloadBaseItems" }
func (DoneDownloadBaseItems) Tag() string { return "DoneDownloadBaseItems" }
func (ErrorDownloadBaseItems) Tag() string { return "ErrorDownloadBaseItems" }
func (StartDownloadIntegrations) Tag() string { return "StartDownloadIntegrations" }
func (DoneDownloadIntegrations) Tag() string { return "DoneDownloadIntegrations" }
func (ErrorDownloadIntegrations) Tag() string { return "ErrorDownloadIntegrations" }
func (StartDownloadStatistics) Tag() string { return "StartDownloadStatistics" }
func (DoneDownloadStatistics) Tag() string { return "DoneDownloadStatistics" }
func (ErrorDownloadStatistics) Tag() string { return "ErrorDownloadStatistics" }
func (StartDownloadHistory) Tag() string { return "StartDownloadHistory" }
func (DoneDownloadHistory) Tag() string { return "DoneDownloadHistory" }
func (ErrorDownloadHistory) Tag() string { return "ErrorDownloadHistory" }
func (ApplyBookmark) Tag() string { return "ApplyBookmark" }
func (DateSelected) Tag() string { return "DateSelected" }
func (StatTpSelected) Tag() string { return "StatTpSelected" }
func (ItemIdSelected) Tag() string { return "ItemIdSelected" }
func (ItemIdDeselected) Tag() string { return "ItemIdDeselected" }
func (SetVMax) Tag() string { return "SetVMax" }
func (ShowTimeGraph) Tag() string { return "ShowTimeGraph" }
func (ShowTechnicalTerms) Tag() string { return "ShowTechnicalTerms" }
func (SetView) Tag() string { return "SetView" }
func (ShowConsumers) Tag() string { return "ShowConsumers" }
func (ShowProducers) Tag() string { return "ShowProducers" }
func (ShowLogicalAddresses) Tag() string { return "ShowLogicalAddresses" }
func (ShowContracts) Tag() string { return "ShowContracts" }
func (ShowAllItemTypes) Tag() string { return "ShowAllItemTypes" }
func (LockShowAllItemTypes) Tag() string { return "LockShowAllItemTypes" }
func (SetPreselect) Tag() string { return "SetPreselect" }

func (a ShowTimeGraph) Flag() Flag { return FlagTimeGraph }
func (a ShowTimeGraph) Shown() bool { return a.IsShown }
func (a ShowTechnicalTerms) Flag() Flag { return FlagTechnicalTerms }
func (a ShowTechnicalTerms) Shown() bool { return a.IsShown }
