package state

// AsyncStatus tracks the lifecycle of one asynchronous download.
type AsyncStatus int

const (
	Unstarted AsyncStatus = iota
	Initialized
	Completed
	Error
)

func (s AsyncStatus) String() string {
	switch s {
	case Unstarted:
		return "UNSTARTED"
	case Initialized:
		return "INITIALIZED"
	case Completed:
		return "COMPLETED"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

// DateType selects which end of the date range a DateSelected action updates.
type DateType string

const (
	DateEffective DateType = "EFFECTIVE"
	DateEnd       DateType = "END"
)

// View identifies the page the dashboard shows.
type View string

const (
	// HippoView browses integrations.
	HippoView View = "HIPPO"
	// StatSimpleView shows statistics with a reduced set of controls.
	StatSimpleView View = "STAT_SIMPLE"
	// StatAdvancedView shows statistics with all item types and filters.
	StatAdvancedView View = "STAT_ADVANCED"
)

// ParseView accepts the upper-case name of a view.
func ParseView(s string) (View, bool) {
	switch v := View(s); v {
	case HippoView, StatSimpleView, StatAdvancedView:
		return v, true
	}
	return "", false
}

// Flag names a boolean display toggle that is set through a FlagAction.
type Flag string

const (
	FlagTimeGraph      Flag = "timeGraph"
	FlagTechnicalTerms Flag = "technicalTerms"
)

// DefaultVMax is the number of items shown per type before "show more".
const DefaultVMax = 100

// KeepSelectionTpID is the statistics platform that keeps the current item
// selection when chosen; every other platform resets it to the default template.
// TODO: read this from the statPlattforms table once TPDB flags the national platform.
const KeepSelectionTpID = 3
