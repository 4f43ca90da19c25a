package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skoview/internal/preselect"
	"skoview/internal/state"
)

// ErrInvalidSelection is wrapped by every Select failure caused by its arguments.
var ErrInvalidSelection = errors.New("invalid selection")

// Selection is a set of changes to apply to the dashboard. Zero fields are left as they are.
type Selection struct {
	DateEffective  string
	DateEnd        string
	Preselect      string
	StatTpID       int
	TechnicalTerms *bool
}

// Select validates sel against the catalog and dispatches it. Changes made
// before an invalid field is reached stay applied.
func (s *Session) Select(ctx context.Context, sel Selection) (state.State, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return s.store.Current(), err
	}

	// A platform change resets the template, so it goes first.
	if sel.StatTpID != 0 {
		if _, ok := cat.StatisticsPlatform(sel.StatTpID); !ok && sel.StatTpID != state.KeepSelectionTpID {
			return s.store.Current(), fmt.Errorf("%w: unknown statistics platform %d", ErrInvalidSelection, sel.StatTpID)
		}
		s.store.Dispatch(state.StatTpSelected{TpID: sel.StatTpID})
	}
	if sel.Preselect != "" {
		t, err := lookupPreselect(s.store.Preselects(), sel.Preselect)
		if err != nil {
			return s.store.Current(), err
		}
		s.store.Dispatch(state.SetPreselect{PreSelect: t})
	}
	if err := s.selectDate(sel.DateEffective, state.DateEffective); err != nil {
		return s.store.Current(), err
	}
	if err := s.selectDate(sel.DateEnd, state.DateEnd); err != nil {
		return s.store.Current(), err
	}
	if sel.TechnicalTerms != nil {
		s.store.Dispatch(state.ShowTechnicalTerms{IsShown: *sel.TechnicalTerms})
	}
	return s.store.Current(), nil
}

func (s *Session) selectDate(date string, dt state.DateType) error {
	if date == "" {
		return nil
	}
	st := s.store.Dispatch(state.DateSelected{SelectedDate: date, DateType: dt})
	got := st.DateEffective
	if dt == state.DateEnd {
		got = st.DateEnd
	}
	if got != date {
		return fmt.Errorf("%w: no snapshot for %s; available dates: %s", ErrInvalidSelection, date, strings.Join(st.IntegrationDates, ", "))
	}
	return nil
}

func lookupPreselect(reg *preselect.Registry, label string) (preselect.Template, error) {
	if t, ok := reg.Get(label); ok {
		return t, nil
	}
	var labels []string
	for _, t := range reg.All() {
		labels = append(labels, t.Label)
	}
	return preselect.Template{}, fmt.Errorf("%w: unknown preselect %q. Available: %s", ErrInvalidSelection, label, strings.Join(labels, ", "))
}
