package metrics

import (
	"testing"

	"skoview/internal/preselect"
	"skoview/internal/state"
	"skoview/internal/tpdb"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserver_CountsActionsAndErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewObserver(reg)
	st := state.NewStore(preselect.Builtin(), o)

	st.Dispatch(state.StartDownloadStatistics{})
	st.Dispatch(state.ErrorDownloadStatistics{ErrorMessage: "timeout"})
	st.Dispatch(state.ErrorDownloadStatistics{ErrorMessage: "timeout again"})
	st.Dispatch(state.ItemIdSelected{ID: 1, ViewType: tpdb.Consumer})
	st.Dispatch(state.ItemIdSelected{ID: 2, ViewType: tpdb.Consumer})

	if got := testutil.ToFloat64(o.actionsTotal.WithLabelValues("ErrorDownloadStatistics")); got != 2 {
		t.Errorf("ErrorDownloadStatistics count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(o.downloadErrors.WithLabelValues("statistics")); got != 1 {
		t.Errorf("statistics errors = %v, want 1 (only the transition counts)", got)
	}
	if got := testutil.ToFloat64(o.downloadStatus.WithLabelValues("statistics")); got != float64(state.Error) {
		t.Errorf("statistics status = %v", got)
	}
	if got := testutil.ToFloat64(o.selectedItems.WithLabelValues("CONSUMER")); got != 2 {
		t.Errorf("selected consumers = %v, want 2", got)
	}

	st.Dispatch(state.StatTpSelected{TpID: 4})
	if got := testutil.ToFloat64(o.selectedItems.WithLabelValues("CONSUMER")); got != 0 {
		t.Errorf("selected consumers after reset = %v, want 0", got)
	}
}
