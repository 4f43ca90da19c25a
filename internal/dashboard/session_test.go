package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"skoview/internal/preselect"
	"skoview/internal/state"
	"skoview/internal/tpdb"
	"skoview/internal/tpdb/tpdbtest"
)

func newSession(client tpdb.Client) *Session {
	return NewSession(client, state.NewStore(preselect.Builtin()))
}

func TestSession_CatalogLoadsOnce(t *testing.T) {
	fake := &tpdbtest.Fake{}
	s := newSession(fake)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Catalog(context.Background()); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if _, err := s.Catalog(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Concurrent callers may each start a flight before the first one lands,
	// but once cached no further loads happen.
	loads := fake.BaseItemLoads.Load()
	if _, err := s.Catalog(context.Background()); err != nil {
		t.Fatal(err)
	}
	if fake.BaseItemLoads.Load() != loads {
		t.Errorf("catalog reloaded after it was cached")
	}

	st := s.Store().Current()
	if st.DownloadBaseItemStatus != state.Completed {
		t.Errorf("base item status = %v", st.DownloadBaseItemStatus)
	}
	if st.DateEffective != "2021-03-02" || st.DateEnd != "2021-03-02" {
		t.Errorf("dates not seeded: %q %q", st.DateEffective, st.DateEnd)
	}
}

func TestSession_CatalogCancelledCallerDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	fake := &tpdbtest.Fake{
		LoadBaseItemsFunc: func(ctx context.Context) (*tpdb.Catalog, error) {
			once.Do(func() { close(started) })
			<-release
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return tpdbtest.Catalog(), nil
		},
	}
	s := newSession(fake)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Catalog(ctx)
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := s.Catalog(context.Background())
		secondErr <- err
	}()

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller err = %v, want context.Canceled", err)
	}
	close(release)
	if err := <-secondErr; err != nil {
		t.Fatalf("waiting caller failed: %v", err)
	}
	if st := s.Store().Current(); st.DownloadBaseItemStatus != state.Completed {
		t.Errorf("base item status = %v", st.DownloadBaseItemStatus)
	}
}

func TestSession_CatalogFailure(t *testing.T) {
	fake := &tpdbtest.Fake{
		LoadBaseItemsFunc: func(context.Context) (*tpdb.Catalog, error) {
			return nil, tpdbtest.ErrUnavailable
		},
	}
	s := newSession(fake)

	_, err := s.Catalog(context.Background())
	if !errors.Is(err, tpdbtest.ErrUnavailable) {
		t.Fatalf("err = %v", err)
	}
	st := s.Store().Current()
	if st.DownloadBaseItemStatus != state.Error || st.ErrorMessage != tpdbtest.ErrUnavailable.Error() {
		t.Errorf("state = %v %q", st.DownloadBaseItemStatus, st.ErrorMessage)
	}

	// A failed load is not cached.
	fake.LoadBaseItemsFunc = nil
	if _, err := s.Catalog(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestSession_StatisticsView(t *testing.T) {
	fake := &tpdbtest.Fake{}
	s := newSession(fake)
	s.Store().Dispatch(state.ItemIdSelected{ID: 434, ViewType: tpdb.Consumer})

	view, st, err := s.StatisticsView(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.DownloadStatisticsStatus != state.Completed {
		t.Errorf("statistics status = %v", st.DownloadStatisticsStatus)
	}
	if len(view.Consumers) != 2 || view.Consumers[0].ItemID != 434 || view.Consumers[0].Calls != 120 {
		t.Errorf("consumers = %+v", view.Consumers)
	}
	if view.Consumers[0].Description != "1177 Journalen" {
		t.Errorf("synonym not used: %q", view.Consumers[0].Description)
	}

	last := fake.Queries[len(fake.Queries)-1]
	if last.DateEffective != "2021-03-02" || len(last.Selected[tpdb.Consumer]) != 1 {
		t.Errorf("query = %+v", last)
	}
}

func TestSession_StatisticsFailure(t *testing.T) {
	fake := &tpdbtest.Fake{
		StatisticsFunc: func(context.Context, tpdb.Query) ([][]int, error) {
			return nil, tpdbtest.ErrUnavailable
		},
	}
	s := newSession(fake)

	_, st, err := s.StatisticsView(context.Background())
	if !errors.Is(err, tpdbtest.ErrUnavailable) {
		t.Fatalf("err = %v", err)
	}
	if st.DownloadStatisticsStatus != state.Error {
		t.Errorf("statistics status = %v", st.DownloadStatisticsStatus)
	}
}

func TestSession_HistoryAndIntegrations(t *testing.T) {
	fake := &tpdbtest.Fake{
		IntegrationsFunc: func(context.Context, tpdb.Query) (tpdb.IntegrationsResult, error) {
			return tpdb.IntegrationsResult{
				Integrations: []tpdb.Integration{{ConsumerID: 434, ProducerID: 865}},
				UpdateDates:  []string{"2021-03-02"},
			}, nil
		},
	}
	s := newSession(fake)

	st, err := s.LoadHistory(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.DownloadHistoryStatus != state.Completed || st.HistoryMap["2021-03-02"] != 30 {
		t.Errorf("history state = %v %v", st.DownloadHistoryStatus, st.HistoryMap)
	}

	st, err = s.LoadIntegrations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.DownloadIntegrationStatus != state.Completed || len(st.IntegrationArrs) != 1 {
		t.Errorf("integration state = %v %v", st.DownloadIntegrationStatus, st.IntegrationArrs)
	}
}

func TestSession_Select(t *testing.T) {
	s := newSession(&tpdbtest.Fake{})
	ctx := context.Background()
	technical := true

	st, err := s.Select(ctx, Selection{
		DateEffective:  "2021-02-01",
		DateEnd:        "2021-03-01",
		Preselect:      "Journalen",
		StatTpID:       4,
		TechnicalTerms: &technical,
	})
	if err != nil {
		t.Fatal(err)
	}
	if st.DateEffective != "2021-02-01" || st.DateEnd != "2021-03-01" {
		t.Errorf("dates = %s..%s", st.DateEffective, st.DateEnd)
	}
	// The template survives because the platform is applied before it.
	if st.PreSelect.Label != "Journalen" || st.StatTpID != 4 || !st.ShowTechnicalTerms {
		t.Errorf("state = %+v", st)
	}
	if !st.IsSelected(tpdb.Consumer, 865) {
		t.Errorf("template selection not applied: %v", st.Selected)
	}

	for _, sel := range []Selection{
		{DateEnd: "1999-12-31"},
		{Preselect: "Okänd"},
		{StatTpID: 42},
	} {
		if _, err := s.Select(ctx, sel); !errors.Is(err, ErrInvalidSelection) {
			t.Errorf("Select(%+v) err = %v, want ErrInvalidSelection", sel, err)
		}
	}
}
