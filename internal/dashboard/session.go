package dashboard

import (
	"context"
	"fmt"
	"sync"

	"skoview/internal/state"
	"skoview/internal/statview"
	"skoview/internal/tpdb"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Session drives one dashboard: it performs the TPDB downloads and reports
// each one to the store as a Start/Done/Error action sequence.
type Session struct {
	client tpdb.Client
	store  *state.Store

	flight  singleflight.Group
	mu      sync.RWMutex
	catalog *tpdb.Catalog
}

// NewSession creates a session reading from client and dispatching to store.
func NewSession(client tpdb.Client, store *state.Store) *Session {
	return &Session{client: client, store: store}
}

func (s *Session) Store() *state.Store { return s.store }

// Catalog returns the loaded catalog, loading it on first use. Concurrent
// callers share a single download; a caller whose ctx ends stops waiting
// without cancelling the download for the others.
func (s *Session) Catalog(ctx context.Context) (*tpdb.Catalog, error) {
	s.mu.RLock()
	cat := s.catalog
	s.mu.RUnlock()
	if cat != nil {
		return cat, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan("catalog", func() (any, error) {
		s.store.Dispatch(state.StartDownloadBaseItems{})
		cat, err := s.client.LoadBaseItems(loadCtx)
		if err != nil {
			s.store.Dispatch(state.ErrorDownloadBaseItems{ErrorMessage: err.Error()})
			return nil, fmt.Errorf("failed to load base items: %w", err)
		}
		s.store.Dispatch(state.DoneDownloadBaseItems{Dates: cat.Dates})

		s.mu.Lock()
		s.catalog = cat
		s.mu.Unlock()
		return cat, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*tpdb.Catalog), nil
	}
}

// LoadIntegrations fetches the integrations of the current selection.
func (s *Session) LoadIntegrations(ctx context.Context) (state.State, error) {
	q := s.store.Current().Query()
	s.store.Dispatch(state.StartDownloadIntegrations{})
	res, err := s.client.Integrations(ctx, q)
	if err != nil {
		return s.store.Dispatch(state.ErrorDownloadIntegrations{ErrorMessage: err.Error()}), err
	}
	log.Debug().Int("count", len(res.Integrations)).Msg("Integrations loaded")
	return s.store.Dispatch(state.DoneDownloadIntegrations{
		IntegrationArrs: res.Integrations,
		MaxCounters:     res.MaxCounters,
		UpdateDates:     res.UpdateDates,
	}), nil
}

// LoadStatistics fetches call statistics of the current selection.
func (s *Session) LoadStatistics(ctx context.Context) (state.State, error) {
	q := s.store.Current().Query()
	s.store.Dispatch(state.StartDownloadStatistics{})
	rows, err := s.client.Statistics(ctx, q)
	if err != nil {
		return s.store.Dispatch(state.ErrorDownloadStatistics{ErrorMessage: err.Error()}), err
	}
	log.Debug().Int("rows", len(rows)).Msg("Statistics loaded")
	return s.store.Dispatch(state.DoneDownloadStatistics{StatisticsArrArr: rows}), nil
}

// LoadHistory fetches the calls-per-day history of the current selection.
func (s *Session) LoadHistory(ctx context.Context) (state.State, error) {
	q := s.store.Current().Query()
	s.store.Dispatch(state.StartDownloadHistory{})
	hist, err := s.client.History(ctx, q)
	if err != nil {
		return s.store.Dispatch(state.ErrorDownloadHistory{ErrorMessage: err.Error()}), err
	}
	return s.store.Dispatch(state.DoneDownloadHistory{HistoryMap: hist}), nil
}

// StatisticsView loads the catalog and the statistics of the current
// selection and aggregates them into display lists.
func (s *Session) StatisticsView(ctx context.Context) (statview.View, state.State, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return statview.View{}, s.store.Current(), err
	}
	st, err := s.LoadStatistics(ctx)
	if err != nil {
		return statview.View{}, st, fmt.Errorf("failed to load statistics: %w", err)
	}
	view, err := statview.Build(cat, st)
	if err != nil {
		return statview.View{}, st, err
	}
	return view, st, nil
}
