// Package tpdbtest provides an in-memory tpdb.Client for tests.
package tpdbtest

import (
	"context"
	"errors"
	"sync/atomic"

	"skoview/internal/tpdb"
)

// Fake is a tpdb.Client whose responses are set per call. A nil func falls
// back to the canned data.
type Fake struct {
	LoadBaseItemsFunc func(ctx context.Context) (*tpdb.Catalog, error)
	IntegrationsFunc  func(ctx context.Context, q tpdb.Query) (tpdb.IntegrationsResult, error)
	StatisticsFunc    func(ctx context.Context, q tpdb.Query) ([][]int, error)
	HistoryFunc       func(ctx context.Context, q tpdb.Query) (map[string]int, error)

	BaseItemLoads atomic.Int32
	Queries       []tpdb.Query
}

var _ tpdb.Client = (*Fake)(nil)

// ErrUnavailable is what a Fake returns when told to fail.
var ErrUnavailable = errors.New("tpdb unavailable")

func (f *Fake) LoadBaseItems(ctx context.Context) (*tpdb.Catalog, error) {
	f.BaseItemLoads.Add(1)
	if f.LoadBaseItemsFunc != nil {
		return f.LoadBaseItemsFunc(ctx)
	}
	return Catalog(), nil
}

func (f *Fake) Integrations(ctx context.Context, q tpdb.Query) (tpdb.IntegrationsResult, error) {
	f.Queries = append(f.Queries, q)
	if f.IntegrationsFunc != nil {
		return f.IntegrationsFunc(ctx, q)
	}
	return tpdb.IntegrationsResult{}, nil
}

func (f *Fake) Statistics(ctx context.Context, q tpdb.Query) ([][]int, error) {
	f.Queries = append(f.Queries, q)
	if f.StatisticsFunc != nil {
		return f.StatisticsFunc(ctx, q)
	}
	return StatisticsRows(), nil
}

func (f *Fake) History(ctx context.Context, q tpdb.Query) (map[string]int, error) {
	f.Queries = append(f.Queries, q)
	if f.HistoryFunc != nil {
		return f.HistoryFunc(ctx, q)
	}
	return map[string]int{"2021-03-01": 12, "2021-03-02": 30}, nil
}

// Catalog returns a small frozen catalog that covers every id in StatisticsRows.
func Catalog() *tpdb.Catalog {
	cat := tpdb.NewCatalog()
	cat.Dates = tpdb.Dates{
		Integrations: []string{"2021-03-02", "2021-03-01", "2021-02-01"},
		Statistics:   []string{"2021-03-02", "2021-03-01"},
	}
	must(cat.AddComponents(
		tpdb.Component{ID: 434, HsaID: "SE2321000016-A1", Description: "Journalen", Synonym: "1177 Journalen"},
		tpdb.Component{ID: 693, HsaID: "SE2321000016-B2", Description: "NPÖ"},
		tpdb.Component{ID: 865, HsaID: "SE2321000016-C3", Description: "Cosmic"},
		tpdb.Component{ID: 866, HsaID: "SE2321000016-D4", Description: "TakeCare"},
	))
	must(cat.AddLogicalAddresses(
		tpdb.LogicalAddressItem{ID: 5, Address: "SE2321000016-1234", Description: "Region Norr"},
		tpdb.LogicalAddressItem{ID: 6, Address: "SE2321000016-5678", Description: "Region Syd"},
	))
	must(cat.AddDomains(tpdb.ServiceDomain{ID: 1, DomainName: "crm:scheduling"}))
	must(cat.AddContracts(
		tpdb.ServiceContract{ID: 117, ServiceDomainID: 1, Name: "GetBookings", Namespace: "urn:riv:crm:scheduling:GetBookingsResponder:1", Major: 1, Synonym: "Bokningar"},
		tpdb.ServiceContract{ID: 118, ServiceDomainID: 1, Name: "MakeBooking", Namespace: "urn:riv:crm:scheduling:MakeBookingResponder:1", Major: 1},
	))
	must(cat.AddStatisticsPlatforms(
		tpdb.StatisticsPlatform{ID: 3, Platform: "SLL", Environment: "PROD"},
		tpdb.StatisticsPlatform{ID: 4, Platform: "NTJP", Environment: "PROD"},
	))
	must(cat.AttachContractsToDomains())
	cat.Freeze()
	return cat
}

// StatisticsRows returns rows of [consumer, producer, logicalAddress, contract, calls].
func StatisticsRows() [][]int {
	return [][]int{
		{434, 865, 5, 117, 100},
		{434, 866, 6, 118, 20},
		{693, 865, 5, 117, 50},
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
