package tpdb

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// datesDTO is the top-level container of the dates endpoint.
type datesDTO struct {
	Dates Dates `json:"dates"`
}

// Integration is one consumer → producer route in a given snapshot.
type Integration struct {
	FirstPlatformID  int `json:"firstPlatformId"`
	MiddlePlatformID int `json:"middlePlatformId,omitempty"`
	LastPlatformID   int `json:"lastPlatformId"`
	LogicalAddressID int `json:"logicalAddressId"`
	ContractID       int `json:"contractId"`
	DomainID         int `json:"domainId"`
	ConsumerID       int `json:"consumerId"`
	ProducerID       int `json:"producerId"`
}

// PlatformChainID is the chain the integration is routed through.
func (i Integration) PlatformChainID() int {
	return ChainID(i.FirstPlatformID, i.MiddlePlatformID, i.LastPlatformID)
}

// integrationFromRow decodes the wire row
// [firstPlatform, middlePlatform, lastPlatform, logicalAddress, contract, domain, consumer, producer].
func integrationFromRow(row []*int) (Integration, error) {
	if len(row) < 8 {
		return Integration{}, fmt.Errorf("integration row has %d fields, want 8", len(row))
	}
	v := func(i int) int {
		if row[i] == nil {
			return 0
		}
		return *row[i]
	}
	return Integration{
		FirstPlatformID:  v(0),
		MiddlePlatformID: v(1),
		LastPlatformID:   v(2),
		LogicalAddressID: v(3),
		ContractID:       v(4),
		DomainID:         v(5),
		ConsumerID:       v(6),
		ProducerID:       v(7),
	}, nil
}

// MaxCounters holds the number of distinct items of each type in an integration answer.
type MaxCounters struct {
	Consumers        int `json:"consumers"`
	Contracts        int `json:"contracts"`
	Domains          int `json:"domains"`
	PlatformChains   int `json:"plattformChains"`
	LogicalAddresses int `json:"logicalAddress"`
	Producers        int `json:"producers"`
}

// integrationsDTO is the response of the integrations endpoint.
type integrationsDTO struct {
	Integrations [][]*int    `json:"integrations"`
	MaxCounters  MaxCounters `json:"maxCounters"`
	UpdateDates  []string    `json:"updateDates"`
}

// IntegrationsResult is the decoded integrations answer.
type IntegrationsResult struct {
	Integrations []Integration
	MaxCounters  MaxCounters
	UpdateDates  []string
}

func (d integrationsDTO) decode() (IntegrationsResult, error) {
	res := IntegrationsResult{
		Integrations: make([]Integration, 0, len(d.Integrations)),
		MaxCounters:  d.MaxCounters,
		UpdateDates:  d.UpdateDates,
	}
	for i, row := range d.Integrations {
		in, err := integrationFromRow(row)
		if err != nil {
			return IntegrationsResult{}, fmt.Errorf("row %d: %w", i, err)
		}
		res.Integrations = append(res.Integrations, in)
	}
	return res, nil
}

// statisticsDTO carries rows of [consumer, producer, logicalAddress, contract, calls].
type statisticsDTO struct {
	Statistics [][]int `json:"statistics"`
}

// historyDTO maps a date to the number of calls that day.
type historyDTO struct {
	History map[string]int `json:"history"`
}

// Query selects the snapshot and filters for integration, statistics and history requests.
type Query struct {
	DateEffective string
	DateEnd       string
	StatTpID      int
	Selected      map[ItemType][]int
}

var queryParams = map[ItemType]string{
	Consumer:       "consumerId",
	Producer:       "producerId",
	LogicalAddress: "logicalAddressId",
	Contract:       "contractId",
	Domain:         "domainId",
	PlatformChain:  "plattformChainId",
}

// Values encodes the query as URL parameters in a stable order.
func (q Query) Values() url.Values {
	params := url.Values{}
	if q.DateEffective != "" {
		params.Set("dateEffective", q.DateEffective)
	}
	if q.DateEnd != "" {
		params.Set("dateEnd", q.DateEnd)
	}
	if q.StatTpID != 0 {
		params.Set("statPlattformId", strconv.Itoa(q.StatTpID))
	}

	types := make([]string, 0, len(q.Selected))
	for t := range q.Selected {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		ids := q.Selected[ItemType(t)]
		name, ok := queryParams[ItemType(t)]
		if !ok || len(ids) == 0 {
			continue
		}
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.Itoa(id)
		}
		params.Set(name, strings.Join(parts, ","))
	}
	return params
}
