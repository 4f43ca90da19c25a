package tpdb

import (
	"fmt"
)

// ItemType names one dimension of the integration catalog.
type ItemType string

const (
	// Consumer is a calling service component.
	Consumer ItemType = "CONSUMER"
	// Producer is a service component answering calls.
	Producer ItemType = "PRODUCER"
	// LogicalAddress is the routing address a call is made to.
	LogicalAddress ItemType = "LOGICAL_ADDRESS"
	// Contract is a versioned service contract.
	Contract ItemType = "CONTRACT"
	// Domain groups contracts.
	Domain ItemType = "DOMAIN"
	// PlatformChain is the first/middle/last platform path of an integration.
	PlatformChain ItemType = "PLATFORM_CHAIN"
)

// StatItemTypes are the four dimensions statistics are sliced by, in display order.
var StatItemTypes = []ItemType{Consumer, Producer, LogicalAddress, Contract}

// ParseItemType accepts the upper-case name of an item type.
func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(s); t {
	case Consumer, Producer, LogicalAddress, Contract, Domain, PlatformChain:
		return t, nil
	}
	return "", fmt.Errorf("unknown item type %q", s)
}

// Dates holds the dates for which integration and statistics snapshots exist,
// newest first.
type Dates struct {
	Integrations []string `json:"integrations"`
	Statistics   []string `json:"statistics"`
}

// FirstIntegrationDate returns the first entry of the newest-first integration dates, if any.
func (d Dates) FirstIntegrationDate() (string, bool) {
	if len(d.Integrations) == 0 {
		return "", false
	}
	return d.Integrations[0], true
}

// Component is a service consumer or producer.
type Component struct {
	ID          int    `json:"id"`
	HsaID       string `json:"hsaId"`
	Description string `json:"description"`
	Synonym     string `json:"synonym,omitempty"`
}

func (c Component) Name() string { return c.HsaID }
func (c Component) SearchField() string { return c.HsaID + " " + c.Description }

// LogicalAddressItem is the address an integration routes to.
type LogicalAddressItem struct {
	ID          int    `json:"id"`
	Address     string `json:"logicalAddress"`
	Description string `json:"description"`
	Synonym     string `json:"synonym,omitempty"`
}

func (l LogicalAddressItem) Name() string { return l.Address }
func (l LogicalAddressItem) SearchField() string { return l.Address + " " + l.Description }

// ServiceContract is a service contract in a major version.
type ServiceContract struct {
	ID              int    `json:"id"`
	ServiceDomainID int    `json:"serviceDomainId"`
	Name            string `json:"name"`
	Namespace       string `json:"namespace"`
	Major           int    `json:"major"`
	Synonym         string `json:"synonym,omitempty"`
}

// Description is the contract name suffixed with its major version.
func (c ServiceContract) Description() string { return fmt.Sprintf("%s v%d", c.Name, c.Major) }
func (c ServiceContract) SearchField() string { return c.Namespace }

// ServiceDomain groups the contracts that share a domain id.
type ServiceDomain struct {
	ID         int    `json:"id"`
	DomainName string `json:"domainName"`
	Synonym    string `json:"synonym,omitempty"`

	// Contracts is filled in by Catalog.AttachContractsToDomains.
	Contracts []int `json:"-"`
}

// Platform is one service platform installation.
type Platform struct {
	ID           int    `json:"id"`
	Platform     string `json:"platform"`
	Environment  string `json:"environment"`
	SnapshotTime string `json:"snapshotTime"`
	Synonym      string `json:"synonym,omitempty"`
}

func (p Platform) Name() string { return p.Platform + "-" + p.Environment }

// StatisticsPlatform is a platform that delivers call statistics.
type StatisticsPlatform struct {
	ID          int    `json:"id"`
	Platform    string `json:"platform"`
	Environment string `json:"environment"`
	Synonym     string `json:"synonym,omitempty"`
}

func (p StatisticsPlatform) Name() string { return p.Platform + "-" + p.Environment }

// PlatformChainItem is the path an integration takes through one to three platforms.
type PlatformChainItem struct {
	First  int
	Middle int // 0 when the chain has no middle platform
	Last   int
}

// ChainID derives the chain id from its three platform ids.
func ChainID(first, middle, last int) int {
	return first*10000 + middle*100 + last
}

func (c PlatformChainItem) ID() int { return ChainID(c.First, c.Middle, c.Last) }

// platformChainDTO mirrors the wire form [first, middle, last] where any slot may be null.
type platformChainDTO struct {
	ID         int    `json:"id"`
	Plattforms []*int `json:"plattforms"`
}

func (d platformChainDTO) toChain() PlatformChainItem {
	at := func(i int) int {
		if i < len(d.Plattforms) && d.Plattforms[i] != nil {
			return *d.Plattforms[i]
		}
		return 0
	}
	return PlatformChainItem{First: at(0), Middle: at(1), Last: at(2)}
}
