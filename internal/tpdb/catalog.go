package tpdb

import (
	"errors"
	"sort"
)

// ErrFrozen is returned when registering into a catalog that has been frozen.
var ErrFrozen = errors.New("catalog is frozen")

// Catalog owns the reference tables loaded from TPDB, keyed by id.
// It is filled once by a loader, then frozen and shared read-only.
type Catalog struct {
	Dates Dates

	components          map[int]Component
	logicalAddresses    map[int]LogicalAddressItem
	contracts           map[int]ServiceContract
	domains             map[int]ServiceDomain
	platforms           map[int]Platform
	platformChains      map[int]PlatformChainItem
	statisticsPlatforms map[int]StatisticsPlatform

	frozen bool
}

// NewCatalog creates an empty, writable catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		components:          make(map[int]Component),
		logicalAddresses:    make(map[int]LogicalAddressItem),
		contracts:           make(map[int]ServiceContract),
		domains:             make(map[int]ServiceDomain),
		platforms:           make(map[int]Platform),
		platformChains:      make(map[int]PlatformChainItem),
		statisticsPlatforms: make(map[int]StatisticsPlatform),
	}
}

// Freeze makes the catalog read-only.
func (c *Catalog) Freeze() { c.frozen = true }

// Frozen reports whether Freeze has been called.
func (c *Catalog) Frozen() bool { return c.frozen }

// A later registration for the same id overwrites the earlier one.

func (c *Catalog) AddComponents(items ...Component) error {
	if c.frozen {
		return ErrFrozen
	}
	for _, it := range items {
		c.components[it.ID] = it
	}
	return nil
}

func (c *Catalog) AddLogicalAddresses(items ...LogicalAddressItem) error {
	if c.frozen {
		return ErrFrozen
	}
	for _, it := range items {
		c.logicalAddresses[it.ID] = it
	}
	return nil
}

func (c *Catalog) AddContracts(items ...ServiceContract) error {
	if c.frozen {
		return ErrFrozen
	}
	for _, it := range items {
		c.contracts[it.ID] = it
	}
	return nil
}

func (c *Catalog) AddDomains(items ...ServiceDomain) error {
	if c.frozen {
		return ErrFrozen
	}
	for _, it := range items {
		c.domains[it.ID] = it
	}
	return nil
}

func (c *Catalog) AddPlatforms(items ...Platform) error {
	if c.frozen {
		return ErrFrozen
	}
	for _, it := range items {
		c.platforms[it.ID] = it
	}
	return nil
}

func (c *Catalog) AddPlatformChains(items ...PlatformChainItem) error {
	if c.frozen {
		return ErrFrozen
	}
	for _, it := range items {
		c.platformChains[it.ID()] = it
	}
	return nil
}

func (c *Catalog) AddStatisticsPlatforms(items ...StatisticsPlatform) error {
	if c.frozen {
		return ErrFrozen
	}
	for _, it := range items {
		c.statisticsPlatforms[it.ID] = it
	}
	return nil
}

// AttachContractsToDomains links every contract to its domain. Contracts whose
// domain is unknown are left unattached.
func (c *Catalog) AttachContractsToDomains() error {
	if c.frozen {
		return ErrFrozen
	}
	attached := make(map[int][]int)
	for id, contract := range c.contracts {
		if _, ok := c.domains[contract.ServiceDomainID]; ok {
			attached[contract.ServiceDomainID] = append(attached[contract.ServiceDomainID], id)
		}
	}
	for domainID, d := range c.domains {
		ids := attached[domainID]
		sort.Ints(ids)
		d.Contracts = ids
		c.domains[domainID] = d
	}
	return nil
}

func (c *Catalog) Component(id int) (Component, bool) {
	it, ok := c.components[id]
	return it, ok
}

func (c *Catalog) LogicalAddress(id int) (LogicalAddressItem, bool) {
	it, ok := c.logicalAddresses[id]
	return it, ok
}

func (c *Catalog) Contract(id int) (ServiceContract, bool) {
	it, ok := c.contracts[id]
	return it, ok
}

func (c *Catalog) Domain(id int) (ServiceDomain, bool) {
	it, ok := c.domains[id]
	return it, ok
}

func (c *Catalog) Platform(id int) (Platform, bool) {
	it, ok := c.platforms[id]
	return it, ok
}

func (c *Catalog) PlatformChain(id int) (PlatformChainItem, bool) {
	it, ok := c.platformChains[id]
	return it, ok
}

func (c *Catalog) StatisticsPlatform(id int) (StatisticsPlatform, bool) {
	it, ok := c.statisticsPlatforms[id]
	return it, ok
}

// StatisticsPlatforms returns all statistics platforms ordered by id.
func (c *Catalog) StatisticsPlatforms() []StatisticsPlatform {
	out := make([]StatisticsPlatform, 0, len(c.statisticsPlatforms))
	for _, p := range c.statisticsPlatforms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PlatformNameToID finds a platform by its "<platform>-<environment>" name.
func (c *Catalog) PlatformNameToID(name string) (int, bool) {
	for id, p := range c.platforms {
		if p.Name() == name {
			return id, true
		}
	}
	return 0, false
}

// PlatformChainName renders a chain as "<first> → <last>", or just the platform
// name when both ends are the same. Unknown platforms give an empty name.
func (c *Catalog) PlatformChainName(chain PlatformChainItem) string {
	first, okF := c.platforms[chain.First]
	last, okL := c.platforms[chain.Last]
	if !okF || !okL {
		return ""
	}
	if first.ID == last.ID {
		return last.Name()
	}
	return first.Name() + " → " + last.Name()
}

// Counts returns the number of registered entities per table, for logging.
func (c *Catalog) Counts() map[string]int {
	return map[string]int{
		"components":          len(c.components),
		"logicalAddresses":    len(c.logicalAddresses),
		"contracts":           len(c.contracts),
		"domains":             len(c.domains),
		"platforms":           len(c.platforms),
		"platformChains":      len(c.platformChains),
		"statisticsPlatforms": len(c.statisticsPlatforms),
	}
}
