package statview

import (
	"errors"
	"fmt"
	"sort"

	"skoview/internal/state"
	"skoview/internal/tpdb"
)

var (
	// ErrUnknownItem means the statistics refer to an id the catalog does not know.
	ErrUnknownItem = errors.New("item not found in catalog")
	// ErrUnsupportedItemType means statistics were requested for a type that has none.
	ErrUnsupportedItemType = errors.New("item type has no statistics")
)

// Palette is the Google Charts color scheme, assigned to records in list order.
var Palette = [31]string{
	"#3366cc", "#dc3912", "#ff9900", "#109618", "#990099", "#0099c6", "#dd4477", "#66aa00",
	"#b82e2e", "#316395", "#994499", "#22aa99", "#aaaa11", "#6633cc", "#e67300", "#8b0707",
	"#651067", "#329262", "#5574a6", "#3b3eac", "#b77322", "#16d620", "#b91383", "#f4359e",
	"#9c5935", "#a9c413", "#2a778d", "#668d1c", "#bea413", "#0c5922", "#743411",
}

// ColorAt returns the palette color for list position i, wrapping after the last entry.
func ColorAt(i int) string {
	return Palette[i%len(Palette)]
}

// Record is one display row: an item, its resolved label, its call count and its chart color.
type Record struct {
	ItemType    tpdb.ItemType `json:"itemType"`
	ItemID      int           `json:"itemId"`
	Description string        `json:"description"`
	Calls       int           `json:"calls"`
	Color       string        `json:"color"`
}

// List is the ordered set of records for one item type.
type List []Record

func (l List) Calls() []int {
	out := make([]int, len(l))
	for i, r := range l {
		out[i] = r.Calls
	}
	return out
}

func (l List) Colors() []string {
	out := make([]string, len(l))
	for i, r := range l {
		out[i] = r.Color
	}
	return out
}

func (l List) Descriptions() []string {
	out := make([]string, len(l))
	for i, r := range l {
		out[i] = r.Description
	}
	return out
}

// Top returns at most n leading records.
func (l List) Top(n int) List {
	if n < 0 || n >= len(l) {
		return l
	}
	return l[:n]
}

// Total sums the calls of every record.
func (l List) Total() int {
	total := 0
	for _, r := range l {
		total += r.Calls
	}
	return total
}

// Populate turns id→calls counts into records sorted by calls, highest first,
// labelled from the catalog and colored from the palette. Ties are ordered by
// ascending id. Any id missing from the catalog aborts the whole pass.
func Populate(cat *tpdb.Catalog, itemType tpdb.ItemType, counts map[int]int, showSynonyms bool) (List, error) {
	type entry struct{ id, calls int }
	entries := make([]entry, 0, len(counts))
	for id, calls := range counts {
		entries = append(entries, entry{id, calls})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].calls != entries[j].calls {
			return entries[i].calls > entries[j].calls
		}
		return entries[i].id < entries[j].id
	})

	records := make(List, 0, len(entries))
	for _, e := range entries {
		desc, err := describe(cat, itemType, e.id, showSynonyms)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{
			ItemType:    itemType,
			ItemID:      e.id,
			Description: desc,
			Calls:       e.calls,
		})
	}

	// Final order is by calls regardless of how the entries were gathered.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Calls > records[j].Calls
	})

	for i := range records {
		records[i].Color = ColorAt(i)
	}
	return records, nil
}

func describe(cat *tpdb.Catalog, itemType tpdb.ItemType, id int, showSynonyms bool) (string, error) {
	switch itemType {
	case tpdb.Consumer, tpdb.Producer:
		c, ok := cat.Component(id)
		if !ok {
			return "", fmt.Errorf("%w: %s %d", ErrUnknownItem, itemType, id)
		}
		if showSynonyms && c.Synonym != "" {
			return c.Synonym, nil
		}
		return fmt.Sprintf("%s (%s)", c.Description, c.HsaID), nil

	case tpdb.LogicalAddress:
		la, ok := cat.LogicalAddress(id)
		if !ok {
			return "", fmt.Errorf("%w: %s %d", ErrUnknownItem, itemType, id)
		}
		return fmt.Sprintf("%s (%s)", la.Description, la.Name()), nil

	case tpdb.Contract:
		c, ok := cat.Contract(id)
		if !ok {
			return "", fmt.Errorf("%w: %s %d", ErrUnknownItem, itemType, id)
		}
		if showSynonyms && c.Synonym != "" {
			return c.Synonym, nil
		}
		return c.Description(), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedItemType, itemType)
}

// View holds the display lists for the four statistics item types.
type View struct {
	Consumers        List `json:"consumers"`
	Producers        List `json:"producers"`
	LogicalAddresses List `json:"logicalAddresses"`
	Contracts        List `json:"contracts"`
}

// List returns the records of one item type.
func (v View) List(t tpdb.ItemType) List {
	switch t {
	case tpdb.Consumer:
		return v.Consumers
	case tpdb.Producer:
		return v.Producers
	case tpdb.LogicalAddress:
		return v.LogicalAddresses
	case tpdb.Contract:
		return v.Contracts
	}
	return nil
}

// Build derives the display lists from the statistics in s. Synonyms are used
// unless technical terms are requested. No partial View is returned on error.
func Build(cat *tpdb.Catalog, s state.State) (View, error) {
	showSynonyms := !s.ShowTechnicalTerms
	var v View
	for _, t := range tpdb.StatItemTypes {
		list, err := Populate(cat, t, s.StatBlob.Calls(t), showSynonyms)
		if err != nil {
			return View{}, fmt.Errorf("populate %s: %w", t, err)
		}
		switch t {
		case tpdb.Consumer:
			v.Consumers = list
		case tpdb.Producer:
			v.Producers = list
		case tpdb.LogicalAddress:
			v.LogicalAddresses = list
		case tpdb.Contract:
			v.Contracts = list
		}
	}
	return v, nil
}
