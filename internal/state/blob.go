package state

import "skoview/internal/tpdb"

// StatisticsBlob holds call counts summed per item id, one map per statistics item type.
type StatisticsBlob struct {
	CallsConsumer       map[int]int `json:"callsConsumer"`
	CallsProducer       map[int]int `json:"callsProducer"`
	CallsLogicalAddress map[int]int `json:"callsLogicalAddress"`
	CallsContract       map[int]int `json:"callsContract"`
}

// NewStatisticsBlob sums statistics rows of [consumer, producer, logicalAddress, contract, calls].
// Rows shorter than five fields are skipped.
func NewStatisticsBlob(rows [][]int) StatisticsBlob {
	b := StatisticsBlob{
		CallsConsumer:       make(map[int]int),
		CallsProducer:       make(map[int]int),
		CallsLogicalAddress: make(map[int]int),
		CallsContract:       make(map[int]int),
	}
	for _, r := range rows {
		if len(r) < 5 {
			continue
		}
		calls := r[4]
		b.CallsConsumer[r[0]] += calls
		b.CallsProducer[r[1]] += calls
		b.CallsLogicalAddress[r[2]] += calls
		b.CallsContract[r[3]] += calls
	}
	return b
}

// Calls returns the counts for one item type, or nil for types without statistics.
func (b StatisticsBlob) Calls(t tpdb.ItemType) map[int]int {
	switch t {
	case tpdb.Consumer:
		return b.CallsConsumer
	case tpdb.Producer:
		return b.CallsProducer
	case tpdb.LogicalAddress:
		return b.CallsLogicalAddress
	case tpdb.Contract:
		return b.CallsContract
	}
	return nil
}

// Total is the number of calls in the blob.
func (b StatisticsBlob) Total() int {
	total := 0
	for _, c := range b.CallsConsumer {
		total += c
	}
	return total
}
