package statview

import (
	"errors"
	"slices"
	"testing"

	"skoview/internal/preselect"
	"skoview/internal/state"
	"skoview/internal/tpdb"
)

func testCatalog(t *testing.T) *tpdb.Catalog {
	t.Helper()
	cat := tpdb.NewCatalog()
	for id := 1; id <= 40; id++ {
		if err := cat.AddComponents(tpdb.Component{ID: id, HsaID: "SE" + string(rune('A'+id%26)), Description: "Component"}); err != nil {
			t.Fatal(err)
		}
	}
	_ = cat.AddComponents(tpdb.Component{ID: 865, HsaID: "SE2321000016-ABCD", Description: "Journalen", Synonym: "Foo"})
	_ = cat.AddLogicalAddresses(tpdb.LogicalAddressItem{ID: 5, Address: "SE2321000016-1234", Description: "Vårdcentral Norr"})
	_ = cat.AddContracts(
		tpdb.ServiceContract{ID: 117, Name: "GetBookings", Major: 1, Synonym: "Bokningar"},
		tpdb.ServiceContract{ID: 118, Name: "MakeBooking", Major: 2},
	)
	cat.Freeze()
	return cat
}

func TestPopulate_OrdersByCallsDescending(t *testing.T) {
	cat := testCatalog(t)
	list, err := Populate(cat, tpdb.Consumer, map[int]int{1: 5, 2: 9, 3: 1}, true)
	if err != nil {
		t.Fatal(err)
	}

	ids := []int{list[0].ItemID, list[1].ItemID, list[2].ItemID}
	if !slices.Equal(ids, []int{2, 1, 3}) {
		t.Errorf("ids = %v, want [2 1 3]", ids)
	}
	if !slices.Equal(list.Colors(), []string{Palette[0], Palette[1], Palette[2]}) {
		t.Errorf("colors = %v", list.Colors())
	}
	if !slices.Equal(list.Calls(), []int{9, 5, 1}) {
		t.Errorf("calls = %v", list.Calls())
	}
	for _, r := range list {
		if r.ItemType != tpdb.Consumer {
			t.Errorf("record item type = %s", r.ItemType)
		}
	}
}

func TestPopulate_TiesOrderedByID(t *testing.T) {
	cat := testCatalog(t)
	for i := 0; i < 20; i++ {
		list, err := Populate(cat, tpdb.Producer, map[int]int{7: 3, 4: 3, 9: 8, 1: 3}, false)
		if err != nil {
			t.Fatal(err)
		}
		got := []int{list[0].ItemID, list[1].ItemID, list[2].ItemID, list[3].ItemID}
		if !slices.Equal(got, []int{9, 1, 4, 7}) {
			t.Fatalf("ids = %v, want [9 1 4 7]", got)
		}
	}
}

func TestPopulate_ColorWraparound(t *testing.T) {
	cat := testCatalog(t)
	counts := make(map[int]int)
	for id := 1; id <= 32; id++ {
		counts[id] = 1000 - id
	}

	list, err := Populate(cat, tpdb.Consumer, counts, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 32 {
		t.Fatalf("len = %d", len(list))
	}
	if list[31].Color != list[0].Color {
		t.Errorf("32nd color = %s, want %s", list[31].Color, list[0].Color)
	}
	if list[30].Color != Palette[30] {
		t.Errorf("31st color = %s, want %s", list[30].Color, Palette[30])
	}
}

func TestPopulate_Descriptions(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name     string
		itemType tpdb.ItemType
		id       int
		synonyms bool
		want     string
	}{
		{"consumer synonym", tpdb.Consumer, 865, true, "Foo"},
		{"consumer technical", tpdb.Consumer, 865, false, "Journalen (SE2321000016-ABCD)"},
		{"producer synonym", tpdb.Producer, 865, true, "Foo"},
		{"logical address ignores synonyms", tpdb.LogicalAddress, 5, true, "Vårdcentral Norr (SE2321000016-1234)"},
		{"contract synonym", tpdb.Contract, 117, true, "Bokningar"},
		{"contract technical", tpdb.Contract, 117, false, "GetBookings v1"},
		{"contract without synonym", tpdb.Contract, 118, true, "MakeBooking v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Populate(cat, tt.itemType, map[int]int{tt.id: 1}, tt.synonyms)
			if err != nil {
				t.Fatal(err)
			}
			if got := list.Descriptions()[0]; got != tt.want {
				t.Errorf("description = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPopulate_UnknownItemAbortsPass(t *testing.T) {
	cat := testCatalog(t)
	list, err := Populate(cat, tpdb.Contract, map[int]int{117: 3, 999: 1}, true)
	if !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("err = %v, want ErrUnknownItem", err)
	}
	if list != nil {
		t.Errorf("expected no records on failure, got %v", list)
	}
}

func TestPopulate_UnsupportedItemType(t *testing.T) {
	cat := testCatalog(t)
	if _, err := Populate(cat, tpdb.Domain, map[int]int{1: 1}, true); !errors.Is(err, ErrUnsupportedItemType) {
		t.Errorf("err = %v, want ErrUnsupportedItemType", err)
	}
}

func TestPopulate_Empty(t *testing.T) {
	list, err := Populate(testCatalog(t), tpdb.Consumer, nil, true)
	if err != nil || len(list) != 0 {
		t.Errorf("Populate(nil) = %v, %v", list, err)
	}
}

func TestList_Top(t *testing.T) {
	l := List{{ItemID: 1}, {ItemID: 2}, {ItemID: 3}}
	if got := len(l.Top(2)); got != 2 {
		t.Errorf("Top(2) len = %d", got)
	}
	if got := len(l.Top(10)); got != 3 {
		t.Errorf("Top(10) len = %d", got)
	}
}

func TestBuild(t *testing.T) {
	cat := testCatalog(t)
	reg := preselect.Builtin()
	r := state.NewReducer(reg)
	s := r.Reduce(state.Initial(reg), state.DoneDownloadStatistics{StatisticsArrArr: [][]int{
		{865, 1, 5, 117, 40},
		{2, 1, 5, 118, 60},
	}})

	v, err := Build(cat, s)
	if err != nil {
		t.Fatal(err)
	}
	if v.Consumers[0].ItemID != 2 || v.Consumers[1].Description != "Foo" {
		t.Errorf("consumers = %+v", v.Consumers)
	}
	if len(v.Producers) != 1 || v.Producers[0].Calls != 100 {
		t.Errorf("producers = %+v", v.Producers)
	}
	if v.List(tpdb.Contract).Total() != 100 {
		t.Errorf("contract total = %d", v.List(tpdb.Contract).Total())
	}

	tech := r.Reduce(s, state.ShowTechnicalTerms{IsShown: true})
	v, err = Build(cat, tech)
	if err != nil {
		t.Fatal(err)
	}
	if v.Consumers[1].Description != "Journalen (SE2321000016-ABCD)" {
		t.Errorf("technical description = %q", v.Consumers[1].Description)
	}
}

func TestBuild_MissingReferenceFails(t *testing.T) {
	cat := testCatalog(t)
	reg := preselect.Builtin()
	s := state.NewReducer(reg).Reduce(state.Initial(reg), state.DoneDownloadStatistics{StatisticsArrArr: [][]int{
		{865, 1, 77, 117, 40},
	}})

	if _, err := Build(cat, s); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("err = %v, want ErrUnknownItem", err)
	}
}
