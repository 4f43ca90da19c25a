package preselect

import "skoview/internal/tpdb"

var defaultLabels = map[tpdb.ItemType]string{
	tpdb.Consumer:       "Applikationer",
	tpdb.Contract:       "Tjänster",
	tpdb.Producer:       "Informationskällor",
	tpdb.LogicalAddress: "Adresser",
}

var journalLabels = map[tpdb.ItemType]string{
	tpdb.Consumer:       "Applikation",
	tpdb.Contract:       "Information",
	tpdb.Producer:       "Journalsystem",
	tpdb.LogicalAddress: "Journalsystemets adress",
}

// Builtin returns the registry of templates shipped with the dashboard.
func Builtin() *Registry {
	r, err := NewRegistry(
		Template{
			Label:              "Alla",
			SimpleLabel:        "Alla konsumerande tjänster",
			SelectedItems:      map[tpdb.ItemType][]int{},
			LabelMap:           defaultLabels,
			SimpleViewDisplay:  tpdb.Consumer,
			ShowInSimpleView:   true,
			ShowInAdvancedView: true,
		},
		Template{
			Label:              "--",
			SimpleLabel:        "Anropade producerande tjänster",
			SelectedItems:      map[tpdb.ItemType][]int{},
			LabelMap:           defaultLabels,
			SimpleViewDisplay:  tpdb.Producer,
			ShowInSimpleView:   true,
			ShowInAdvancedView: false,
		},
		Template{
			Label:         "Bokade tider",
			SelectedItems: map[tpdb.ItemType][]int{tpdb.Contract: {117, 118, 114}},
			LabelMap: map[tpdb.ItemType]string{
				tpdb.Consumer:       "Tidbokningsapplikation",
				tpdb.Contract:       "Typ av bokning",
				tpdb.Producer:       "Tidbokningsystem",
				tpdb.LogicalAddress: "Enhet",
			},
			SimpleViewDisplay:  tpdb.LogicalAddress,
			ShowInSimpleView:   true,
			ShowInAdvancedView: true,
		},
		Template{
			Label:              "Journalen",
			SelectedItems:      map[tpdb.ItemType][]int{tpdb.Consumer: {865}},
			LabelMap:           journalLabels,
			SimpleViewDisplay:  tpdb.Contract,
			ShowInSimpleView:   true,
			ShowInAdvancedView: true,
		},
		Template{
			Label:              "Nationell patientöversikt (NPÖ)",
			SelectedItems:      map[tpdb.ItemType][]int{tpdb.Consumer: {434, 693}},
			LabelMap:           journalLabels,
			SimpleViewDisplay:  tpdb.Contract,
			ShowInSimpleView:   true,
			ShowInAdvancedView: true,
		},
		Template{
			Label:         "Remisser",
			SelectedItems: map[tpdb.ItemType][]int{tpdb.Contract: {215}},
			LabelMap: map[tpdb.ItemType]string{
				tpdb.Consumer:       "Remitterande system",
				tpdb.Contract:       "Remisstyp",
				tpdb.Producer:       "Remissmottagande system",
				tpdb.LogicalAddress: "Remitterad mottagning",
			},
			SimpleViewDisplay:  tpdb.LogicalAddress,
			ShowInSimpleView:   true,
			ShowInAdvancedView: true,
		},
	)
	if err != nil {
		// The table above is static; a failure here is a programming error.
		panic(err)
	}
	return r
}
