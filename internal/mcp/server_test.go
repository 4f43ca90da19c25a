package mcp

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"skoview/internal/dashboard"
	"skoview/internal/preselect"
	"skoview/internal/state"
	"skoview/internal/tpdb"
	"skoview/internal/tpdb/tpdbtest"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestServer(fake *tpdbtest.Fake, opts Options) *Server {
	store := state.NewStore(preselect.Builtin())
	return NewServer(dashboard.NewSession(fake, store), opts)
}

func TestGetStatistics_DefaultSelection(t *testing.T) {
	s := newTestServer(&tpdbtest.Fake{}, Options{})

	_, out, err := s.getStatistics(context.Background(), nil, GetStatisticsInput{})
	if err != nil {
		t.Fatal(err)
	}
	if out.DateEffective != "2021-03-02" || out.DateEnd != "2021-03-02" {
		t.Errorf("dates = %s..%s", out.DateEffective, out.DateEnd)
	}
	if out.TotalCalls != 170 {
		t.Errorf("total = %d, want 170", out.TotalCalls)
	}
	if len(out.Producers) != 2 || out.Producers[0].ItemID != 865 || out.Producers[0].Calls != 150 {
		t.Errorf("producers = %+v", out.Producers)
	}
	if out.Contracts[0].Description != "Bokningar" {
		t.Errorf("contract label = %q, want synonym", out.Contracts[0].Description)
	}
	if out.Charts != nil {
		t.Errorf("charts returned while disabled")
	}
	if out.Preselect != "Alla" {
		t.Errorf("preselect = %q", out.Preselect)
	}
}

func TestGetStatistics_AppliesArguments(t *testing.T) {
	fake := &tpdbtest.Fake{}
	s := newTestServer(fake, Options{MermaidCharts: true})
	technical := true

	_, out, err := s.getStatistics(context.Background(), nil, GetStatisticsInput{
		DateEffective:  "2021-02-01",
		Preselect:      "Journalen",
		StatTpID:       4,
		TechnicalTerms: &technical,
		Top:            1,
		IncludeHistory: true,
		IncludeCharts:  true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if out.DateEffective != "2021-02-01" || out.StatTpID != 4 || out.Preselect != "Journalen" {
		t.Errorf("selection not applied: %+v", out)
	}
	if len(out.Consumers) != 1 {
		t.Errorf("top not applied: %d consumers", len(out.Consumers))
	}
	if out.Contracts[0].Description != "GetBookings v1" {
		t.Errorf("technical terms not applied: %q", out.Contracts[0].Description)
	}
	if out.History["2021-03-01"] != 12 {
		t.Errorf("history = %v", out.History)
	}
	if len(out.Charts) != 5 {
		t.Errorf("charts = %d, want 4 pies and 1 history", len(out.Charts))
	}
	if !strings.Contains(out.Bookmark, "s=Journalen") || !strings.Contains(out.Bookmark, "t=4") {
		t.Errorf("bookmark = %q", out.Bookmark)
	}

	last := fake.Queries[len(fake.Queries)-1]
	if last.StatTpID != 4 || last.DateEffective != "2021-02-01" {
		t.Errorf("query = %+v", last)
	}
}

func TestGetStatistics_RejectsUnknownArguments(t *testing.T) {
	s := newTestServer(&tpdbtest.Fake{}, Options{})
	ctx := context.Background()

	cases := []struct {
		name string
		in   GetStatisticsInput
		want string
	}{
		{"date", GetStatisticsInput{DateEffective: "1999-01-01"}, "available dates: 2021-03-02"},
		{"preselect", GetStatisticsInput{Preselect: "Nope"}, "Available: Alla"},
		{"platform", GetStatisticsInput{StatTpID: 99}, "unknown statistics platform 99"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := s.getStatistics(ctx, nil, tc.in)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want it to contain %q", err, tc.want)
			}
		})
	}
}

func TestToggleItem(t *testing.T) {
	s := newTestServer(&tpdbtest.Fake{}, Options{})
	ctx := context.Background()

	_, out, err := s.toggleItem(ctx, nil, ToggleItemInput{ItemType: "consumer", ID: 434})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Selected || len(out.Selection["CONSUMER"]) != 1 {
		t.Errorf("after select: %+v", out)
	}

	_, out, err = s.toggleItem(ctx, nil, ToggleItemInput{ItemType: "CONSUMER", ID: 434})
	if err != nil {
		t.Fatal(err)
	}
	if out.Selected || len(out.Selection) != 0 {
		t.Errorf("after deselect: %+v", out)
	}

	if _, _, err := s.toggleItem(ctx, nil, ToggleItemInput{ItemType: "CONSUMER", ID: 1}); err == nil {
		t.Error("expected error for unknown id")
	}
	if _, _, err := s.toggleItem(ctx, nil, ToggleItemInput{ItemType: "SERVER", ID: 434}); err == nil {
		t.Error("expected error for unknown item type")
	}
}

func TestApplyBookmark(t *testing.T) {
	s := newTestServer(&tpdbtest.Fake{}, Options{DashboardURL: "https://example.org/"})
	ctx := context.Background()

	_, out, err := s.applyBookmark(ctx, nil, ApplyBookmarkInput{
		Bookmark: "d=2021-03-01&e=1999-01-01&c=434.693&t=4&s=Remisser",
		View:     string(state.StatAdvancedView),
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.DateEffective != "2021-03-01" {
		t.Errorf("effective = %q", out.DateEffective)
	}
	if out.DateEnd != "2021-03-02" {
		t.Errorf("unknown end date should be ignored, got %q", out.DateEnd)
	}
	if len(out.Selected["CONSUMER"]) != 2 || out.StatTpID != 4 || out.View != string(state.StatAdvancedView) {
		t.Errorf("state = %+v", out)
	}
	if !strings.HasPrefix(out.URL, "https://example.org/?") {
		t.Errorf("url = %q", out.URL)
	}

	if _, _, err := s.applyBookmark(ctx, nil, ApplyBookmarkInput{Bookmark: "c=x"}); err == nil {
		t.Error("expected error for malformed bookmark")
	}
	if _, _, err := s.applyBookmark(ctx, nil, ApplyBookmarkInput{Bookmark: "t=4", View: "MAP"}); err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestListPreselects(t *testing.T) {
	s := newTestServer(&tpdbtest.Fake{}, Options{})

	_, simple, _ := s.listPreselects(context.Background(), nil, ListPreselectsInput{})
	_, advanced, _ := s.listPreselects(context.Background(), nil, ListPreselectsInput{Advanced: true})

	has := func(list []PreselectInfo, label string) bool {
		for _, p := range list {
			if p.Label == label {
				return true
			}
		}
		return false
	}
	if !has(simple.Preselects, "--") {
		t.Error("'--' should be visible in the simple view")
	}
	if has(advanced.Preselects, "--") {
		t.Error("'--' should be hidden in the advanced view")
	}
}

func TestServer_OverProtocol(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(&tpdbtest.Fake{}, Options{Version: "test"})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := s.MCP().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer cs.Close()

	tools, err := cs.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"list_preselects", "get_statistics", "toggle_item", "get_state", "apply_bookmark"} {
		if !names[want] {
			t.Errorf("tool %s not registered", want)
		}
	}

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "toggle_item",
		Arguments: map[string]any{"item_type": string(tpdb.Producer), "id": 865},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("toggle_item failed: %+v", res.Content)
	}

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{Name: "get_state", Arguments: map[string]any{}})
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatal(err)
	}
	var st StateOutput
	if err := json.Unmarshal(raw, &st); err != nil {
		t.Fatal(err)
	}
	b, err := state.ParseBookmark(st.Bookmark)
	if err != nil {
		t.Fatalf("bookmark %q: %v", st.Bookmark, err)
	}
	if len(st.Selected["PRODUCER"]) != 1 || !slices.Equal(b.Selected[tpdb.Producer], []int{865}) {
		t.Errorf("state = %+v", st)
	}

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "toggle_item",
		Arguments: map[string]any{"item_type": "PRODUCER", "id": 1},
	})
	if err == nil && !res.IsError {
		t.Error("expected a tool error for an unknown id")
	}
}
