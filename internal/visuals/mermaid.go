package visuals

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"skoview/internal/statview"
)

// OthersLabel names the slice that collects everything below the top n.
const OthersLabel = "Övriga"

func quote(s string) string {
	// Mermaid has no escape for double quotes inside labels
	return "\"" + strings.ReplaceAll(s, "\"", "'") + "\""
}

// GenerateCallsPie creates a Mermaid pie chart of the top n records of list.
// The remaining records are summed into one OthersLabel slice.
func GenerateCallsPie(title string, list statview.List, n int) string {
	if len(list) == 0 || list.Total() == 0 {
		return ""
	}

	top := list.Top(n)
	rest := list.Total() - top.Total()

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString(fmt.Sprintf("pie title %s\n", title))
	for _, r := range top {
		sb.WriteString(fmt.Sprintf("    %s : %d\n", quote(r.Description), r.Calls))
	}
	if rest > 0 {
		sb.WriteString(fmt.Sprintf("    %s : %d\n", quote(OthersLabel), rest))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateCallsBar creates a Mermaid bar chart of the top n records of list.
func GenerateCallsBar(title string, list statview.List, n int) string {
	top := list.Top(n)
	if len(top) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0
	for _, r := range top {
		labels = append(labels, quote(r.Description))
		values = append(values, fmt.Sprintf("%d", r.Calls))
		if r.Calls > maxVal {
			maxVal = r.Calls
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta horizontal\n")
	sb.WriteString(fmt.Sprintf("    title %s\n", quote(title)))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Anrop\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateHistoryChart creates a Mermaid line chart of calls per day, ordered by date.
func GenerateHistoryChart(history map[string]int) string {
	if len(history) == 0 {
		return ""
	}

	days := make([]string, 0, len(history))
	for d := range history {
		days = append(days, d)
	}
	slices.Sort(days)

	// xychart labels start overlapping at around 60 points
	subsampleRate := 1
	if len(days) > 60 {
		subsampleRate = int(math.Ceil(float64(len(days)) / 60.0))
	}

	var labels []string
	var values []string
	maxVal := 0
	for i, d := range days {
		if history[d] > maxVal {
			maxVal = history[d]
		}
		if i%subsampleRate == 0 || i == len(days)-1 {
			labels = append(labels, quote(d))
			values = append(values, fmt.Sprintf("%d", history[d]))
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Anrop per dag\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Anrop\" 0 --> %d\n", int(math.Ceil(float64(maxVal)*1.1))+1))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}
