package domain

import (
	"fmt"
	"sort"
	"strings"
)

// InteractionKind classifies a raw edge relative to the queried contract
type InteractionKind string

const (
	InteractionDirect   InteractionKind = "Direct"
	InteractionIndirect InteractionKind = "Indirect"
)

// SortDirection orders interaction rows
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort fields understood by SortInteractions besides interaction type names
const (
	SortFieldAddress = "address"
	SortFieldKind    = "type"
)

// InteractionRow is one raw edge as shown in the interaction table
type InteractionRow struct {
	Source     string          `json:"source"`
	Target     string          `json:"target"`
	SourceName string          `json:"source_name,omitempty"`
	TargetName string          `json:"target_name,omitempty"`
	Types      map[string]int  `json:"types"`
	Total      int             `json:"total"`
	Kind       InteractionKind `json:"kind"`
}

// InteractionFilter narrows the interaction table
type InteractionFilter struct {
	IncludeIndirect bool
	Query           string
}

// InteractionSummary describes the direct dependencies of the queried contract
type InteractionSummary struct {
	DirectDependencies int     `json:"direct_dependencies"`
	TotalInteractions  int     `json:"total_interactions"`
	Activity           string  `json:"activity"`
	Top10Ratio         float64 `json:"top10_ratio"`
}

// InteractionRows flattens a payload into table rows, one per raw edge
func InteractionRows(payload *GraphPayload) []InteractionRow {
	if payload == nil {
		return []InteractionRow{}
	}

	root := NormalizeAddress(payload.Address)
	rows := make([]InteractionRow, 0, len(payload.Edges))
	for _, edge := range payload.Edges {
		row := InteractionRow{
			Source: edge.Source,
			Target: edge.Target,
			Types:  make(map[string]int, len(edge.Types)),
			Kind:   InteractionIndirect,
		}
		for name, count := range edge.Types {
			row.Types[name] = count
			row.Total += count
		}
		if NormalizeAddress(edge.Source) == root {
			row.Kind = InteractionDirect
		}
		row.SourceName, _ = payload.Name(edge.Source)
		row.TargetName, _ = payload.Name(edge.Target)
		rows = append(rows, row)
	}
	return rows
}

// CallTypes returns every interaction type name present in a payload, sorted
func CallTypes(payload *GraphPayload) []string {
	if payload == nil {
		return []string{}
	}
	seen := make(map[string]struct{})
	for _, edge := range payload.Edges {
		for name := range edge.Types {
			seen[name] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// FilterInteractions applies the indirect toggle and the address search
func FilterInteractions(rows []InteractionRow, filter InteractionFilter) []InteractionRow {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	filtered := make([]InteractionRow, 0, len(rows))
	for _, row := range rows {
		if !filter.IncludeIndirect && row.Kind != InteractionDirect {
			continue
		}
		if query != "" &&
			!strings.Contains(NormalizeAddress(row.Source), query) &&
			!strings.Contains(NormalizeAddress(row.Target), query) {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

// SortInteractions returns a sorted copy of rows. Field is "address", "type", or
// the name of an interaction type (rows are then ordered by that type's count).
// An empty field leaves the order unchanged.
func SortInteractions(rows []InteractionRow, field string, direction SortDirection) []InteractionRow {
	sorted := make([]InteractionRow, len(rows))
	copy(sorted, rows)
	if field == "" {
		return sorted
	}

	less := func(a, b InteractionRow) int {
		switch field {
		case SortFieldAddress:
			return strings.Compare(addressSortKey(a, b), addressSortKey(b, a))
		case SortFieldKind:
			return strings.Compare(string(a.Kind), string(b.Kind))
		default:
			return a.Types[field] - b.Types[field]
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		c := less(sorted[i], sorted[j])
		if direction == SortDesc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

// addressSortKey orders direct rows by target and indirect pairs by source+target.
// Mixed comparisons fall back to the target.
func addressSortKey(row, other InteractionRow) string {
	if row.Kind == InteractionIndirect && other.Kind == InteractionIndirect {
		return NormalizeAddress(row.Source) + NormalizeAddress(row.Target)
	}
	return NormalizeAddress(row.Target)
}

// Summarize computes the direct dependency overview for a payload
func Summarize(payload *GraphPayload) InteractionSummary {
	var summary InteractionSummary
	perTarget := make(map[string]int)

	for _, row := range InteractionRows(payload) {
		if row.Kind != InteractionDirect {
			continue
		}
		summary.DirectDependencies++
		summary.TotalInteractions += row.Total
		perTarget[NormalizeAddress(row.Target)] += row.Total
	}

	summary.Activity = ActivityLevel(summary.TotalInteractions)

	if summary.TotalInteractions > 0 {
		counts := make([]int, 0, len(perTarget))
		for _, count := range perTarget {
			counts = append(counts, count)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(counts)))
		top := 0
		for i := 0; i < len(counts) && i < 10; i++ {
			top += counts[i]
		}
		summary.Top10Ratio = float64(top) / float64(summary.TotalInteractions)
	}

	return summary
}

// ActivityLevel describes an interaction count in words
func ActivityLevel(count int) string {
	switch {
	case count < 0:
		return "something went wrong"
	case count == 0:
		return "no recorded interactions"
	case count == 1:
		return "a single interaction"
	case count < 10:
		return fmt.Sprintf("minimal activity (%d interactions)", count)
	case count < 100:
		return fmt.Sprintf("moderate activity (%d interactions)", count)
	case count < 1000:
		return fmt.Sprintf("high activity (%d interactions)", count)
	default:
		return fmt.Sprintf("significant activity (%d interactions)", count)
	}
}
