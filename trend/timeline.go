package trend

import (
	"maps"
	"slices"
	"time"

	"github.com/poiesic/trendscout/core"
)

// Cell is one table value. OK is false when the keyword has no point for the period.
type Cell struct {
	Ratio float64
	OK    bool
}

// Row is one period of a Table, with cells in Table.Keywords order.
type Row struct {
	Period time.Time
	Cells  []Cell
}

// Table is a wide view of several series: periods as rows, keywords as columns.
type Table struct {
	Keywords []string
	Rows     []Row
}

// Timeline builds a Table from series. Periods and keywords are sorted
// ascending. A keyword missing a period gets an absent cell rather than zero.
func Timeline(series map[string][]core.TrendPoint) *Table {
	keywords := slices.Sorted(maps.Keys(series))

	values := make(map[int64]map[string]float64)
	for k, points := range series {
		for _, p := range points {
			key := p.Period.Unix()
			if values[key] == nil {
				values[key] = make(map[string]float64)
			}
			values[key][k] = p.Ratio
		}
	}

	table := &Table{Keywords: keywords}
	for _, ts := range slices.Sorted(maps.Keys(values)) {
		row := Row{Period: time.Unix(ts, 0).UTC(), Cells: make([]Cell, len(keywords))}
		for i, k := range keywords {
			if v, ok := values[ts][k]; ok {
				row.Cells[i] = Cell{Ratio: v, OK: true}
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Value returns the ratio for keyword at period.
func (t *Table) Value(keyword string, period time.Time) (float64, bool) {
	col := slices.Index(t.Keywords, keyword)
	if col < 0 {
		return 0, false
	}
	for _, row := range t.Rows {
		if row.Period.Equal(period) {
			c := row.Cells[col]
			return c.Ratio, c.OK
		}
	}
	return 0, false
}
