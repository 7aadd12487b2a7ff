// Package axis derives chart series from a table and a chosen X-axis column.
package axis

import (
	"fmt"

	"sheetchart/domain/sheet"

	"github.com/montanaflynn/stats"
)

// Summary describes the plottable points of one series
type Summary struct {
	Count int     `json:"count"`
	Nulls int     `json:"nulls"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// Series is one plotted column. Nil data points are gaps.
type Series struct {
	Name    string     `json:"name"`
	Data    []*float64 `json:"data"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Chart is what the renderer needs for one table
type Chart struct {
	Sheet      string        `json:"sheet"`
	XAxis      string        `json:"x_axis"`
	Columns    []string      `json:"columns"`
	Categories []sheet.Value `json:"categories"`
	Series     []Series      `json:"series"`
}

// DefaultColumn returns the column used when no X axis has been chosen
func DefaultColumn(t *sheet.Table) string {
	cols := t.Columns()
	if len(cols) == 0 {
		return ""
	}
	return cols[0]
}

// Select builds categories from the chosen column and one series for every
// other distinct column name in header order. An empty column selects the
// first one.
func Select(t *sheet.Table, column string) (*Chart, error) {
	if column == "" {
		column = DefaultColumn(t)
	}

	categories, err := t.Column(column)
	if err != nil {
		return nil, fmt.Errorf("select x axis for sheet %q: %w", t.Name(), err)
	}

	cols := t.Columns()
	chart := &Chart{
		Sheet:      t.Name(),
		XAxis:      column,
		Columns:    cols,
		Categories: categories,
		Series:     make([]Series, 0, len(cols)),
	}

	// duplicate headers share one row key, so each name is plotted once
	seen := map[string]bool{column: true}
	for _, col := range cols {
		if seen[col] {
			continue
		}
		seen[col] = true
		values, err := t.Column(col)
		if err != nil {
			return nil, err
		}
		chart.Series = append(chart.Series, buildSeries(col, values))
	}

	return chart, nil
}

func buildSeries(name string, values []sheet.Value) Series {
	data := make([]*float64, len(values))
	points := make(stats.Float64Data, 0, len(values))
	for i, v := range values {
		if f, ok := v.Float(); ok {
			data[i] = &f
			points = append(points, f)
		}
	}

	return Series{
		Name:    name,
		Data:    data,
		Summary: summarize(points, len(values)-len(points)),
	}
}

func summarize(points stats.Float64Data, nulls int) *Summary {
	if points.Len() == 0 {
		return nil
	}
	min, err := points.Min()
	if err != nil {
		return nil
	}
	max, err := points.Max()
	if err != nil {
		return nil
	}
	mean, err := points.Mean()
	if err != nil {
		return nil
	}
	return &Summary{
		Count: points.Len(),
		Nulls: nulls,
		Min:   min,
		Max:   max,
		Mean:  mean,
	}
}
