// Package charts renders summary views as PNG images.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/core"
)

// Generator renders financial charts.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// CategoryBreakdown renders a bar chart of expenses per category. It
// returns nil bytes when there is nothing to draw.
func (g *Generator) CategoryBreakdown(byCategory []core.CategoryAmount) ([]byte, error) {
	if len(byCategory) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(byCategory))
	for _, ca := range byCategory {
		bars = append(bars, chart.Value{
			Label: ca.Name,
			Value: ca.Amount,
		})
	}

	graph := chart.BarChart{
		Title:  "Expenses by Category",
		Width:  900,
		Height: 500,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		BarWidth: 60,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category breakdown: %w", err)
	}
	return buf.Bytes(), nil
}
