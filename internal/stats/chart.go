package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"gridbot/internal/model"
)

// WriteFitnessChart renders best and mean score per generation as a
// standalone HTML page.
func WriteFitnessChart(w io.Writer, runID string, diagnostics []model.GenerationDiagnostics) error {
	if len(diagnostics) == 0 {
		return fmt.Errorf("no generations to chart")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Fitness by generation",
			Subtitle: runID,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{}),
	)

	generations := make([]string, 0, len(diagnostics))
	best := make([]opts.LineData, 0, len(diagnostics))
	mean := make([]opts.LineData, 0, len(diagnostics))
	for _, d := range diagnostics {
		generations = append(generations, strconv.Itoa(d.Generation))
		best = append(best, opts.LineData{Value: d.BestScore})
		mean = append(mean, opts.LineData{Value: d.MeanScore})
	}

	line.SetXAxis(generations).
		AddSeries("best", best).
		AddSeries("mean", mean)

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(w)
}
