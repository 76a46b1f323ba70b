package darkphoton

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"limit-rescaling/utils"
)

// QuickPlot renders the converted limit as one line on a log-scale y axis
// and writes the PNG to path, overwriting any existing file. Values that
// cannot sit on a log axis (y <= 0) are dropped with a warning.
func QuickPlot(mmed, yield []float64, path string) error {
	return QuickPlotTracks([][]float64{mmed}, [][]float64{yield}, path)
}

// QuickPlotTracks renders one line per contour on a shared log-scale y
// axis. Track i pairs mmedTracks[i] with yieldTracks[i]; tracks left with
// fewer than two positive points are skipped, and the plot fails only when
// nothing remains to draw.
func QuickPlotTracks(mmedTracks, yieldTracks [][]float64, path string) error {
	if len(mmedTracks) != len(yieldTracks) {
		return fmt.Errorf("got %d mass tracks and %d yield tracks", len(mmedTracks), len(yieldTracks))
	}

	logger := utils.GetLogger()
	series := make([]chart.Series, 0, len(mmedTracks))
	dropped := 0
	for i := range mmedTracks {
		mmed, yield := mmedTracks[i], yieldTracks[i]
		if len(mmed) != len(yield) {
			return fmt.Errorf("track %d: mmed has %d entries, yield has %d", i, len(mmed), len(yield))
		}

		xs := make([]float64, 0, len(mmed))
		ys := make([]float64, 0, len(yield))
		for j := range yield {
			if yield[j] <= 0 {
				dropped++
				continue
			}
			xs = append(xs, mmed[j])
			ys = append(ys, yield[j])
		}
		if len(xs) < 2 {
			logger.Warn("skipping limit track with too few positive points", "track", i, "points", len(xs))
			continue
		}

		name := "converted limit"
		if len(mmedTracks) > 1 {
			name = fmt.Sprintf("contour %d", i+1)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
		})
	}
	if dropped > 0 {
		logger.Warn("dropped non-positive values from log-scale limit plot", "dropped", dropped)
	}
	if len(series) == 0 {
		return errors.New("no tracks with at least 2 positive points to plot")
	}

	ch := chart.Chart{
		Width:      800,
		Height:     600,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 14}},
		XAxis:      chart.XAxis{Name: "m_Z' [GeV]"},
		YAxis: chart.YAxis{
			Name:  "y = eps^2 alpha_D (m_DM/m_Z')^4",
			Range: &chart.LogarithmicRange{},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("failed to render limit plot: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write limit plot: %w", err)
	}
	return nil
}
