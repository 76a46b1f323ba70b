package exclusion

import (
	"fmt"

	"limit-rescaling/contour"
	"limit-rescaling/utils"
)

// Calculator extracts exclusion contours from one validated sample set.
// Only coupling-limit extraction exists today, so there is a single
// concrete calculator rather than a family of them.
type Calculator struct {
	samples *SampleSet
}

func NewCalculator(samples *SampleSet) *Calculator {
	return &Calculator{samples: samples}
}

// ComputeExclusion extracts the open contour where the depth column
// crosses threshold in the plane spanned by the two selected fields, and
// writes a heatmap of the depth values with the contour overlaid to
// plotPath for visual validation. The plot is a side effect; the returned
// contour is the result.
func (c *Calculator) ComputeExclusion(xField, yField Field, threshold float64, plotPath string) (contour.Contour, error) {
	xs, err := c.samples.Values(xField)
	if err != nil {
		return nil, err
	}
	ys, err := c.samples.Values(yField)
	if err != nil {
		return nil, err
	}

	limit, err := contour.Extract(xs, ys, c.samples.Depth(), threshold, false)
	if err != nil {
		return nil, fmt.Errorf("failed to extract exclusion contour: %w", err)
	}
	utils.GetLogger().Info("extracted exclusion contour",
		"x", string(xField), "y", string(yField),
		"threshold", threshold,
		"segments", len(limit), "vertices", limit.TotalVertices())

	if err := renderHeatmap(xs, ys, c.samples.Depth(), limit, string(xField), string(yField), plotPath); err != nil {
		return nil, fmt.Errorf("failed to render validation plot: %w", err)
	}
	return limit, nil
}
