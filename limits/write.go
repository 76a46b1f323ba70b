package limits

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"limit-rescaling/benchmarks"
	"limit-rescaling/contour"
	"limit-rescaling/utils"
)

// RescaledLimit is the output of the dijet rescaling: the exclusion
// contour of the target benchmark, one track per contour segment, plus the
// provenance of the run that produced it. A one-segment result marshals
// with flat arrays and is itself a valid input for both tools.
type RescaledLimit struct {
	Benchmark string `json:"benchmark"`
	Input     string `json:"input"`
	Mmed      Series `json:"mmed"`
	Mdm       Series `json:"mdm"`
	GqLimit   Series `json:"gq_limit"`
}

// NewRescaledLimit packages an extracted exclusion contour for writing.
// Segment x values are mediator masses, segment y values the rescaled
// coupling limits, and the dark-matter masses follow the benchmark's mass
// fraction. name is the registry name the benchmark was selected under.
func NewRescaledLimit(c contour.Contour, name string, b benchmarks.Benchmark, inputPath string) *RescaledLimit {
	out := &RescaledLimit{
		Benchmark: name,
		Input:     inputPath,
		Mmed:      make(Series, 0, len(c)),
		Mdm:       make(Series, 0, len(c)),
		GqLimit:   make(Series, 0, len(c)),
	}
	for _, seg := range c {
		mmed := append([]float64(nil), seg.X...)
		gq := append([]float64(nil), seg.Y...)
		mdm := make([]float64, len(mmed))
		for i, m := range mmed {
			mdm[i] = b.MdmFraction * m
		}
		out.Mmed = append(out.Mmed, mmed)
		out.Mdm = append(out.Mdm, mdm)
		out.GqLimit = append(out.GqLimit, gq)
	}
	return out
}

// ConvertedLimit is the dark-photon output: the kinetic-mixing limit and
// the yield-parameter limit at each mediator mass, shaped like the input
// it was converted from.
type ConvertedLimit struct {
	Input        string `json:"input"`
	Mmed         Series `json:"mmed"`
	EpsilonLimit Series `json:"epsilon_limit"`
	YLimit       Series `json:"y_limit"`
}

// Write stores the rescaled limit at path.
func (r *RescaledLimit) Write(path string) error {
	return writeJSON(path, r)
}

// Write stores the converted limit at path.
func (c *ConvertedLimit) Write(path string) error {
	return writeJSON(path, c)
}

// writeJSON writes record as indented JSON at path, replacing any existing
// file after logging a warning. The write goes through a temp file and a
// rename so readers never observe a partial file.
func writeJSON(path string, record any) error {
	if _, err := os.Stat(path); err == nil {
		utils.GetLogger().Warn("output file already exists, it will be overwritten!", "path", path)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := utils.CreateFolder(dir); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
