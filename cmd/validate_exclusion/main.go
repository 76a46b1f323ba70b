package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"limit-rescaling/exclusion"
)

// Config holds the validation run configuration
type Config struct {
	InputPath string
	PlotPath  string
	Threshold float64
	XField    string
	YField    string
}

// gridFile is the on-disk depth grid: parallel sample arrays, with the
// couplings optionally given once for every point.
type gridFile struct {
	Mmed  []float64 `json:"mmed"`
	Mdm   []float64 `json:"mdm"`
	Gq    []float64 `json:"gq"`
	Gdm   []float64 `json:"gdm"`
	Gl    []float64 `json:"gl"`
	Depth []float64 `json:"depth"`
}

func main() {
	_ = godotenv.Load()
	config := parseFlags()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("=== Exclusion Contour Validation ===\n")
	log.Printf("Input grid: %s\n", config.InputPath)
	log.Printf("Threshold:  %g\n", config.Threshold)
	log.Println()

	// Step 1: Load the depth grid
	log.Println("Step 1: Loading depth grid...")
	grid, err := readGrid(config.InputPath)
	if err != nil {
		log.Fatalf("ERROR: Failed to load depth grid: %v", err)
	}
	log.Printf("Loaded %d samples\n", len(grid.Depth))

	// Step 2: Assemble the sample set
	log.Println("Step 2: Assembling sample set...")
	samples, err := exclusion.NewSampleSet(grid.Mmed, grid.Mdm, grid.Gq, grid.Gdm, grid.Gl, grid.Depth)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	// Step 3: Extract the contour and render the heatmap
	log.Println("Step 3: Extracting exclusion contour...")
	calc := exclusion.NewCalculator(samples)
	result, err := calc.ComputeExclusion(
		exclusion.Field(config.XField), exclusion.Field(config.YField),
		config.Threshold, config.PlotPath)
	if err != nil {
		log.Fatalf("ERROR: Contour extraction failed: %v", err)
	}

	// Step 4: Report segment stats
	log.Println("Step 4: Contour summary...")
	log.Printf("Segments: %d (total vertices %d)\n", len(result), result.TotalVertices())
	for i, seg := range result {
		xmin, xmax := spanOf(seg.X)
		ymin, ymax := spanOf(seg.Y)
		log.Printf("  segment %d: %d vertices, %s in [%g, %g], %s in [%g, %g]\n",
			i, seg.Len(), config.XField, xmin, xmax, config.YField, ymin, ymax)
	}
	log.Printf("Validation plot saved to: %s\n", config.PlotPath)
}

func parseFlags() Config {
	config := Config{}

	flag.StringVar(&config.InputPath, "input", "",
		"Input JSON file with mmed, mdm, gq, gdm, gl and depth arrays (couplings may be single-valued)")
	flag.StringVar(&config.PlotPath, "plot", "exclusion_depth.png",
		"Output path for the validation heatmap")
	flag.Float64Var(&config.Threshold, "threshold", 1.0,
		"Exclusion depth threshold for the contour")
	flag.StringVar(&config.XField, "x", "mmed",
		"Sample field on the x axis")
	flag.StringVar(&config.YField, "y", "gq",
		"Sample field on the y axis")

	flag.Parse()

	if config.InputPath == "" {
		log.Fatalf("ERROR: -input is required")
	}
	if _, err := os.Stat(config.InputPath); os.IsNotExist(err) {
		log.Fatalf("ERROR: Input file does not exist: %s", config.InputPath)
	}

	return config
}

func readGrid(path string) (*gridFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var grid gridFile
	if err := json.Unmarshal(data, &grid); err != nil {
		return nil, err
	}
	if len(grid.Depth) == 0 {
		return nil, fmt.Errorf("%s holds no depth values", path)
	}
	return &grid, nil
}

func spanOf(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
