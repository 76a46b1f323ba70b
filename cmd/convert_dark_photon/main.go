package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"

	"limit-rescaling/darkphoton"
	"limit-rescaling/limits"
	"limit-rescaling/utils"
)

// Config holds the conversion configuration
type Config struct {
	InputPath  string
	OutputPath string
	Gdm        float64
}

func main() {
	_ = godotenv.Load()
	config := parseFlags()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("=== Dark Photon Limit Conversion ===\n")
	log.Printf("Input:  %s\n", config.InputPath)
	log.Printf("Output: %s\n", config.OutputPath)
	log.Printf("g_DM:   %g\n", config.Gdm)
	log.Println()

	// Step 1: Load the input limit
	log.Println("Step 1: Loading input limit...")
	lim, err := limits.ReadConvertibleLimit(config.InputPath)
	if err != nil {
		log.Fatalf("ERROR: Failed to load input limit: %v", err)
	}
	log.Printf("Loaded %d contour(s)\n", len(lim.Mmed))

	// Step 2: Convert each contour to dark photon couplings
	log.Println("Step 2: Converting to dark photon couplings...")
	out := &limits.ConvertedLimit{
		Input:        config.InputPath,
		Mmed:         lim.Mmed,
		EpsilonLimit: make(limits.Series, len(lim.Mmed)),
		YLimit:       make(limits.Series, len(lim.Mmed)),
	}
	for i := range lim.Mmed {
		eps, err := darkphoton.Epsilon(lim.Mmed[i], lim.GqLimit[i])
		if err != nil {
			log.Fatalf("ERROR: Conversion failed for contour %d: %v", i, err)
		}
		y, err := darkphoton.YieldParameter(lim.Mmed[i], lim.Mdm[i], lim.GqLimit[i], config.Gdm)
		if err != nil {
			log.Fatalf("ERROR: Conversion failed for contour %d: %v", i, err)
		}
		out.EpsilonLimit[i] = eps
		out.YLimit[i] = y
	}

	// Step 3: Quick plot next to the output file
	log.Println("Step 3: Rendering quick plot...")
	plotPath := pngSibling(config.OutputPath)
	if err := darkphoton.QuickPlotTracks(lim.Mmed, out.YLimit, plotPath); err != nil {
		logger := utils.GetLogger()
		err := xerrors.New(err)
		logger.ErrorContext(context.Background(), "Failed to render quick plot.", slog.Any("error", err))
	} else {
		log.Printf("Quick plot saved to: %s\n", plotPath)
	}

	// Step 4: Write the converted limit
	log.Println("Step 4: Writing converted limit...")
	if err := out.Write(config.OutputPath); err != nil {
		log.Fatalf("ERROR: Failed to write output: %v", err)
	}
	log.Printf("Converted limit saved to: %s\n", config.OutputPath)
}

func parseFlags() Config {
	config := Config{}

	flag.StringVar(&config.InputPath, "input", "",
		"Input JSON file with mmed, mdm and gq_limit arrays")
	flag.StringVar(&config.OutputPath, "output", "dark_photon_limit.json",
		"Output JSON file for the converted limit")
	flag.Float64Var(&config.Gdm, "gdm", 1.0,
		"Dark matter coupling g_DM")

	flag.Parse()

	if config.InputPath == "" {
		log.Fatalf("ERROR: -input is required")
	}
	if _, err := os.Stat(config.InputPath); os.IsNotExist(err) {
		log.Fatalf("ERROR: Input file does not exist: %s", config.InputPath)
	}

	return config
}

// pngSibling swaps the output file's extension for .png.
func pngSibling(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
}
