package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"

	"limit-rescaling/benchmarks"
	"limit-rescaling/couplingscan"
	"limit-rescaling/db"
	"limit-rescaling/limits"
	"limit-rescaling/rescale"
	"limit-rescaling/utils"
)

// Config holds the rescaling run configuration
type Config struct {
	SourceLimitPath string
	SourceInfoPath  string
	Benchmark       string
	OutputPath      string
	PlotPath        string
	ArchiveDSN      string
	GqLow           float64
	GqHigh          float64
	GqSteps         int
}

func main() {
	_ = godotenv.Load()
	config := parseFlags()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("=== Dijet Limit Rescaling ===\n")
	log.Printf("Source limit: %s\n", config.SourceLimitPath)
	log.Printf("Source info:  %s\n", config.SourceInfoPath)
	log.Printf("Benchmark:    %s\n", config.Benchmark)
	log.Println()

	// Step 1: Resolve the target benchmark
	log.Println("Step 1: Resolving target benchmark...")
	bench, err := benchmarks.Lookup(config.Benchmark)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	log.Printf("Target: %s (%s, %s)\n", bench.Name, bench.MdmLabel, bench.CouplingLabel)

	// Step 2: Load the source limit and model info
	log.Println("Step 2: Loading source limit and model info...")
	srcLimit, err := limits.ReadSourceLimit(config.SourceLimitPath)
	if err != nil {
		log.Fatalf("ERROR: Failed to load source limit: %v", err)
	}
	srcInfo, err := limits.ReadSourceInfo(config.SourceInfoPath)
	if err != nil {
		log.Fatalf("ERROR: Failed to load source info: %v", err)
	}
	mdmSource, err := srcInfo.ResolveMdm(srcLimit.Mmed)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	log.Printf("Loaded %d limit points (%s coupling, ecm %g TeV)\n",
		len(srcLimit.Mmed), srcInfo.Coupling, srcInfo.EcmTev)

	// Step 3: Build the source coupling limit
	log.Println("Step 3: Building source coupling limit...")
	ecm := (srcInfo.EcmTev * 1e3) * (srcInfo.EcmTev * 1e3)
	dijet, err := couplingscan.NewDijetLimit(couplingscan.DijetLimitConfig{
		Mmed:     srcLimit.Mmed,
		GqLimits: srcLimit.GqLimit,
		Mdm:      mdmSource,
		Gdm:      srcInfo.Gdm,
		Gl:       srcInfo.Gl,
		Coupling: srcInfo.Coupling,
		ECM:      ecm,
		PDFSet:   srcInfo.PDFSet,
	})
	if err != nil {
		log.Fatalf("ERROR: Failed to build coupling limit: %v", err)
	}

	// Step 4: Scan the target couplings and extract the contour
	log.Println("Step 4: Scanning target couplings...")
	result, err := rescale.Rescale(dijet, rescale.Config{
		Mmed:     srcLimit.Mmed,
		Target:   bench,
		Range:    rescale.ScanRange{Low: config.GqLow, High: config.GqHigh, Count: config.GqSteps},
		ECM:      ecm,
		PDFSet:   srcInfo.PDFSet,
		PlotPath: config.PlotPath,
	})
	if err != nil {
		log.Fatalf("ERROR: Rescaling failed: %v", err)
	}
	log.Printf("Extracted %d contour segment(s), %d vertices\n", len(result), result.TotalVertices())
	log.Printf("Validation plot saved to: %s\n", config.PlotPath)

	// Step 5: Write the rescaled limit
	log.Println("Step 5: Writing rescaled limit...")
	out := limits.NewRescaledLimit(result, config.Benchmark, bench, config.SourceLimitPath)
	if err := out.Write(config.OutputPath); err != nil {
		log.Fatalf("ERROR: Failed to write output: %v", err)
	}
	log.Printf("Rescaled limit saved to: %s\n", config.OutputPath)

	// Step 6: Archive when asked; a broken archive never voids the run
	if config.ArchiveDSN != "" {
		log.Println("Step 6: Archiving result...")
		if err := archiveResult(config.ArchiveDSN, config.Benchmark, config.SourceLimitPath, out); err != nil {
			logger := utils.GetLogger()
			err := xerrors.New(err)
			logger.ErrorContext(context.Background(), "Failed to archive result.", slog.Any("error", err))
		} else {
			log.Printf("Archived to: %s\n", config.ArchiveDSN)
		}
	}
}

func parseFlags() Config {
	config := Config{}

	flag.StringVar(&config.SourceLimitPath, "source-limit", "",
		"Source limit JSON file (mmed and gq_limit arrays)")
	flag.StringVar(&config.SourceInfoPath, "source-info", "",
		"Source model info JSON file (couplings, ecm_tev, mdm)")
	flag.StringVar(&config.Benchmark, "benchmark", "minimal_dark_photon",
		"Target benchmark name from the registry")
	flag.StringVar(&config.OutputPath, "output", "rescaled_limit.json",
		"Output path for the rescaled limit JSON")
	flag.StringVar(&config.PlotPath, "validation-plot", "exclusion_depth.png",
		"Output path for the exclusion depth validation plot")
	flag.StringVar(&config.ArchiveDSN, "archive", "",
		"Optional archive DSN (SQLite file path or mongodb:// URI)")
	flag.Float64Var(&config.GqLow, "gq-low", utils.EnvFloat("GQ_SCAN_LOW", rescale.DefaultGqLow),
		"Lower edge of the target coupling scan")
	flag.Float64Var(&config.GqHigh, "gq-high", utils.EnvFloat("GQ_SCAN_HIGH", rescale.DefaultGqHigh),
		"Upper edge of the target coupling scan")
	flag.IntVar(&config.GqSteps, "gq-steps", utils.EnvInt("GQ_SCAN_STEPS", rescale.DefaultGqSteps),
		"Number of coupling values in the scan")

	flag.Parse()

	if config.SourceLimitPath == "" || config.SourceInfoPath == "" {
		log.Fatalf("ERROR: -source-limit and -source-info are required")
	}
	for _, path := range []string{config.SourceLimitPath, config.SourceInfoPath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Fatalf("ERROR: Input file does not exist: %s", path)
		}
	}

	return config
}

func archiveResult(dsn, benchmark, input string, out *limits.RescaledLimit) error {
	client, err := db.NewClient(dsn)
	if err != nil {
		return err
	}
	defer client.Close()

	payload, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return client.StoreLimit(&db.StoredLimit{
		Benchmark: benchmark,
		Input:     input,
		Payload:   string(payload),
	})
}
