package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/llmbench/regression-detector/detector/analysis"
	"github.com/llmbench/regression-detector/detector/config"
	"github.com/llmbench/regression-detector/detector/report"
	"github.com/llmbench/regression-detector/detector/schema"
	"github.com/llmbench/regression-detector/detector/types"
)

func main() {
	// Define command-line flags
	baselineStr := flag.String("baseline", "", "Comma-separated list of baseline run record JSON files")
	candidateStr := flag.String("candidate", "", "Comma-separated list of candidate run record JSON files")
	configPath := flag.String("config", "", "Optional path to YAML detection configuration")
	modelsStr := flag.String("models", "", "Comma-separated list of provider:model pairs to restrict the analysis to")
	formatStr := flag.String("format", "text", "Output format: json, table or text")
	failOn := flag.String("fail-on", "minor", "Fail the pipeline when the worst severity is at least: minor, major or critical")
	outputPath := flag.String("output", "", "Optional file to write the rendered output to (defaults to stdout)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Parse()

	if *baselineStr == "" || *candidateStr == "" {
		log.Fatal("Both -baseline and -candidate run files are required")
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	// Load configuration
	var cfg config.DetectionConfig
	if *configPath != "" {
		loaded, err := config.LoadDetectionConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultDetectionConfig()
	}

	if *modelsStr != "" {
		cfg.Models = parseModelFilters(*modelsStr)
	}
	cfg.FailOn = types.Severity(*failOn)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Load and validate run records
	baselineRuns, err := loadRunFiles(*baselineStr)
	if err != nil {
		log.Fatalf("Failed to load baseline runs: %v", err)
	}
	candidateRuns, err := loadRunFiles(*candidateStr)
	if err != nil {
		log.Fatalf("Failed to load candidate runs: %v", err)
	}

	// Run detection
	detector := analysis.NewDetector(cfg, nil, logger)
	result, err := detector.Detect(baselineRuns, candidateRuns)
	if err != nil {
		log.Fatalf("Detection failed: %v", err)
	}

	// Render output
	rendered, err := report.Render(result, report.Format(*formatStr))
	if err != nil {
		log.Fatalf("Failed to render result: %v", err)
	}

	if *outputPath != "" {
		if err := os.WriteFile(*outputPath, rendered, 0644); err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		fmt.Printf("Result written to %s\n", *outputPath)
	} else {
		os.Stdout.Write(rendered)
	}

	os.Exit(report.ExitCode(result, cfg.FailOn))
}

// loadRunFiles reads and validates each comma-separated run record file and
// concatenates the records in file order
func loadRunFiles(fileList string) ([]types.RunRecord, error) {
	var runs []types.RunRecord
	for _, file := range strings.Split(fileList, ",") {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		parsed, err := schema.ParseRunRecords(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		runs = append(runs, parsed...)
	}

	if len(runs) == 0 {
		return nil, fmt.Errorf("no run records loaded from %q", fileList)
	}
	return runs, nil
}

// parseModelFilters parses "provider:model" pairs from a comma-separated
// list, skipping blank entries
func parseModelFilters(modelsList string) []config.ModelFilter {
	var filters []config.ModelFilter
	for _, pair := range strings.Split(modelsList, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		provider, model, ok := strings.Cut(pair, ":")
		if !ok {
			log.Fatalf("Invalid model filter: %s. Expected format: provider:model", pair)
		}
		filters = append(filters, config.ModelFilter{
			ProviderName: strings.TrimSpace(provider),
			ModelID:      strings.TrimSpace(model),
		})
	}
	return filters
}
