package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"magiceye-renderer/internal/batch"
	"magiceye-renderer/internal/logger"
	"magiceye-renderer/internal/texture"
)

func main() {
	jobsPath := flag.String("jobs", "", "Path to the YAML job list")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	testN := flag.Int("test", 0, "Render only the first N jobs for testing")
	manifestPath := flag.String("manifest", "", "Write a JSON results manifest to this path")
	logLevel := flag.String("log", "info", "Log level (debug|info|warn|error)")
	logFile := flag.String("logfile", "", "Also log to a rotating file")

	flag.Parse()

	if *jobsPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -jobs jobs.yaml [-workers N] [-manifest out.json]\n", os.Args[0])
		os.Exit(2)
	}

	if err := logger.Init(*logLevel, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	jobs, err := batch.LoadJobs(*jobsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}

	fmt.Printf("Stereogram batch renderer\n")
	fmt.Printf("Jobs: %d, Workers: %d\n", len(jobs), *workers)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		Workers:  *workers,
		Log:      logger.Log,
		Textures: texture.NewCache(),
	}, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	summary := batch.Summarize(results)
	fmt.Printf("Rendered: %d/%d\n", summary.Succeeded, summary.Total)
	if summary.Total > 0 {
		fmt.Printf("Duration p50=%.0fms p95=%.0fms\n", summary.P50DurationMS, summary.P95DurationMS)
	}

	if summary.Failed > 0 {
		fmt.Printf("\nFailed (%d):\n", summary.Failed)
		shown := 0
		for _, r := range results {
			if r.Success {
				continue
			}
			fmt.Printf("  %s: %s\n", r.Name, r.Error)
			shown++
			if shown == 20 {
				break
			}
		}
	}

	if *manifestPath != "" {
		if err := batch.WriteManifest(*manifestPath, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", *manifestPath)
		}
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
