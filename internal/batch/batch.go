// Package batch renders many stereogram jobs from one YAML job list.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"magiceye-renderer/internal/config"
	"magiceye-renderer/internal/render"
	"magiceye-renderer/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Workers  int
	Log      *zap.Logger
	Textures *texture.Cache
}

// Job is one renderable entry from a job list.
type Job struct {
	Name string
	Opt  *config.Options
}

// Result holds the outcome of processing one job. Results keep the job
// list's order.
type Result struct {
	Name       string        `json:"name"`
	MeshPath   string        `json:"mesh"`
	OutputPath string        `json:"output,omitempty"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	DurationMS float64       `json:"duration_ms"`
	Stats      *render.Stats `json:"stats,omitempty"`
}

// jobFile is the YAML layout: a defaults block merged over the built-in
// option values, then a list of per-job overrides.
type jobFile struct {
	Defaults yaml.Node   `yaml:"defaults"`
	Jobs     []yaml.Node `yaml:"jobs"`
}

// LoadJobs parses a YAML job list. Option precedence per job is built-in
// defaults, then the file's defaults block, then the job's own fields.
// Paths are used as written, relative to the process working directory.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read job list: %w", err)
	}

	var file jobFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("batch: parse job list %s: %w", path, err)
	}
	if len(file.Jobs) == 0 {
		return nil, fmt.Errorf("batch: job list %s has no jobs", path)
	}

	base := config.Default()
	if file.Defaults.Kind != 0 {
		if err := file.Defaults.Decode(base); err != nil {
			return nil, fmt.Errorf("batch: defaults block: %w", err)
		}
	}

	jobs := make([]Job, 0, len(file.Jobs))
	for i := range file.Jobs {
		node := &file.Jobs[i]

		opt := *base
		if err := node.Decode(&opt); err != nil {
			return nil, fmt.Errorf("batch: job %d: %w", i, err)
		}

		var label struct {
			Name string `yaml:"name"`
		}
		if err := node.Decode(&label); err != nil {
			return nil, fmt.Errorf("batch: job %d: %w", i, err)
		}

		jobs = append(jobs, Job{Name: jobName(label.Name, &opt, i), Opt: &opt})
	}
	return jobs, nil
}

func jobName(explicit string, opt *config.Options, index int) string {
	if explicit != "" {
		return explicit
	}
	if opt.OutPrefix != "" {
		return filepath.Base(opt.OutPrefix)
	}
	if opt.MeshPath != "" {
		base := filepath.Base(opt.MeshPath)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return fmt.Sprintf("job-%d", index)
}

// Run processes all jobs using a worker pool.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.Info("batch progress",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Float64("jobs_per_sec", float64(p)/elapsed))
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runner := render.Runner{Log: log, Textures: cfg.Textures}
			for idx := range jobChan {
				results[idx] = processJob(&runner, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(runner *render.Runner, job Job) Result {
	start := time.Now()
	res := Result{
		Name:     job.Name,
		MeshPath: job.Opt.MeshPath,
	}

	stats, err := runner.Run(job.Opt)
	res.DurationMS = float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	res.OutputPath = stats.OutputPath
	res.Stats = stats
	return res
}
