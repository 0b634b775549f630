package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"bd1-manipulator/internal/config"
	"bd1-manipulator/internal/manipulator"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Recipe    config.Config // steps, degrees and worker count
	OutputDir string
	Logger    *slog.Logger
}

// Result holds the outcome of processing one file.
type Result struct {
	Input   string
	Output  string
	Blocks  int
	Success bool
	Error   string
}

// Run transforms all inputs using a worker pool. Each file gets its own
// Manipulator, so no state is shared between workers.
func Run(cfg Config, inputs []string) []Result {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	workers := cfg.Recipe.Workers
	if workers <= 0 {
		workers = 1
	}

	total := len(inputs)
	results := make([]Result, total)
	var processed atomic.Int64

	// Two inputs with the same base name would otherwise race on one
	// output file. The first keeps it; later ones fail.
	outputs := make([]string, total)
	owner := make(map[string]int, total)
	var queue []int
	for i, input := range inputs {
		outputs[i] = outputPath(cfg, input)
		key := filepath.Clean(outputs[i])
		if j, taken := owner[key]; taken {
			results[i] = Result{
				Input:  input,
				Output: outputs[i],
				Error:  fmt.Sprintf("output %s already written for %s", outputs[i], inputs[j]),
			}
			log.Warn("output collision", "input", input, "output", outputs[i], "first", inputs[j])
			processed.Add(1)
			continue
		}
		owner[key] = i
		queue = append(queue, i)
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
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("progress", "done", p, "total", total, "files_per_sec", rate)
				}
			}
		}
	}()

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processFile(cfg, inputs[idx], outputs[idx])
				if !results[idx].Success {
					log.Warn("transform failed", "input", inputs[idx], "err", results[idx].Error)
				}
				processed.Add(1)
			}
		}()
	}

	for _, i := range queue {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

// outputPath places the output in OutputDir, or next to the input as
// "<name>_out<ext>" when no directory is set.
func outputPath(cfg Config, input string) string {
	if cfg.OutputDir != "" {
		return filepath.Join(cfg.OutputDir, filepath.Base(input))
	}
	return config.DefaultOutput(input)
}

func processFile(cfg Config, input, output string) Result {
	res := Result{Input: input, Output: output}

	m, err := manipulator.Load(input)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Blocks = len(m.Blocks)

	if err := cfg.Recipe.Apply(m); err != nil {
		res.Error = err.Error()
		return res
	}
	m.Apply()

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			res.Error = err.Error()
			return res
		}
	}

	if err := m.Save(res.Output); err != nil {
		res.Error = fmt.Sprintf("save: %v", err)
		return res
	}

	res.Success = true
	return res
}
