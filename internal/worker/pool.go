// Package worker fans batch analysis out over a bounded pool of goroutines
// while preserving input order in the results.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/veracitylabs/veracity/internal/engine"
)

// Task is one text to analyze within a batch.
type Task struct {
	ID   string
	Text string
}

// Outcome is the result of analyzing one task. Exactly one of Result and
// Err is set.
type Outcome struct {
	ID     string
	Result *engine.Result
	Err    error
}

// Pool runs analyses concurrently with a fixed number of workers.
type Pool struct {
	engine   *engine.Engine
	workers  int
	detailed bool
	logger   *zap.Logger
}

// NewPool creates a pool. workers below 1 is clamped to 1.
func NewPool(eng *engine.Engine, workers int, detailed bool, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		engine:   eng,
		workers:  workers,
		detailed: detailed,
		logger:   logger.With(zap.String("component", "worker")),
	}
}

// Run analyzes all tasks and returns outcomes in the same order as the
// input. A canceled context stops dispatching new tasks; already started
// analyses finish and their outcomes are kept.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Outcome {
	outcomes := make([]Outcome, len(tasks))
	if len(tasks) == 0 {
		return outcomes
	}

	type indexed struct {
		idx  int
		task Task
	}

	jobs := make(chan indexed)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				result, err := p.engine.Analyze(job.task.Text, p.detailed)
				outcomes[job.idx] = Outcome{
					ID:     job.task.ID,
					Result: result,
					Err:    err,
				}
			}
		}()
	}

dispatch:
	for i, task := range tasks {
		select {
		case jobs <- indexed{idx: i, task: task}:
		case <-ctx.Done():
			p.logger.Warn("Batch canceled",
				zap.Int("dispatched", i),
				zap.Int("total", len(tasks)))
			for j := i; j < len(tasks); j++ {
				outcomes[j] = Outcome{ID: tasks[j].ID, Err: ctx.Err()}
			}
			break dispatch
		}
	}
	close(jobs)

	wg.Wait()
	return outcomes
}
