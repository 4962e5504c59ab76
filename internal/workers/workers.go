package workers

import "context"

// Workers aggregates background workers and runs them as a unit.
type Workers struct {
	workers []Worker
}

// NewWorkers builds an aggregate from the given workers.
func NewWorkers(list ...Worker) *Workers {
	return &Workers{workers: list}
}

// Run starts every worker in order. The first start failure aborts the
// remainder; workers already started keep running until ctx is cancelled.
func (w *Workers) Run(ctx context.Context) error {
	for _, worker := range w.workers {
		if err := worker.Run(ctx); err != nil {
			return err
		}
	}
	return nil
}
