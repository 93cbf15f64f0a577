package experiment

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samuelfneumann/envies/environment"
	"github.com/samuelfneumann/envies/experiment/tracker"
)

// RunWorkers runs the experiment described by c on workers concurrent
// workers. The episodes are split into contiguous blocks, one per
// worker, and each worker owns an independent environment created
// from c. Episode i is started with seed c.Seed + i regardless of the
// number of workers. newTrackers is called once per worker with the
// worker's environment to create the Trackers of that worker.
//
// The returned experiments are ordered by worker and have already
// been closed.
func RunWorkers(c Config, workers int,
	newTrackers func(worker int,
		env environment.Environment) []tracker.Tracker) ([]*Rollout, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("runWorkers: number of workers must be "+
			"positive, got %v", workers)
	}
	if workers > c.Episodes && c.Episodes > 0 {
		workers = c.Episodes
	}

	rollouts := make([]*Rollout, workers)
	start := 0
	for w := 0; w < workers; w++ {
		config := c
		config.Episodes = c.Episodes / workers
		if w < c.Episodes%workers {
			config.Episodes++
		}
		config.Seed = c.Seed + uint64(start)
		start += config.Episodes

		r, err := config.CreateExp()
		if err != nil {
			for _, created := range rollouts[:w] {
				created.Close()
			}
			return nil, fmt.Errorf("runWorkers: worker %v: %w", w, err)
		}
		for _, t := range newTrackers(w, r.Environment()) {
			r.Register(t)
		}
		rollouts[w] = r
	}

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w, r := range rollouts {
		wg.Add(1)
		go func(w int, r *Rollout) {
			defer wg.Done()
			defer r.Close()

			errs[w] = r.Run()
			log.Debug().Int("worker", w).Int("steps", r.TotalSteps()).
				Msg("worker finished")
		}(w, r)
	}
	wg.Wait()

	for w, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("runWorkers: worker %v: %w", w, err)
		}
	}
	return rollouts, nil
}
