package scanner

import (
	"sync"

	"xspect/internal/logger"
)

// Reporter consumes findings. The output sink implements it; tests substitute
// their own collector.
type Reporter interface {
	Report(f Finding)
}

// Dispatcher runs the prober concurrently over a fixed URL list (target
// testing mode). It owns no crawl state: every input URL is one independent
// unit of work, all submitted up front, with the pool size bounding execution
// only. Duplicate input URLs are tested, and reported, once each.
type Dispatcher struct {
	tester  Tester
	sink    Reporter
	logger  *logger.Logger
	workers int
}

// NewDispatcher creates a Dispatcher with a bounded worker pool.
func NewDispatcher(tester Tester, sink Reporter, log *logger.Logger, workers int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		tester:  tester,
		sink:    sink,
		logger:  log,
		workers: workers,
	}
}

// Run tests every URL in urls and reports each positive to the sink as it
// completes. Completion order is not submission order. A unit that fails is
// treated as not vulnerable; nothing is retried and no failure aborts the
// other workers.
func (d *Dispatcher) Run(urls []string) {
	if len(urls) == 0 {
		return
	}

	numWorkers := d.workers
	if numWorkers > len(urls) {
		numWorkers = len(urls)
	}
	d.logger.Debug("Dispatcher: starting %d worker(s) for %d URLs", numWorkers, len(urls))

	jobs := make(chan string, len(urls))
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range jobs {
				if finding := d.tester.Test(u); finding != nil {
					d.sink.Report(*finding)
				}
			}
		}()
	}

	for _, u := range urls {
		jobs <- u
	}
	close(jobs)
	wg.Wait()

	d.logger.Debug("Dispatcher: all workers finished.")
}
