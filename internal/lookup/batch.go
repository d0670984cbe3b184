package lookup

import (
	"log/slog"
	"sync"
)

// DefaultWorkers is the pool size used when the caller does not supply
// a positive worker count.
const DefaultWorkers = 4

// Batch runs lookups for many addresses across a bounded worker pool.
type Batch struct {
	service *Service
	workers int
	logger  *slog.Logger
}

// NewBatch creates a batch processor with the given pool size. A size
// below 1 falls back to DefaultWorkers; a nil logger falls back to the
// default slog logger.
func NewBatch(service *Service, workers int, logger *slog.Logger) *Batch {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Batch{service: service, workers: workers, logger: logger}
}

type job struct {
	index   int
	address string
}

type outcome struct {
	index  int
	result Result
	err    error
}

// Process resolves every address and returns the results in input
// order. A failure on one address is logged with that address and
// excluded from the returned slice; it never stops the rest of the
// batch. Process returns only after every submitted address has either
// produced a result or been logged as failed.
func (b *Batch) Process(addresses []string) []Result {
	jobs := make(chan job)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				result, err := b.service.Lookup(j.address)
				outcomes <- outcome{index: j.index, result: result, err: err}
			}
		}()
	}

	go func() {
		for i, address := range addresses {
			jobs <- job{index: i, address: address}
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	// Collect into per-input slots so output order matches input order
	// regardless of which worker finishes first.
	slots := make([]*Result, len(addresses))
	for out := range outcomes {
		if out.err != nil {
			b.logger.Error("address lookup failed", "address", addresses[out.index], "error", out.err)
			continue
		}
		result := out.result
		slots[out.index] = &result
	}

	results := make([]Result, 0, len(addresses))
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	return results
}
