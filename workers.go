package chatfmt

import (
	"context"
	"runtime"
	"sync"
)

// Worker sizing constants.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps automatic sizing; formatting is CPU-bound.
	MaxWorkers = 8

	// cpuDivisor leaves headroom for the caller's own goroutines.
	cpuDivisor = 2
)

// ResolveWorkers determines the number of parallel workers.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// RenderAll renders msgs concurrently and returns fragments in input order.
// workers <= 0 selects ResolveWorkers(0). Messages not started before ctx
// is done are returned unformatted, escaped like a failed Format.
func (f *Formatter) RenderAll(ctx context.Context, msgs []Message, workers int) []Fragment {
	if len(msgs) == 0 {
		return nil
	}

	concurrency := min(ResolveWorkers(workers), len(msgs))
	results := make([]Fragment, len(msgs))
	jobs := make(chan int, len(msgs))

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = Fragment{
						HTML:   f.fallback(msgs[idx].Text),
						Cursor: msgs[idx].Writing,
					}
					continue
				}
				results[idx] = f.Render(msgs[idx])
			}
		}()
	}

	for i := range msgs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}
