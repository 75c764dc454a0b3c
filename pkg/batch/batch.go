// Package batch runs independent work items on a fixed-size worker pool.
//
// A failing item never stops its siblings: each item's error (or panic) is
// collected as a Failure and returned once every dispatched item has finished.
// Items are not retried.
package batch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Failure records the error of one item.
type Failure struct {
	Index int
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("item %d: %v", f.Index, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Run calls fn for every item using at most jobs goroutines. It returns the failures
// ordered by item index. When ctx is cancelled no further items are dispatched and
// each undispatched item is reported with ctx.Err().
func Run[T any](ctx context.Context, jobs int, items []T, fn func(ctx context.Context, index int, item T) error) []Failure {
	if jobs < 1 {
		jobs = 1
	}
	if jobs > len(items) {
		jobs = len(items)
	}

	type job struct {
		index int
		item  T
	}
	work := make(chan job, jobs*2)
	failures := make(chan Failure, jobs*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(jobs)
	for w := 0; w < jobs; w++ {
		go func() {
			defer wg.Done()
			for j := range work {
				if err := call(ctx, fn, j.index, j.item); err != nil {
					failures <- Failure{Index: j.index, Err: err}
				}
			}
		}()
	}

	// Collector
	var (
		collected []Failure
		cwg       sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for f := range failures {
			log.Debug().Int("item", f.Index).Err(f.Err).Msg("batch item failed")
			collected = append(collected, f)
		}
	}()

	// Feed work
	next := 0
feed:
	for ; next < len(items); next++ {
		select {
		case <-ctx.Done():
			break feed
		case work <- job{index: next, item: items[next]}:
		}
	}

	close(work)
	wg.Wait()

	for i := next; i < len(items); i++ {
		failures <- Failure{Index: i, Err: ctx.Err()}
	}
	close(failures)
	cwg.Wait()

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].Index < collected[j].Index
	})
	return collected
}

// call runs fn for one item, converting a panic into an error.
func call[T any](ctx context.Context, fn func(context.Context, int, T) error, index int, item T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, index, item)
}
