// Package concurrent runs actions over sequence iterators in parallel.
package concurrent

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/craftconn/craftconn/pkg/sequence"
)

// ForEach runs action for every element of the iterator, with at most
// limit goroutines in flight. A limit below one means unbounded. It
// waits for all actions and returns the first error encountered.
func ForEach[T any](i *sequence.Iterator[T], limit int, action func(T) error) error {
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for v := range i.Seq() {
		g.Go(func() error {
			return action(v)
		})
	}
	return g.Wait()
}

// ForEachMute runs action for every element in parallel and discards
// errors.
func ForEachMute[T any](i *sequence.Iterator[T], action func(T)) {
	var wg sync.WaitGroup
	for v := range i.Seq() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			action(v)
		}()
	}
	wg.Wait()
}
