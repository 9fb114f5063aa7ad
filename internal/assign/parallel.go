package assign

import (
	"runtime"
	"sync"

	"github.com/UCSCComparativeGenomics/parentassign/internal/cluster"
)

// WorkItem holds one cluster ready for resolution.
type WorkItem struct {
	Seq     int
	Cluster *cluster.Cluster
}

// WorkResult holds the assignment records for a single cluster.
type WorkResult struct {
	Seq     int
	Records []Record
	Err     error
}

// ParallelResolve resolves clusters using a pool of workers. Clusters
// share no mutable state, so correctness does not depend on processing
// order. Results arrive in completion order; use OrderedCollect to
// consume them in sequence-number order. If workers is 0,
// runtime.NumCPU() is used.
func (r *Resolver) ParallelResolve(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				recs, err := r.ResolveCluster(item.Cluster)
				results <- WorkResult{Seq: item.Seq, Records: recs, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order,
// buffering out-of-order results until the next expected sequence number
// arrives. Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// ResolveAll resolves every cluster across the worker pool and returns
// the concatenated records in cluster order. The first error aborts the
// run; no partial results are returned.
func (r *Resolver) ResolveAll(clusters []*cluster.Cluster, workers int) ([]Record, error) {
	items := make(chan WorkItem)
	go func() {
		for i, c := range clusters {
			items <- WorkItem{Seq: i, Cluster: c}
		}
		close(items)
	}()

	var all []Record
	err := OrderedCollect(r.ParallelResolve(items, workers), func(res WorkResult) error {
		if res.Err != nil {
			return res.Err
		}
		all = append(all, res.Records...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}
