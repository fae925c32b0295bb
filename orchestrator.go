package tbe

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ReplicateOrErr is one element of the channel Orchestrator.Run
// consumes: either a successfully parsed replicate tree, or the error
// that occurred while reading or parsing it. Folding both into one
// channel element lets the producer (reading the replicate file one
// ';'-terminated tree at a time) and the consumer (the worker pool) stay decoupled without a
// second error channel; §7's partial-failure policy is applied here —
// a non-nil Err is logged and skipped, never propagated as fatal.
type ReplicateOrErr struct {
	Tree *Tree
	Err  error
}

// Result holds the accumulated per-edge statistics of a full run.
type Result struct {
	Algorithm Algorithm

	// SumMinDist and ExactHits are populated for AlgorithmTBE and
	// AlgorithmFBP respectively; the other is left nil.
	SumMinDist []uint64
	ExactHits  []int

	Count   int
	Support []float64

	// MovedTaxaFrequency is non-nil only when WithMovedTaxaCutoff was
	// set: for each taxon, the number of (replicate, branch) pairs whose
	// normalised distance was at or below the cutoff and whose minimum
	// transfer set contained it, divided by the replicate count. A taxon
	// moved on several branches of one replicate counts once per branch,
	// so a value can exceed 1.
	MovedTaxaFrequency map[string]float64
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithWorkers sets the number of goroutines pulling from the replicate
// channel. Non-positive values are ignored, leaving the default of 1.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithAlgorithm selects TBE (default) or FBP for the run.
func WithAlgorithm(a Algorithm) Option {
	return func(o *Orchestrator) { o.algo = a }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithTransferSet enables §4.6.5's transfer-set reconstruction on every
// replicate, not just when moved-taxa tracking needs it. Has no effect
// on the computed support values, only on whether the extra
// bookkeeping runs.
func WithTransferSet(enabled bool) Option {
	return func(o *Orchestrator) { o.withTransferSet = enabled }
}

// WithMovedTaxaCutoff enables the moved-taxa diagnostic (see
// SPEC_FULL.md's supplemented features, grounded on booster.go's
// movedSpeciesCutoff): for every branch whose normalised distance on a
// replicate falls at or below cutoff, every taxon in that branch's
// minimum transfer set is charged one occurrence towards
// Result.MovedTaxaFrequency. Implies transfer-set tracking.
func WithMovedTaxaCutoff(cutoff float64) Option {
	return func(o *Orchestrator) {
		o.trackMovedTaxa = true
		o.movedTaxaCutoff = cutoff
	}
}

// WithReplicateTimeout bounds the context passed while processing each
// individual replicate. Left unused by default since §5 does not
// prescribe a ceiling.
func WithReplicateTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.replicateTimeout = d }
}

// Orchestrator drives one full run: a fixed reference tree, a stream of
// replicate trees distributed across o.workers goroutines, accumulating
// per-edge statistics and normalising them into a Result (§4.7, §5).
type Orchestrator struct {
	ref     *Tree
	workers int
	algo    Algorithm
	logger  zerolog.Logger

	withTransferSet  bool
	trackMovedTaxa   bool
	movedTaxaCutoff  float64
	replicateTimeout time.Duration

	refFastOK bool
}

// New returns an Orchestrator for ref, applying opts over the defaults
// of 1 worker, AlgorithmTBE, and a no-op logger. ref's fast-path
// eligibility is checked once here rather than per replicate.
func New(ref *Tree, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ref:     ref,
		workers: 1,
		algo:    AlgorithmTBE,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.refFastOK = ref.validateFastShape() == nil
	if !o.refFastOK {
		o.logger.Warn().Msg("reference tree fails fast-path shape check, using naive engine for every replicate")
	}
	return o
}

// workerState is the private, lock-free accumulator each Run goroutine
// owns — merged into the final Result only at the join point (§5's
// "per-worker private accumulators merged at shutdown" policy).
type workerState struct {
	sumMinDist []uint64
	exactHits  []int
	count      int
	moved      *movedTaxaAccumulator
}

// Run drains replicates across o.workers goroutines until the channel
// closes or ctx is cancelled, then normalises the accumulated sums into
// a Result and annotates o.ref's internal edges with the final support
// values (§4.7's "emits the reference tree annotated with these
// supports").
func (o *Orchestrator) Run(ctx context.Context, replicates <-chan ReplicateOrErr) (*Result, error) {
	numEdges := o.ref.NumEdges()
	needTransferSet := o.withTransferSet || o.trackMovedTaxa

	states := make([]*workerState, o.workers)
	var nextIndex int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < o.workers; w++ {
		state := &workerState{
			sumMinDist: make([]uint64, numEdges),
			exactHits:  make([]int, numEdges),
		}
		if o.trackMovedTaxa {
			state.moved = newMovedTaxaAccumulator(o.movedTaxaCutoff)
		}
		states[w] = state

		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case rep, ok := <-replicates:
					if !ok {
						return nil
					}
					if rep.Err != nil {
						o.logger.Warn().Err(rep.Err).Msg("skipping replicate that failed to parse")
						continue
					}

					replicateIndex := int(atomic.AddInt64(&nextIndex, 1) - 1)
					repCtx, cancel := o.withReplicateTimeout(gctx)
					o.accumulate(repCtx, rep.Tree, replicateIndex, needTransferSet, state)
					if repCtx.Err() != nil {
						o.logger.Warn().Int("replicate", replicateIndex).Msg("replicate exceeded its timeout")
					}
					cancel()
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sumMinDist := make([]uint64, numEdges)
	exactHits := make([]int, numEdges)
	moved := newMovedTaxaAccumulator(o.movedTaxaCutoff)
	count := 0

	for _, state := range states {
		count += state.count
		for i := 0; i < numEdges; i++ {
			sumMinDist[i] += state.sumMinDist[i]
			exactHits[i] += state.exactHits[i]
		}
		if state.moved != nil {
			for taxon, c := range state.moved.counts {
				moved.counts[taxon] += c
			}
		}
	}

	result := &Result{Algorithm: o.algo, Count: count}
	switch o.algo {
	case AlgorithmFBP:
		result.ExactHits = exactHits
		result.Support = normalizeFBP(exactHits, count)
	default:
		result.SumMinDist = sumMinDist
		result.Support = normalizeTBE(o.ref, sumMinDist, count)
	}
	if o.trackMovedTaxa {
		result.MovedTaxaFrequency = moved.frequency(o.ref.taxa, count)
	}

	for i := 0; i < numEdges; i++ {
		if !o.ref.EdgeIsTerminal(i) {
			o.ref.SetEdgeSupport(i, result.Support[i])
		}
	}

	return result, nil
}

// withReplicateTimeout wraps parent with o.replicateTimeout if one was
// configured, otherwise returns it unmodified with a no-op cancel.
func (o *Orchestrator) withReplicateTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if o.replicateTimeout <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, o.replicateTimeout)
}

// accumulate runs the configured algorithm for one replicate against
// o.ref and folds the result into state. ctx is accepted for the
// timeout contract of §5 but is not checked mid-computation: the inner
// engines have no blocking calls, so there is nothing to cooperatively
// cancel partway through a single (ref, rep) pair.
func (o *Orchestrator) accumulate(_ context.Context, rep *Tree, replicateIndex int, needTransferSet bool, state *workerState) {
	switch o.algo {
	case AlgorithmFBP:
		hits := ExactSupport(o.ref, rep)
		for i, h := range hits {
			state.exactHits[i] += h
		}
	default:
		minDist, sets := transferIndex(o.ref, rep, o.refFastOK, needTransferSet, replicateIndex, o.logger)
		for i, d := range minDist {
			state.sumMinDist[i] += uint64(d)
		}
		if state.moved != nil {
			for i, d := range minDist {
				if sets == nil || sets[i] == nil {
					continue
				}
				state.moved.observe(o.ref.EdgeTopoDepth(i), d, sets[i])
			}
		}
	}
	state.count++
}
