package search

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/tablebase"
)

// Pool is spec.md §4.H's lazy-SMP thread pool: every worker runs the
// identical iterative_deepening loop over its own board clone, sharing
// nothing but the transposition table and a stop flag. There is no split
// search or work-stealing — extra threads help purely by disagreeing about
// move order and seeding the shared TT with more of the tree, per
// ChizhovVadim-CounterGo's ParallelDo shape, generalised here from a
// young-brothers split search to independent per-worker root searches.
type Pool struct {
	tt     *TT
	prober tablebase.Prober

	mu      sync.Mutex
	stop    *atomic.Bool
	workers []*Worker
	group   *errgroup.Group

	onInfo     func(Info)
	onCurrMove func(CurrMove)
}

// NewPool builds a pool around a shared transposition table and tablebase
// prober (tt must outlive every search the pool runs).
func NewPool(tt *TT, prober tablebase.Prober) *Pool {
	if prober == nil {
		prober = tablebase.NoopProber{}
	}
	return &Pool{tt: tt, prober: prober}
}

// SetCallbacks installs the UCI-facing info/currmove reporters; both may be
// nil.
func (p *Pool) SetCallbacks(onInfo func(Info), onCurrMove func(CurrMove)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onInfo = onInfo
	p.onCurrMove = onCurrMove
}

// Start launches threadCount workers against pos and limits, returning
// immediately; call Wait (or Stop then Wait) to collect the result. Worker 0
// is the only one wired to onInfo/onCurrMove and to the wall-clock/node
// budget in Limits, per spec.md §4.H.
func (p *Pool) Start(pos *board.Board, limits Limits, threadCount int) {
	if threadCount < 1 {
		threadCount = 1
	}

	p.mu.Lock()
	p.stop = &atomic.Bool{}
	p.tt.NewSearch()
	p.workers = make([]*Worker, threadCount)
	onInfo, onCurrMove := p.onInfo, p.onCurrMove
	p.mu.Unlock()

	for i := 0; i < threadCount; i++ {
		w := newWorker(i, pos.Clone(), p.tt, p.prober, p.stop, limits)
		if i == 0 {
			w.onInfo = onInfo
			w.onCurrMove = onCurrMove
			w.poolNodes = p.Nodes
			w.poolTBHits = p.TBHits
		}
		p.workers[i] = w
	}

	group := &errgroup.Group{}
	p.mu.Lock()
	p.group = group
	p.mu.Unlock()

	for _, w := range p.workers {
		worker := w
		group.Go(func() error {
			worker.result = worker.run()
			return nil
		})
	}
}

// Stop signals every worker to halt at its next cooperative check point.
func (p *Pool) Stop() {
	p.mu.Lock()
	stop := p.stop
	p.mu.Unlock()
	if stop != nil {
		stop.Store(true)
	}
}

// Wait blocks until every worker has returned, then reports worker 0's
// result — the only one whose time management and output are authoritative.
func (p *Pool) Wait() Result {
	p.mu.Lock()
	group := p.group
	p.mu.Unlock()
	if group != nil {
		group.Wait()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.workers) == 0 {
		return Result{}
	}
	return p.workers[0].result
}

// Nodes sums the node counts of every worker, for the periodic nps/hashfull
// reporting spec.md §6.4 expects to reflect the whole pool. Workers other
// than the caller are still searching when this runs (worker 0 calls it from
// its own onInfo callback mid-search), so every worker's counter is read
// atomically against that worker's own atomic increments.
func (p *Pool) Nodes() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	var total uint64
	for _, w := range p.workers {
		total += atomic.LoadUint64(&w.nodes)
	}
	return total
}

// TBHits sums tablebase hits across every worker, same concurrency caveat as
// Nodes.
func (p *Pool) TBHits() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	var total uint64
	for _, w := range p.workers {
		total += atomic.LoadUint64(&w.tbHits)
	}
	return total
}
