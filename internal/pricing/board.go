package pricing

import (
	"context"
	"sync"

	"divicards/internal/grouping"
	"divicards/pkg/core"
	"divicards/pkg/logger"
)

// Board holds the price table of one category for the league currently
// wanted. Each SetLeague call supersedes the previous one: the older fetch is
// cancelled and, should it still complete, its result is dropped.
type Board struct {
	category grouping.Category
	fetcher  *Fetcher
	log      core.Logger
	ctx      context.Context

	mu      sync.RWMutex
	seq     uint64
	cancel  context.CancelFunc
	league  string
	loading bool
	closed  bool
	result  Result
	wg      sync.WaitGroup

	onUpdate func(Result)
}

// BoardState is a read-only copy of the board.
type BoardState struct {
	Category    grouping.Category `json:"category"`
	League      string            `json:"league"`
	Loading     bool              `json:"loading"`
	PriceLeague string            `json:"price_league,omitempty"`
	Error       string            `json:"error,omitempty"`
	Prices      Table             `json:"-"`
	Count       int               `json:"count"`
}

type BoardOption func(*Board)

func WithBoardLogger(l core.Logger) BoardOption {
	return func(b *Board) { b.log = l }
}

// OnUpdate registers a callback run after a result is applied.
func OnUpdate(fn func(Result)) BoardOption {
	return func(b *Board) { b.onUpdate = fn }
}

// NewBoard creates an empty board. Fetches run under ctx.
func NewBoard(ctx context.Context, c grouping.Category, fetcher *Fetcher, opts ...BoardOption) *Board {
	b := &Board{
		category: c,
		fetcher:  fetcher,
		log:      logger.Nop(),
		ctx:      ctx,
		result:   Result{Category: c, Prices: Table{}},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) Category() grouping.Category {
	return b.category
}

// SetLeague starts loading prices for league and returns the request
// sequence number. After Close it starts nothing and returns the sequence
// number of the last request.
func (b *Board) SetLeague(league string) uint64 {
	b.mu.Lock()
	if b.closed {
		seq := b.seq
		b.mu.Unlock()
		b.log.Debug("Board closed, ignoring league", "category", string(b.category), "league", league)
		return seq
	}
	if b.cancel != nil {
		b.cancel()
	}
	b.seq++
	seq := b.seq
	ctx, cancel := context.WithCancel(b.ctx)
	b.cancel = cancel
	b.league = league
	b.loading = true
	b.result = Result{Category: b.category, League: league, Prices: Table{}}
	b.wg.Add(1)
	b.mu.Unlock()

	b.log.Debug("Loading prices", "category", string(b.category), "league", league, "seq", seq)

	go func() {
		defer b.wg.Done()
		defer cancel()
		res := b.fetcher.Fetch(ctx, b.category, league)
		b.apply(seq, res)
	}()
	return seq
}

// apply stores res only if seq is still the latest request.
func (b *Board) apply(seq uint64, res Result) bool {
	b.mu.Lock()
	if seq != b.seq {
		b.mu.Unlock()
		b.log.Debug("Discarding stale prices",
			"category", string(b.category),
			"league", res.League,
			"seq", seq,
			"current_seq", b.seq)
		return false
	}
	b.result = res
	b.loading = false
	b.cancel = nil
	onUpdate := b.onUpdate
	b.mu.Unlock()

	if res.Degraded() {
		b.log.Warn("Prices unavailable", "category", string(b.category), "league", res.League, "error", res.ErrorMessage())
	} else {
		b.log.Info("Prices loaded",
			"category", string(b.category),
			"league", res.League,
			"price_league", res.PriceLeague,
			"count", len(res.Prices))
	}
	if onUpdate != nil {
		onUpdate(res)
	}
	return true
}

// State returns a snapshot of the board. Prices is shared and must not be
// modified.
func (b *Board) State() BoardState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return BoardState{
		Category:    b.category,
		League:      b.league,
		Loading:     b.loading,
		PriceLeague: b.result.PriceLeague,
		Error:       b.result.ErrorMessage(),
		Prices:      b.result.Prices,
		Count:       len(b.result.Prices),
	}
}

// Wait blocks until every started fetch has returned. It must not overlap
// SetLeague calls; use Close to stop a board that is still being switched.
func (b *Board) Wait() {
	b.wg.Wait()
}

// Close cancels the in-flight fetch and waits for it. Later SetLeague calls
// are ignored.
func (b *Board) Close() {
	b.mu.Lock()
	b.closed = true
	if b.cancel != nil {
		b.cancel()
	}
	b.mu.Unlock()
	b.wg.Wait()
}
