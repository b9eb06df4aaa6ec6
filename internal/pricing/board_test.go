package pricing

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"divicards/internal/grouping"
)

// gatedSource blocks each league until its gate is released.
type gatedSource struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
	tables  map[string]Table
}

func newGatedSource(tables map[string]Table) *gatedSource {
	s := &gatedSource{gates: map[string]chan struct{}{}, started: make(chan string, 10), tables: tables}
	for league := range tables {
		s.gates[league] = make(chan struct{})
	}
	return s
}

func (s *gatedSource) release(league string) {
	close(s.gates[league])
}

func (s *gatedSource) Prices(ctx context.Context, c grouping.Category, league string) (Table, error) {
	s.mu.Lock()
	gate := s.gates[league]
	s.mu.Unlock()
	s.started <- league
	select {
	case <-gate:
		return s.tables[league], nil
	case <-ctx.Done():
		// Model a transport that ignores cancellation: still answers later.
		<-gate
		return s.tables[league], nil
	}
}

func TestBoard_LatestLeagueWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newGatedSource(map[string]Table{
		"Settlers":   {grouping.Key{Name: "a"}: 1},
		"Necropolis": {grouping.Key{Name: "b"}: 2, grouping.Key{Name: "c"}: 3},
	})

	var applied []string
	var mu sync.Mutex
	board := NewBoard(context.Background(), grouping.Essence, NewFetcher(src),
		OnUpdate(func(r Result) {
			mu.Lock()
			applied = append(applied, r.League)
			mu.Unlock()
		}))

	first := board.SetLeague("Settlers")
	<-src.started
	second := board.SetLeague("Necropolis")
	<-src.started
	assert.Greater(t, second, first)

	// The newer request answers first, the superseded one afterwards.
	src.release("Necropolis")
	src.release("Settlers")
	board.Wait()

	state := board.State()
	assert.Equal(t, "Necropolis", state.League)
	assert.False(t, state.Loading)
	assert.Equal(t, "Necropolis", state.PriceLeague)
	assert.Equal(t, 2, state.Count)
	assert.Empty(t, state.Error)
	assert.Equal(t, []string{"Necropolis"}, applied)
}

func TestBoard_LoadingClearsPreviousPrices(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newGatedSource(map[string]Table{
		"Settlers": {grouping.Key{Name: "a"}: 1},
		"Standard": {grouping.Key{Name: "z"}: 1},
	})
	board := NewBoard(context.Background(), grouping.Oil, NewFetcher(src))

	board.SetLeague("Settlers")
	<-src.started
	src.release("Settlers")
	board.Wait()
	require.Equal(t, 1, board.State().Count)

	board.SetLeague("Standard")
	<-src.started
	state := board.State()
	assert.True(t, state.Loading)
	assert.Equal(t, "Standard", state.League)
	assert.Zero(t, state.Count)

	src.release("Standard")
	board.Close()
	assert.False(t, board.State().Loading)
}

func TestBoard_SetLeagueAfterClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	calls := 0
	board := NewBoard(context.Background(), grouping.Fossil, NewFetcher(SourceFunc(
		func(ctx context.Context, c grouping.Category, league string) (Table, error) {
			calls++
			return Table{grouping.Key{Name: "Pristine Fossil"}: 2}, nil
		})))

	seq := board.SetLeague("Settlers")
	board.Wait()
	board.Close()

	assert.Equal(t, seq, board.SetLeague("Standard"))
	board.Wait()

	state := board.State()
	assert.Equal(t, "Settlers", state.League)
	assert.False(t, state.Loading)
	assert.Equal(t, 1, state.Count)
	assert.Equal(t, 1, calls)
}

func TestBoard_DegradedState(t *testing.T) {
	defer goleak.VerifyNone(t)

	board := NewBoard(context.Background(), grouping.Gem, NewFetcher(SourceFunc(
		func(ctx context.Context, c grouping.Category, league string) (Table, error) {
			return Table{}, nil
		})))

	board.SetLeague("Settlers")
	board.Wait()

	state := board.State()
	assert.False(t, state.Loading)
	assert.NotEmpty(t, state.Error)
	assert.Zero(t, state.Count)
	assert.Equal(t, grouping.Gem, board.Category())
}
