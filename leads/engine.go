package leads

import (
	"context"
	"sort"
	"strings"
	"time"
)

// PageSize is how many leads are revealed initially and per load-more step.
const PageSize = 20

// SentinelThreshold is the visible fraction of the end-of-list marker that
// triggers a load-more step.
const SentinelThreshold = 0.1

// FilterAndSort returns the leads matching term and the status filter, ordered by
// score. Ties keep the input order. The input is never modified.
func FilterAndSort(all []Lead, f FilterState, term string) []Lead {
	needle := strings.ToLower(term)
	out := make([]Lead, 0, len(all))
	for _, l := range all {
		if !f.StatusFilter.Matches(l.Status) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(l.Name), needle) &&
			!strings.Contains(strings.ToLower(l.Company), needle) {
			continue
		}
		out = append(out, l)
	}

	desc := f.SortOrder != SortAsc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].Score > out[j].Score
		}
		return out[i].Score < out[j].Score
	})
	return out
}

// ViewWindow describes the revealed prefix of the filtered list.
type ViewWindow struct {
	Revealed      int
	TotalFiltered int
	HasMore       bool
	IsLoadingMore bool
}

// Ticket identifies one in-flight load-more step. Tickets issued before the last
// window reset are stale.
type Ticket struct {
	generation uint64
}

// Engine turns the lead collection and the filters into a progressively revealed
// view. It is not safe for concurrent use; drive it from a single goroutine.
type Engine struct {
	pageSize    int
	view        []Lead
	revealed    int
	hasMore     bool
	loadingMore bool
	generation  uint64
	primed      bool
}

// NewEngine returns an engine revealing pageSize leads at a time. A
// non-positive pageSize means PageSize.
func NewEngine(pageSize int) *Engine {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	return &Engine{pageSize: pageSize}
}

// SetInput recomputes the filtered view. When the result differs from the
// current view the window resets to the first page and any in-flight load-more
// ticket goes stale. It reports whether a reset happened.
func (e *Engine) SetInput(all []Lead, f FilterState, settledTerm string) bool {
	next := FilterAndSort(all, f, settledTerm)
	if e.primed && sameLeads(e.view, next) {
		return false
	}
	e.primed = true
	e.view = next
	e.revealed = min(e.pageSize, len(next))
	e.hasMore = len(next) > e.pageSize
	e.generation++
	return true
}

func sameLeads(a, b []Lead) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(b[i]) {
			return false
		}
	}
	return true
}

// BeginLoadMore starts a load-more step. It returns false, and changes nothing,
// while a step is already running or nothing is left to reveal.
func (e *Engine) BeginLoadMore() (Ticket, bool) {
	if e.loadingMore || !e.hasMore {
		return Ticket{}, false
	}
	e.loadingMore = true
	return Ticket{generation: e.generation}, true
}

// FinishLoadMore reveals the next page for t. A stale ticket only clears the
// loading flag.
func (e *Engine) FinishLoadMore(t Ticket) {
	e.loadingMore = false
	if t.generation != e.generation {
		return
	}
	batch := min(e.pageSize, len(e.view)-e.revealed)
	if batch <= 0 {
		e.hasMore = false
		return
	}
	e.revealed += batch
	e.hasMore = e.revealed < len(e.view)
}

// AbandonLoadMore clears the loading flag without revealing anything.
func (e *Engine) AbandonLoadMore(Ticket) {
	e.loadingMore = false
}

// LoadMore runs a whole load-more step, blocking for delay. It reports whether
// a page was requested. A cancelled context abandons the step.
func (e *Engine) LoadMore(ctx context.Context, delay time.Duration) (bool, error) {
	t, ok := e.BeginLoadMore()
	if !ok {
		return false, nil
	}
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			e.AbandonLoadMore(t)
			return false, ctx.Err()
		case <-timer.C:
		}
	}
	e.FinishLoadMore(t)
	return true, nil
}

// SentinelVisible is called with the visible fraction of the end-of-list marker.
// It starts a load-more step once the fraction reaches SentinelThreshold.
func (e *Engine) SentinelVisible(ratio float64) (Ticket, bool) {
	if ratio < SentinelThreshold {
		return Ticket{}, false
	}
	return e.BeginLoadMore()
}

// Visible returns the revealed leads.
func (e *Engine) Visible() []Lead {
	return e.view[:e.revealed]
}

// Total is the size of the filtered list, revealed or not.
func (e *Engine) Total() int {
	return len(e.view)
}

func (e *Engine) Window() ViewWindow {
	return ViewWindow{
		Revealed:      e.revealed,
		TotalFiltered: len(e.view),
		HasMore:       e.hasMore,
		IsLoadingMore: e.loadingMore,
	}
}
