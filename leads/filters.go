package leads

import (
	"sales-console/config"
	"sales-console/log"
)

// FiltersKey is the store key the list filters are persisted under.
const FiltersKey = "leads-filters"

// FilterState is the user's list view configuration.
type FilterState struct {
	SearchTerm   string       `json:"searchTerm"`
	StatusFilter StatusFilter `json:"statusFilter"`
	SortOrder    SortOrder    `json:"sortOrder"`
}

// DefaultFilters is the state on first use and after a reset.
func DefaultFilters() FilterState {
	return FilterState{
		SearchTerm:   "",
		StatusFilter: StatusAll,
		SortOrder:    SortDesc,
	}
}

// normalize replaces missing or unknown enum values with their defaults.
func (f FilterState) normalize() FilterState {
	def := DefaultFilters()
	if !f.StatusFilter.Valid() {
		if f.StatusFilter != "" {
			log.WarningLog.Printf("ignoring unknown persisted status filter %q", f.StatusFilter)
		}
		f.StatusFilter = def.StatusFilter
	}
	if !f.SortOrder.Valid() {
		if f.SortOrder != "" {
			log.WarningLog.Printf("ignoring unknown persisted sort order %q", f.SortOrder)
		}
		f.SortOrder = def.SortOrder
	}
	return f
}

// FilterController owns the persisted FilterState. Every mutation is written
// through to the store; write failures are logged and otherwise ignored.
type FilterController struct {
	state *config.Persisted[FilterState]
}

// NewFilterController loads the filters from store. A nil store keeps the
// filters in memory only.
func NewFilterController(store config.Store) *FilterController {
	p := config.NewPersisted(store, FiltersKey, DefaultFilters())
	if cur := p.Get(); cur != cur.normalize() {
		_ = p.Set(cur.normalize())
	}
	return &FilterController{state: p}
}

// Filters returns the current state.
func (c *FilterController) Filters() FilterState {
	return c.state.Get()
}

func (c *FilterController) UpdateSearchTerm(term string) {
	c.update(func(f FilterState) FilterState {
		f.SearchTerm = term
		return f
	})
}

func (c *FilterController) UpdateStatusFilter(filter StatusFilter) {
	if !filter.Valid() {
		log.WarningLog.Printf("ignoring unknown status filter %q", filter)
		return
	}
	c.update(func(f FilterState) FilterState {
		f.StatusFilter = filter
		return f
	})
}

func (c *FilterController) UpdateSortOrder(order SortOrder) {
	if !order.Valid() {
		log.WarningLog.Printf("ignoring unknown sort order %q", order)
		return
	}
	c.update(func(f FilterState) FilterState {
		f.SortOrder = order
		return f
	})
}

// ToggleSortOrder flips the sort order and returns the new one.
func (c *FilterController) ToggleSortOrder() SortOrder {
	next := c.Filters().SortOrder.Toggle()
	c.UpdateSortOrder(next)
	return next
}

// ResetFilters restores DefaultFilters. Calling it twice is the same as once.
func (c *FilterController) ResetFilters() {
	c.update(func(FilterState) FilterState {
		return DefaultFilters()
	})
}

// IsDefault reports whether the filters equal DefaultFilters.
func (c *FilterController) IsDefault() bool {
	return c.Filters() == DefaultFilters()
}

func (c *FilterController) update(fn func(FilterState) FilterState) {
	// Write already logged the failure; the in-memory state stays authoritative.
	_ = c.state.Update(fn)
}
