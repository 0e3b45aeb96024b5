package leads

import "fmt"

// StatusFilter is a Status or "all".
type StatusFilter string

const StatusAll StatusFilter = "all"

// SortOrder orders the list by score.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type StatusOption struct {
	Value Status
	Label string
}

type StatusFilterOption struct {
	Value StatusFilter
	Label string
}

// StatusOptions lists the lead statuses in display order.
var StatusOptions = []StatusOption{
	{Value: StatusNew, Label: "New"},
	{Value: StatusContacted, Label: "Contacted"},
	{Value: StatusQualified, Label: "Qualified"},
	{Value: StatusUnqualified, Label: "Unqualified"},
}

// StatusFilterOptions is StatusOptions preceded by the "all" filter.
func StatusFilterOptions() []StatusFilterOption {
	opts := []StatusFilterOption{{Value: StatusAll, Label: "All Statuses"}}
	for _, o := range StatusOptions {
		opts = append(opts, StatusFilterOption{Value: StatusFilter(o.Value), Label: o.Label})
	}
	return opts
}

// StatusLabel returns the display label, or the raw value for unknown statuses.
func StatusLabel(s Status) string {
	for _, o := range StatusOptions {
		if o.Value == s {
			return o.Label
		}
	}
	return string(s)
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusUnqualified:
		return true
	}
	return false
}

func (f StatusFilter) Valid() bool {
	return f == StatusAll || Status(f).Valid()
}

// Matches reports whether a lead with status s passes the filter.
func (f StatusFilter) Matches(s Status) bool {
	return f == StatusAll || Status(f) == s
}

// Next cycles through StatusFilterOptions, wrapping at the end.
func (f StatusFilter) Next() StatusFilter {
	return f.step(1)
}

// Prev cycles backwards through StatusFilterOptions.
func (f StatusFilter) Prev() StatusFilter {
	return f.step(-1)
}

func (f StatusFilter) step(delta int) StatusFilter {
	opts := StatusFilterOptions()
	for i, o := range opts {
		if o.Value == f {
			return opts[(i+delta+len(opts))%len(opts)].Value
		}
	}
	return StatusAll
}

func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// Toggle flips the sort order.
func (o SortOrder) Toggle() SortOrder {
	if o == SortDesc {
		return SortAsc
	}
	return SortDesc
}

func ParseStatus(s string) (Status, error) {
	if st := Status(s); st.Valid() {
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func ParseStatusFilter(s string) (StatusFilter, error) {
	if f := StatusFilter(s); f.Valid() {
		return f, nil
	}
	return "", fmt.Errorf("unknown status filter %q", s)
}

func ParseSortOrder(s string) (SortOrder, error) {
	if o := SortOrder(s); o.Valid() {
		return o, nil
	}
	return "", fmt.Errorf("unknown sort order %q (want asc or desc)", s)
}
