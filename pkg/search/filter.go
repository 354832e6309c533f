package search

// Filter is the abstract search specification translated by Assemble. Entries
// in AndParams are combined conjunctively with exact/membership matching;
// entries in Params are combined disjunctively with substring matching for
// textual values. Both maps may be empty, which degenerates to an unfiltered
// query. Values may be nil, meaning "field is absent".
type Filter struct {
	AndParams map[string]any
	Params    map[string]any
	Page      *PageRequest
}

// SortField names a field to order by.
type SortField struct {
	Field string
	Desc  bool
}

// PageRequest carries the paging and sorting directives attached to a
// descriptor. Number is zero-based. A Size of 0 means "no limit".
type PageRequest struct {
	Number int
	Size   int
	Sort   []SortField
}

func NewFilter() *Filter {
	return &Filter{
		AndParams: map[string]any{},
		Params:    map[string]any{},
	}
}

// AddAndParam registers a conjunctive parameter and returns the filter for
// chaining.
func (f *Filter) AddAndParam(name string, value any) *Filter {
	if f.AndParams == nil {
		f.AndParams = map[string]any{}
	}
	f.AndParams[name] = value
	return f
}

// AddParam registers a disjunctive parameter and returns the filter for
// chaining.
func (f *Filter) AddParam(name string, value any) *Filter {
	if f.Params == nil {
		f.Params = map[string]any{}
	}
	f.Params[name] = value
	return f
}

// WithPage attaches paging/sorting directives and returns the filter for
// chaining.
func (f *Filter) WithPage(page *PageRequest) *Filter {
	f.Page = page
	return f
}

func (f *Filter) AndParamsIsEmpty() bool {
	return len(f.AndParams) == 0
}

func (f *Filter) ParamsIsEmpty() bool {
	return len(f.Params) == 0
}

// Offset returns the row offset implied by the page number and size.
func (p *PageRequest) Offset() int {
	if p == nil || p.Size <= 0 {
		return 0
	}
	return p.Number * p.Size
}
