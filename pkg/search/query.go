package search

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	// NOTE: required to register the dialect for goqu.
	//
	// Without this import, goqu.Dialect("sqlite3") silently falls back to a
	// copy of the default dialect.
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

const dialect = "sqlite3"

// Descriptor is the executable form of a Filter: an opaque criteria tree plus
// the paging/sorting directives to attach, ready to hand to the storage
// layer. A nil criteria tree means "match everything".
type Descriptor struct {
	criteria exp.Expression
	page     *PageRequest
}

type assembleOptions struct {
	custom      exp.Expression
	applyPaging bool
}

type AssembleOption func(*assembleOptions)

// WithCustomCriteria seeds the running criteria before the filter's groups
// are applied, e.g. with a tenant-scoping predicate.
func WithCustomCriteria(criteria exp.Expression) AssembleOption {
	return func(o *assembleOptions) {
		o.custom = criteria
	}
}

// WithoutPaging drops the filter's paging directives from the descriptor,
// for count-style queries.
func WithoutPaging() AssembleOption {
	return func(o *assembleOptions) {
		o.applyPaging = false
	}
}

// Assemble translates a filter into a query descriptor.
//
// The two predicate groups are folded into a single running criteria, in
// order: the AND-group (if non-empty) is conjoined with the custom criteria,
// then the OR-group's disjunction (if non-empty) is OR-ed with the result of
// that. With both groups present the final shape is
//
//	(custom AND and1 AND ...) OR (or1 OR or2 ...)
//
// not (AND-group) AND (OR-group). Downstream search behavior depends on this
// combination order; do not re-parenthesize it.
func Assemble(filter *Filter, opts ...AssembleOption) *Descriptor {
	options := &assembleOptions{applyPaging: true}
	for _, opt := range opts {
		opt(options)
	}

	criteria := options.custom

	if !filter.AndParamsIsEmpty() {
		andGroup := goqu.And(buildAndCriteria(filter.AndParams)...)
		if criteria == nil {
			criteria = andGroup
		} else {
			criteria = goqu.And(criteria, andGroup)
		}
	}

	if !filter.ParamsIsEmpty() {
		orGroup := goqu.Or(buildOrCriteria(filter.Params)...)
		if criteria == nil {
			criteria = orGroup
		} else {
			criteria = goqu.Or(criteria, orGroup)
		}
	}

	d := &Descriptor{criteria: criteria}
	if options.applyPaging {
		d.page = filter.Page
	}

	return d
}

// ForIDsIn builds a descriptor matching rows whose id is in the given set.
// The apply phase of a sync uses these to load delta payload rows in bulk.
func ForIDsIn(ids []string) *Descriptor {
	return ForParamIn("id", ids)
}

// ForParamIn builds a membership-only descriptor on an arbitrary field.
func ForParamIn(param string, values []string) *Descriptor {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return &Descriptor{criteria: goqu.C(param).In(vals...)}
}

// Where exposes the criteria tree; nil means unfiltered.
func (d *Descriptor) Where() exp.Expression {
	return d.criteria
}

// PageRequest exposes the attached paging directives, if any.
func (d *Descriptor) PageRequest() *PageRequest {
	return d.page
}

// Apply folds the descriptor into an existing dataset: criteria first, then
// ordering, then limit/offset.
func (d *Descriptor) Apply(ds *goqu.SelectDataset) *goqu.SelectDataset {
	if d.criteria != nil {
		ds = ds.Where(d.criteria)
	}

	if d.page != nil {
		if len(d.page.Sort) > 0 {
			ordered := make([]exp.OrderedExpression, len(d.page.Sort))
			for i, s := range d.page.Sort {
				if s.Desc {
					ordered[i] = goqu.C(s.Field).Desc()
				} else {
					ordered[i] = goqu.C(s.Field).Asc()
				}
			}
			ds = ds.Order(ordered...)
		}
		if d.page.Size > 0 {
			ds = ds.Limit(uint(d.page.Size)).Offset(uint(d.page.Offset()))
		}
	}

	return ds
}

// ToSQL renders the descriptor as a SELECT against the given table. Rendering
// is for inspection and for callers that execute SQL themselves; this package
// never executes queries.
func (d *Descriptor) ToSQL(table string) (string, []any, error) {
	return d.Apply(goqu.Dialect(dialect).From(table)).ToSQL()
}
