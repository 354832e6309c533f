package search

import (
	"reflect"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// buildAndCriteria translates the conjunctive parameter map into one atomic
// predicate per entry: membership for multi-valued values, null-equality for
// nil, plain equality otherwise. Param order is normalized so the same filter
// always renders the same criteria list.
func buildAndCriteria(andParams map[string]any) []exp.Expression {
	criteria := make([]exp.Expression, 0, len(andParams))
	for _, param := range sortedParams(andParams) {
		value := andParams[param]
		switch {
		case isCollectionValue(value):
			criteria = append(criteria, goqu.C(param).In(collectionValues(value)...))
		case value == nil:
			criteria = append(criteria, goqu.C(param).IsNull())
		default:
			criteria = append(criteria, goqu.C(param).Eq(value))
		}
	}
	return criteria
}

// buildOrCriteria translates the disjunctive parameter map. Multi-valued
// values still use membership, non-textual values use equality, and textual
// values match as a literal substring: the fragment is escaped and wrapped,
// never interpreted as a pattern language. A nil value yields a null-equality
// predicate rather than a substring match against the rendered word "nil".
func buildOrCriteria(orParams map[string]any) []exp.Expression {
	criteria := make([]exp.Expression, 0, len(orParams))
	for _, param := range sortedParams(orParams) {
		value := orParams[param]
		switch {
		case isCollectionValue(value):
			criteria = append(criteria, goqu.C(param).In(collectionValues(value)...))
		case value == nil:
			criteria = append(criteria, goqu.C(param).IsNull())
		default:
			if s, ok := value.(string); ok {
				criteria = append(criteria, goqu.C(param).Like("%"+escapeLike(s)+"%"))
			} else {
				criteria = append(criteria, goqu.C(param).Eq(value))
			}
		}
	}
	return criteria
}

func sortedParams(params map[string]any) []string {
	keys := maps.Keys(params)
	slices.Sort(keys)
	return keys
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// isCollectionValue reports whether value is multi-valued: a slice or array
// of anything but bytes. Strings and nil are scalars.
func isCollectionValue(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Type().Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

// collectionValues flattens a multi-valued value into the element list fed to
// a membership predicate. Callers must have checked isCollectionValue first.
func collectionValues(value any) []any {
	rv := reflect.ValueOf(value)
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
