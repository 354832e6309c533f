package search

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/stretchr/testify/require"
)

// render turns a single criteria expression into SQL for assertions.
func render(t *testing.T, criteria exp.Expression) string {
	t.Helper()
	sql, _, err := goqu.Dialect(dialect).From("t").Where(criteria).ToSQL()
	require.NoError(t, err)
	return sql
}

func TestIsCollectionValue(t *testing.T) {
	require.True(t, isCollectionValue([]string{"a"}))
	require.True(t, isCollectionValue([]int{1, 2}))
	require.True(t, isCollectionValue([2]string{"a", "b"}))
	require.True(t, isCollectionValue([]any{}))

	require.False(t, isCollectionValue(nil))
	require.False(t, isCollectionValue("text"))
	require.False(t, isCollectionValue([]byte("raw")))
	require.False(t, isCollectionValue(42))
	require.False(t, isCollectionValue(map[string]string{"k": "v"}))
}

func TestCollectionValues(t *testing.T) {
	require.Equal(t, []any{"a", "b"}, collectionValues([]string{"a", "b"}))
	require.Equal(t, []any{1, 2, 3}, collectionValues([3]int{1, 2, 3}))
	require.Empty(t, collectionValues([]string{}))
}

func TestBuildAndCriteria(t *testing.T) {
	criteria := buildAndCriteria(map[string]any{
		"status": "active",
		"tags":   []string{"a", "b"},
	})
	require.Len(t, criteria, 2)

	// Params are emitted in name order: status before tags.
	require.Contains(t, render(t, criteria[0]), "'active'")
	require.NotContains(t, render(t, criteria[0]), "IN")
	require.Contains(t, render(t, criteria[1]), "IN ('a', 'b')")
}

func TestBuildAndCriteriaNilValue(t *testing.T) {
	criteria := buildAndCriteria(map[string]any{"deletedAt": nil})
	require.Len(t, criteria, 1)
	require.Contains(t, render(t, criteria[0]), "IS NULL")
}

func TestBuildOrCriteriaSubstring(t *testing.T) {
	criteria := buildOrCriteria(map[string]any{"name": "foo"})
	require.Len(t, criteria, 1)

	sql := render(t, criteria[0])
	require.Contains(t, sql, "LIKE '%foo%'")
	require.NotContains(t, sql, "= 'foo'")
}

func TestBuildOrCriteriaCollectionUsesMembership(t *testing.T) {
	criteria := buildOrCriteria(map[string]any{"type": []string{"x", "y"}})
	require.Len(t, criteria, 1)

	sql := render(t, criteria[0])
	require.Contains(t, sql, "IN ('x', 'y')")
	require.NotContains(t, sql, "LIKE")
}

func TestBuildOrCriteriaNonTextualUsesEquality(t *testing.T) {
	criteria := buildOrCriteria(map[string]any{"size": 7})
	require.Len(t, criteria, 1)

	sql := render(t, criteria[0])
	require.Contains(t, sql, "= 7")
	require.NotContains(t, sql, "LIKE")
}

// A nil disjunctive value matches records where the field is absent; it must
// never render as a substring search for a literal nil spelling.
func TestBuildOrCriteriaNilValue(t *testing.T) {
	criteria := buildOrCriteria(map[string]any{"name": nil})
	require.Len(t, criteria, 1)

	sql := render(t, criteria[0])
	require.Contains(t, sql, "IS NULL")
	require.NotContains(t, sql, "LIKE")
	require.NotContains(t, sql, "nil")
	require.NotContains(t, sql, "null%")
}

func TestEscapeLike(t *testing.T) {
	criteria := buildOrCriteria(map[string]any{"name": "50%_off"})
	require.Len(t, criteria, 1)

	// The fragment is a literal, not a pattern: user wildcards are escaped.
	require.Contains(t, render(t, criteria[0]), `%50\%\_off%`)
}
