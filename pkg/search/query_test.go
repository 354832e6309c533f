package search

import (
	"strings"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/require"
)

func TestAssembleEmptyFilter(t *testing.T) {
	d := Assemble(NewFilter())
	require.Nil(t, d.Where())

	sql, _, err := d.ToSQL("resources")
	require.NoError(t, err)
	require.NotContains(t, sql, "WHERE")
}

func TestAssembleAndGroupOnly(t *testing.T) {
	filter := NewFilter().
		AddAndParam("status", "active").
		AddAndParam("tags", []string{"a", "b"})

	sql, _, err := Assemble(filter).ToSQL("resources")
	require.NoError(t, err)

	require.Contains(t, sql, "WHERE")
	require.Contains(t, sql, "'active'")
	require.Contains(t, sql, "IN ('a', 'b')")
	require.Contains(t, sql, " AND ")
	require.NotContains(t, sql, " OR ")
}

func TestAssembleOrGroupOnly(t *testing.T) {
	filter := NewFilter().
		AddParam("name", "foo").
		AddParam("description", "bar")

	sql, _, err := Assemble(filter).ToSQL("resources")
	require.NoError(t, err)

	require.Contains(t, sql, "LIKE '%foo%'")
	require.Contains(t, sql, "LIKE '%bar%'")
	require.Contains(t, sql, " OR ")
	require.NotContains(t, sql, " AND ")
}

// With both groups present the assembler folds sequentially: the AND-group is
// conjoined into the running criteria, then the OR-group's disjunction is
// OR-ed with the result. The final shape is (AND-group) OR (OR-group), not
// (AND-group) AND (OR-group).
func TestAssembleSequentialAndThenOr(t *testing.T) {
	filter := NewFilter().
		AddAndParam("status", "active").
		AddParam("name", "foo")

	sql, _, err := Assemble(filter).ToSQL("resources")
	require.NoError(t, err)

	andIdx := strings.Index(sql, "'active'")
	orIdx := strings.Index(sql, " OR ")
	likeIdx := strings.Index(sql, "LIKE '%foo%'")
	require.Greater(t, andIdx, -1)
	require.Greater(t, orIdx, -1)
	require.Greater(t, likeIdx, -1)

	// The two groups sit on either side of the top-level OR.
	require.Less(t, andIdx, orIdx)
	require.Greater(t, likeIdx, orIdx)
}

func TestAssembleCustomCriteria(t *testing.T) {
	filter := NewFilter().AddAndParam("status", "active")

	sql, _, err := Assemble(filter, WithCustomCriteria(goqu.C("tenantId").Eq("acme"))).ToSQL("resources")
	require.NoError(t, err)

	// The custom criteria seeds the running criteria and is conjoined with
	// the AND-group.
	require.Contains(t, sql, "'acme'")
	require.Contains(t, sql, "'active'")
	require.Contains(t, sql, " AND ")

	tenantIdx := strings.Index(sql, "'acme'")
	statusIdx := strings.Index(sql, "'active'")
	require.Less(t, tenantIdx, statusIdx)
}

func TestAssembleCustomCriteriaOnly(t *testing.T) {
	d := Assemble(NewFilter(), WithCustomCriteria(goqu.C("tenantId").Eq("acme")))
	require.NotNil(t, d.Where())

	sql, _, err := d.ToSQL("resources")
	require.NoError(t, err)
	require.Contains(t, sql, "'acme'")
}

func TestAssemblePaging(t *testing.T) {
	filter := NewFilter().
		AddAndParam("status", "active").
		WithPage(&PageRequest{
			Number: 2,
			Size:   25,
			Sort:   []SortField{{Field: "name"}, {Field: "createdAt", Desc: true}},
		})

	sql, _, err := Assemble(filter).ToSQL("resources")
	require.NoError(t, err)

	require.Contains(t, sql, "ORDER BY")
	require.Contains(t, sql, "ASC")
	require.Contains(t, sql, "DESC")
	require.Contains(t, sql, "LIMIT 25")
	require.Contains(t, sql, "OFFSET 50")
}

func TestAssembleWithoutPaging(t *testing.T) {
	filter := NewFilter().
		AddAndParam("status", "active").
		WithPage(&PageRequest{Number: 1, Size: 10})

	d := Assemble(filter, WithoutPaging())
	require.Nil(t, d.PageRequest())

	sql, _, err := d.ToSQL("resources")
	require.NoError(t, err)
	require.NotContains(t, sql, "LIMIT")
	require.NotContains(t, sql, "OFFSET")
}

func TestForIDsIn(t *testing.T) {
	sql, _, err := ForIDsIn([]string{"a", "b", "c"}).ToSQL("resources")
	require.NoError(t, err)
	require.Contains(t, sql, "IN ('a', 'b', 'c')")
}

func TestForParamIn(t *testing.T) {
	sql, _, err := ForParamIn("providerId", []string{"p1"}).ToSQL("resources")
	require.NoError(t, err)
	require.Contains(t, sql, "IN ('p1')")
}

func TestPageRequestOffset(t *testing.T) {
	require.Equal(t, 0, (&PageRequest{Number: 3}).Offset())
	require.Equal(t, 0, (&PageRequest{Number: 0, Size: 10}).Offset())
	require.Equal(t, 30, (&PageRequest{Number: 3, Size: 10}).Offset())

	var p *PageRequest
	require.Equal(t, 0, p.Offset())
}
