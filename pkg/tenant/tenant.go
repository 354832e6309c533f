package tenant

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// Field is the column holding a record's owning tenant in tenant-scoped
// collections.
const Field = "tenantId"

// Scoped is implemented by entity types whose records belong to a tenant.
// Types that do not implement it are never tenant-filtered.
type Scoped interface {
	TenantID() string
}

type contextKey struct{}

// WithTenant returns a context carrying the current tenant identifier.
// Request plumbing owns the lifecycle of this value; this package only reads
// it.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, contextKey{}, tenantID)
}

// FromContext returns the current tenant identifier, if one is set and
// non-blank. There is no error form: an absent tenant is an ordinary state,
// and callers choose fail-open or fail-closed themselves.
func FromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(contextKey{}).(string)
	if !ok || strings.TrimSpace(tenantID) == "" {
		return "", false
	}
	return tenantID, true
}

// RequiresScope reports whether queries over the given entity type must be
// restricted to the current tenant: the type declares itself tenant-scoped
// and the context carries a tenant. With no ambient tenant the answer is
// false, leaving the query unscoped; enforcement against cross-tenant reads
// belongs to an outer layer.
func RequiresScope(ctx context.Context, entity any) bool {
	if _, ok := entity.(Scoped); !ok {
		return false
	}
	_, ok := FromContext(ctx)
	return ok
}

// ScopeCriteria returns the tenant-equality predicate to seed a query with,
// or false when no scoping applies.
func ScopeCriteria(ctx context.Context, entity any) (exp.Expression, bool) {
	if !RequiresScope(ctx, entity) {
		return nil, false
	}
	tenantID, _ := FromContext(ctx)
	return goqu.C(Field).Eq(tenantID), true
}
