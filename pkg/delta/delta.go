package delta

import (
	"slices"

	"golang.org/x/exp/maps"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/opencatalog/fedsync/pkg/resource"
)

// IDSet holds the difference between a remote resource snapshot and its local
// mirror: remote ids missing locally (to insert), ids present on both sides
// whose remote copy changed after the last sync (to update), and local ids
// gone from the remote set (to delete). It keeps read-only references to both
// input maps so callers can resolve full payloads without a second fetch.
type IDSet[R resource.Timestamped, L any] struct {
	toInsert []string
	toUpdate []string
	toDelete []string

	remote map[string]R
	local  map[string]L
}

// Compute calculates the delta between remote and local in two linear passes.
// A nil config, or a config that never synced, compares against epoch zero so
// nothing is spuriously skipped. The change test is strictly "updated after
// the federation's last sync", not per-item: a failed or skipped cycle
// re-marks the same items as updates on the next run. Apply must therefore be
// idempotent.
func Compute[R resource.Timestamped, L any](fConfig *resource.FederationConfig, remote map[string]R, local map[string]L) *IDSet[R, L] {
	lastSync := fConfig.LastSyncMillis()

	d := &IDSet[R, L]{
		remote: remote,
		local:  local,
	}

	// Remote ids absent locally are inserts; ids on both sides are updates
	// only when the remote copy is strictly newer than the last sync.
	for _, id := range sortedKeys(remote) {
		if _, ok := local[id]; !ok {
			d.toInsert = append(d.toInsert, id)
		} else if remote[id].UpdatedAt() > lastSync {
			d.toUpdate = append(d.toUpdate, id)
		}
	}

	// Local ids absent remotely no longer exist at the source.
	for _, id := range sortedKeys(local) {
		if _, ok := remote[id]; !ok {
			d.toDelete = append(d.toDelete, id)
		}
	}

	return d
}

// sortedKeys fixes the iteration order so recomputing over the same inputs
// yields the same lists, element for element.
func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func (d *IDSet[R, L]) ToInsert() []string {
	return d.toInsert
}

func (d *IDSet[R, L]) ToUpdate() []string {
	return d.toUpdate
}

func (d *IDSet[R, L]) ToDelete() []string {
	return d.toDelete
}

// Unchanged returns the remote ids that need no action: present on both sides
// and not modified since the last sync.
func (d *IDSet[R, L]) Unchanged() []string {
	changed := mapset.NewThreadUnsafeSet(d.toInsert...)
	changed.Append(d.toUpdate...)

	var out []string
	for _, id := range sortedKeys(d.remote) {
		if !changed.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// IsEmpty reports whether the delta requires no apply work at all.
func (d *IDSet[R, L]) IsEmpty() bool {
	return len(d.toInsert) == 0 && len(d.toUpdate) == 0 && len(d.toDelete) == 0
}

// Remote resolves the remote payload for an id from the retained snapshot.
func (d *IDSet[R, L]) Remote(id string) (R, bool) {
	r, ok := d.remote[id]
	return r, ok
}

// Local resolves the local payload for an id from the retained snapshot.
func (d *IDSet[R, L]) Local(id string) (L, bool) {
	l, ok := d.local[id]
	return l, ok
}

// RemoteResources exposes the retained remote snapshot. Callers must treat it
// as read-only.
func (d *IDSet[R, L]) RemoteResources() map[string]R {
	return d.remote
}

// LocalResources exposes the retained local snapshot. Callers must treat it
// as read-only.
func (d *IDSet[R, L]) LocalResources() map[string]L {
	return d.local
}
