package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/segmentio/ksuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/opencatalog/fedsync/pkg/delta"
	"github.com/opencatalog/fedsync/pkg/resource"
)

var tracer = otel.Tracer("fedsync/pkg.sync")

// RemoteSource supplies the current snapshot of a federated catalog. How the
// snapshot is fetched (transport, retries, partial-result handling) is the
// implementation's problem; the syncer only consumes the resulting map.
type RemoteSource[R resource.RemoteResource] interface {
	Snapshot(ctx context.Context) (map[string]R, error)
}

// Mirror is the local copy of a federated collection: a snapshot read plus
// the three apply operations driven by a computed delta. Insert and Update
// must be idempotent; the syncer re-marks items as updates after a failed or
// skipped cycle.
type Mirror[R resource.RemoteResource, L resource.LocalResource] interface {
	Snapshot(ctx context.Context) (map[string]L, error)
	Insert(ctx context.Context, resources []R) error
	Update(ctx context.Context, resources []R) error
	Delete(ctx context.Context, ids []string) error
}

// ConfigStore reads and advances the per-federation sync cursor.
type ConfigStore interface {
	Get(ctx context.Context, federationID string) (*resource.FederationConfig, error)
	SetLastSyncTime(ctx context.Context, federationID string, t time.Time) error
}

// Syncer runs one synchronization cycle for a single federated collection:
// load config, snapshot both sides, compute the delta, apply it to the
// mirror, then advance the last-sync cursor.
type Syncer[R resource.RemoteResource, L resource.LocalResource] struct {
	federationID string
	source       RemoteSource[R]
	mirror       Mirror[R, L]
	configs      ConfigStore
	now          func() time.Time
}

type Option func(o *options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for the sync cursor.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func NewSyncer[R resource.RemoteResource, L resource.LocalResource](
	federationID string,
	source RemoteSource[R],
	mirror Mirror[R, L],
	configs ConfigStore,
	opts ...Option,
) *Syncer[R, L] {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	return &Syncer[R, L]{
		federationID: federationID,
		source:       source,
		mirror:       mirror,
		configs:      configs,
		now:          o.now,
	}
}

// Sync runs a single cycle. The cursor is captured before the remote snapshot
// is fetched, so changes landing mid-cycle are re-examined on the next run
// rather than lost. The cursor only advances after every apply step succeeds;
// a failed cycle leaves it untouched and the next cycle recomputes the same
// conservative delta.
func (s *Syncer[R, L]) Sync(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Syncer.Sync")
	defer span.End()

	l := ctxzap.Extract(ctx).With(
		zap.String("sync_run_id", ksuid.New().String()),
		zap.String("federation_id", s.federationID),
	)

	fConfig, err := s.configs.Get(ctx, s.federationID)
	if err != nil {
		return fmt.Errorf("sync: loading federation config: %w", err)
	}

	syncStart := s.now().UTC()

	remote, err := s.source.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("sync: fetching remote snapshot: %w", err)
	}

	local, err := s.mirror.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("sync: reading local snapshot: %w", err)
	}

	d := delta.Compute(fConfig, remote, local)
	l.Info("computed federation delta",
		zap.Int("remote", len(remote)),
		zap.Int("local", len(local)),
		zap.Int("to_insert", len(d.ToInsert())),
		zap.Int("to_update", len(d.ToUpdate())),
		zap.Int("to_delete", len(d.ToDelete())),
	)

	if !d.IsEmpty() {
		if err := s.apply(ctx, d); err != nil {
			return err
		}
	}

	if err := s.configs.SetLastSyncTime(ctx, s.federationID, syncStart); err != nil {
		return fmt.Errorf("sync: advancing last-sync cursor: %w", err)
	}

	l.Info("sync cycle complete", zap.Time("last_sync_time", syncStart))
	return nil
}

func (s *Syncer[R, L]) apply(ctx context.Context, d *delta.IDSet[R, L]) error {
	ctx, span := tracer.Start(ctx, "Syncer.apply")
	defer span.End()

	if ids := d.ToInsert(); len(ids) > 0 {
		if err := s.mirror.Insert(ctx, resolveRemote(d, ids)); err != nil {
			return fmt.Errorf("sync: applying inserts: %w", err)
		}
	}

	if ids := d.ToUpdate(); len(ids) > 0 {
		if err := s.mirror.Update(ctx, resolveRemote(d, ids)); err != nil {
			return fmt.Errorf("sync: applying updates: %w", err)
		}
	}

	if ids := d.ToDelete(); len(ids) > 0 {
		if err := s.mirror.Delete(ctx, ids); err != nil {
			return fmt.Errorf("sync: applying deletes: %w", err)
		}
	}

	return nil
}

// resolveRemote looks up the full remote payloads for a list of delta ids.
// Every id comes from the delta's own insert/update lists, so the lookups
// cannot miss.
func resolveRemote[R resource.RemoteResource, L resource.LocalResource](d *delta.IDSet[R, L], ids []string) []R {
	out := make([]R, 0, len(ids))
	for _, id := range ids {
		if r, ok := d.Remote(id); ok {
			out = append(out, r)
		}
	}
	return out
}
