package resource

import (
	"time"
)

// Identifiable is implemented by any catalog resource with a stable
// identifier. Remote and local representations of the same logical entity
// share the same id.
type Identifiable interface {
	ID() string
}

// Timestamped is implemented by resources that track their last modification
// time as epoch milliseconds.
type Timestamped interface {
	UpdatedAt() int64
}

// RemoteResource is an item from a federated source: it has a stable id and
// a last-updated timestamp used to detect changes since the last sync.
type RemoteResource interface {
	Identifiable
	Timestamped
}

// LocalResource is an item from the local mirror.
type LocalResource interface {
	Identifiable
}

// FederationConfig describes a remote catalog this instance mirrors.
// LastSyncTime is nil until the first successful sync cycle completes.
type FederationConfig struct {
	ID             string
	Name           string
	SourceEndpoint string
	AppClientName  string
	AppClientToken string
	LastSyncTime   *time.Time
}

// LastSyncMillis returns the last sync instant as epoch millis, or 0 when no
// sync has completed yet. A nil config is treated the same as a never-synced
// one.
func (c *FederationConfig) LastSyncMillis() int64 {
	if c == nil || c.LastSyncTime == nil {
		return 0
	}
	return c.LastSyncTime.UnixMilli()
}

// IndexByID builds the id-keyed map consumed by the delta calculator. Later
// entries win if the input carries duplicate ids.
func IndexByID[T Identifiable](items []T) map[string]T {
	out := make(map[string]T, len(items))
	for _, item := range items {
		out[item.ID()] = item
	}
	return out
}
