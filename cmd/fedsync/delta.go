package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opencatalog/fedsync/pkg/delta"
	"github.com/opencatalog/fedsync/pkg/logging"
	"github.com/opencatalog/fedsync/pkg/resource"
)

// snapshotEntry is the JSON form of one resource in a snapshot file:
// a flat list of {"id": ..., "updatedAt": ...} objects. Local snapshots may
// omit updatedAt.
type snapshotEntry struct {
	Id      string `json:"id"`
	Updated int64  `json:"updatedAt"`
}

func (e snapshotEntry) ID() string {
	return e.Id
}

func (e snapshotEntry) UpdatedAt() int64 {
	return e.Updated
}

func loadSnapshot(path string) (map[string]snapshotEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []snapshotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return resource.IndexByID(entries), nil
}

func deltaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delta",
		Short: "Compute the insert/update/delete sets between two snapshot files",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := logging.Init(cmd.Context(),
				logging.WithLogFormat(mustString(cmd, "log-format")),
				logging.WithLogLevel(mustString(cmd, "log-level")),
			)
			if err != nil {
				return err
			}

			remote, err := loadSnapshot(mustString(cmd, "remote"))
			if err != nil {
				return err
			}

			local, err := loadSnapshot(mustString(cmd, "local"))
			if err != nil {
				return err
			}

			fConfig := &resource.FederationConfig{}
			if lastSync := mustString(cmd, "last-sync"); lastSync != "" {
				t, err := time.Parse(time.RFC3339, lastSync)
				if err != nil {
					return fmt.Errorf("parsing --last-sync: %w", err)
				}
				fConfig.LastSyncTime = &t
			}

			d := delta.Compute(fConfig, remote, local)
			ctxzap.Extract(ctx).Debug("computed delta",
				zap.Int("remote", len(remote)),
				zap.Int("local", len(local)),
				zap.Int("to_insert", len(d.ToInsert())),
				zap.Int("to_update", len(d.ToUpdate())),
				zap.Int("to_delete", len(d.ToDelete())),
			)

			out, err := json.MarshalIndent(map[string][]string{
				"toInsert": orEmpty(d.ToInsert()),
				"toUpdate": orEmpty(d.ToUpdate()),
				"toDelete": orEmpty(d.ToDelete()),
			}, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringP("remote", "r", "", "Path to the remote snapshot JSON file")
	cmd.Flags().StringP("local", "l", "", "Path to the local snapshot JSON file")
	cmd.Flags().String("last-sync", "", "Last successful sync instant (RFC3339); empty means never synced")
	_ = cmd.MarkFlagRequired("remote")
	_ = cmd.MarkFlagRequired("local")

	return cmd
}

// orEmpty keeps empty lists rendering as [] instead of null.
func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// mustString reads a string flag that is known to be registered.
func mustString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(err)
	}
	return v
}
