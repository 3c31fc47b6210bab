package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	cerrors "github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/snapshot"
)

func snapshotCmd(flags *globalFlags) *cobra.Command {
	var (
		bucket string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run the scripted actions and export the final state",
		Long: `Dispatch the scripted actions, then write the resulting state to
S3 as a JSON object keyed by ULID.

The bucket, prefix, region and endpoint come from the snapshot section of
the configuration. Credentials come from the standard AWS chain
(environment, shared config files, instance roles).

Examples:
  connectdemo snapshot --bucket=my-bucket
  connectdemo snapshot --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Snapshot.Bucket = bucket
			}

			d := newDemo(cmd.Context(), cfg, slog.Default())
			if err := d.mount(); err != nil {
				return err
			}
			defer d.unmount()
			for _, action := range script {
				d.store.Dispatch(action)
			}

			if dryRun {
				data, err := json.MarshalIndent(d.store.GetState(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			if !cfg.SnapshotEnabled() {
				return cerrors.New("E121").
					WithMessage("no snapshot bucket configured").
					WithSuggestion("Pass --bucket or set CONNECT_SNAPSHOT_BUCKET")
			}

			client, err := snapshot.NewClient(cmd.Context(), snapshot.ClientConfig{
				Region:   cfg.Snapshot.Region,
				Endpoint: cfg.Snapshot.Endpoint,
			})
			if err != nil {
				return err
			}
			sink := snapshot.NewS3Sink(client, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix,
				snapshot.WithLogger(slog.Default()))

			snap, err := sink.Save(cmd.Context(), d.store)
			if err != nil {
				return err
			}
			success("Saved s3://%s/%s", cfg.Snapshot.Bucket, snap.Key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the state instead of uploading it")

	return cmd
}
