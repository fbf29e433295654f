package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intent-router/internal/assistant"
	"intent-router/internal/route"
)

var flagSyncMode string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the index from the configured routes",
	Long: `sync encodes the configured routes into a new index generation and
reports what was encoded or reused. With the snapshot enabled the vectors
are saved, so the next server start only encodes what changed.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&flagSyncMode, "mode", string(route.SyncIncremental), "full or incremental")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if _, err := route.ParseSyncMode(flagSyncMode); err != nil {
		return err
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	out, err := app.UseCase.Sync(cmd.Context(), assistant.SyncInput{Mode: flagSyncMode})
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), out)
	}
	r := out.Result
	fmt.Fprintf(cmd.OutOrStdout(), "%s sync (%s): %d encoded, %d reused, %d removed, %d total\n",
		r.Mode, out.Fingerprint, r.Encoded, r.Reused, r.Removed, r.Total)
	return nil
}
