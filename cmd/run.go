package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runTarget string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a demo for a single practice website",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		summary, err := env.Orchestrator.RunBatch(ctx, []string{runTarget}, 1)
		if err != nil {
			return err
		}
		rec := &summary.Leads[0]

		zap.L().Info("run complete",
			zap.String("company", rec.Practice.Company),
			zap.String("status", string(rec.Status)),
			zap.Bool("degraded", rec.Degraded),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	runCmd.Flags().StringVar(&runTarget, "target", "", "practice website URL (required)")
	_ = runCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(runCmd)
}
