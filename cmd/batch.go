package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/targets"
)

var (
	batchFile    string
	batchCount   int
	batchDelayMS int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate demos for a list of practice websites, one at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		list, err := targets.Load(batchFile)
		if err != nil {
			return err
		}
		zap.L().Info("targets loaded",
			zap.String("file", batchFile),
			zap.Int("count", len(list)),
		)

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		orch := env.Orchestrator
		if cmd.Flags().Changed("delay") {
			orch = pipeline.NewOrchestrator(env.Executor, env.Sessions,
				pipeline.WithTargetDelay(time.Duration(batchDelayMS)*time.Millisecond),
				pipeline.WithMaxLeads(cfg.Batch.MaxLeads))
		}

		summary, err := orch.RunBatch(ctx, list, batchCount)
		if err != nil {
			return err
		}

		zap.L().Info("batch finished",
			zap.Int("successful", summary.Successful),
			zap.Int("failed", summary.Failed),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "targets file: .txt, .csv, or .xlsx (required)")
	batchCmd.Flags().IntVar(&batchCount, "count", 0, "process at most this many targets (0 = all)")
	batchCmd.Flags().IntVar(&batchDelayMS, "delay", 3000, "pause between targets in milliseconds")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
