package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cliptag/internal/analysis"
)

type analyzeOutput struct {
	File string `json:"file"`
	analysis.Result
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var seed int64

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Run the analysis pipeline on local files without storing them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCfg := *cfg
			if cmd.Flags().Changed("seed") {
				runCfg.Analysis.Seed = seed
			}
			analyzer := analysis.Build(&runCfg, ctx.cliLogger(&runCfg), analysis.BuildOptions{})

			results := make([]analyzeOutput, 0, len(args))
			for _, arg := range args {
				path, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("resolve %q: %w", arg, err)
				}
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("inspect %q: %w", arg, err)
				}
				if info.IsDir() {
					return fmt.Errorf("%q is a directory", arg)
				}
				result := analyzer.Analyze(cmd.Context(), path, filepath.Base(path))
				results = append(results, analyzeOutput{File: arg, Result: result})
			}

			if jsonOutput {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.File, formatTags(r.Tags), formatKey(r.Key), r.SuggestedName})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Tags", "Key", "Suggested name"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the random source (overrides analysis.seed)")
	return cmd
}
