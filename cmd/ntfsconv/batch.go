package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/transitmodel/core/internal/pipelineconfig"
	"github.com/transitmodel/core/internal/transform"
)

var (
	batchConcurrency int
	batchStart       string
	batchEnd         string
)

var batchCmd = &cobra.Command{
	Use:   "batch <in:out>...",
	Short: "Run restrict-validity-period over independent feeds in parallel",
	Long: `batch drives N independent Models through restrict-validity-period
concurrently. Each pair is a completely independent pipeline (spec.md
section 5: the core shares no state across Models), so this is safe to
parallelize with no locking.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse(dateLayout, batchStart)
		if err != nil {
			return fmt.Errorf("ntfsconv: --start: %w", err)
		}
		end, err := time.Parse(dateLayout, batchEnd)
		if err != nil {
			return fmt.Errorf("ntfsconv: --end: %w", err)
		}

		cfg, err := pipelineconfig.Load(configPath)
		if err != nil {
			return err
		}

		var g errgroup.Group
		if batchConcurrency > 0 {
			g.SetLimit(batchConcurrency)
		}

		for _, pair := range args {
			pair := pair
			inDir, outDir, ok := strings.Cut(pair, ":")
			if !ok {
				return fmt.Errorf("ntfsconv: %q is not an in:out pair", pair)
			}
			g.Go(func() error {
				m, err := loadModel(inDir, cfg.Reader)
				if err != nil {
					return fmt.Errorf("%s: %w", inDir, err)
				}
				out, err := transform.RestrictValidityPeriod(m, start, end)
				if err != nil {
					return fmt.Errorf("%s: %w", inDir, err)
				}
				if err := writeModel(outDir, out, "", cfg.Netex); err != nil {
					return fmt.Errorf("%s: %w", outDir, err)
				}
				return nil
			})
		}

		return g.Wait()
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max feeds processed at once (0 = unlimited)")
	batchCmd.Flags().StringVar(&batchStart, "start", "", "inclusive start date, YYYY-MM-DD")
	batchCmd.Flags().StringVar(&batchEnd, "end", "", "inclusive end date, YYYY-MM-DD")
	_ = batchCmd.MarkFlagRequired("start")
	_ = batchCmd.MarkFlagRequired("end")
}
