package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/transitmodel/core/internal/pipelineconfig"
	"github.com/transitmodel/core/internal/transform"
)

var (
	restrictStart string
	restrictEnd   string
)

const dateLayout = "2006-01-02"

var restrictCmd = &cobra.Command{
	Use:   "restrict <input-dir> <output-dir>",
	Short: "Clip every Calendar's active dates to [start, end]",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse(dateLayout, restrictStart)
		if err != nil {
			return fmt.Errorf("ntfsconv: --start: %w", err)
		}
		end, err := time.Parse(dateLayout, restrictEnd)
		if err != nil {
			return fmt.Errorf("ntfsconv: --end: %w", err)
		}

		cfg, err := pipelineconfig.Load(configPath)
		if err != nil {
			return err
		}
		m, err := loadModel(args[0], cfg.Reader)
		if err != nil {
			return err
		}
		out, err := transform.RestrictValidityPeriod(m, start, end)
		if err != nil {
			return err
		}
		return writeModel(args[1], out, "", cfg.Netex)
	},
}

func init() {
	restrictCmd.Flags().StringVar(&restrictStart, "start", "", "inclusive start date, YYYY-MM-DD")
	restrictCmd.Flags().StringVar(&restrictEnd, "end", "", "inclusive end date, YYYY-MM-DD")
	_ = restrictCmd.MarkFlagRequired("start")
	_ = restrictCmd.MarkFlagRequired("end")
}
