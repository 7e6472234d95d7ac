package main

import (
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/pipelineconfig"
	"github.com/transitmodel/core/internal/transform"
)

var transfersOverrideFile string

var transfersCmd = &cobra.Command{
	Use:   "transfers <input-dir> <output-dir>",
	Short: "Synthesize walking transfers between nearby stop points",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pipelineconfig.Load(configPath)
		if err != nil {
			return err
		}

		overrides, err := loadTransferOverrides(transfersOverrideFile, newCLILogger())
		if err != nil {
			return err
		}

		m, err := loadModel(args[0], cfg.Reader)
		if err != nil {
			return err
		}
		out, err := transform.GenerateTransfers(m, transform.TransferOptions{
			MaxDistanceMeters: cfg.Transfer.MaxDistanceMeters,
			WalkingSpeedMPS:   cfg.Transfer.WalkingSpeedMPS,
			WaitingTime:       cfg.Transfer.WaitingTime(),
			Overrides:         overrides,
		})
		if err != nil {
			return err
		}
		return writeModel(args[1], out, "", cfg.Netex)
	},
}

func init() {
	transfersCmd.Flags().StringVar(&transfersOverrideFile, "rules", "", "CSV file of (from_stop_id,to_stop_id,min_transfer_time,real_min_transfer_time) overrides")
}

func loadTransferOverrides(path string, log *slog.Logger) ([]entity.Transfer, error) {
	if path == "" {
		return nil, nil
	}
	rows, err := readRuleCSV(path)
	if err != nil {
		return nil, err
	}
	var out []entity.Transfer
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		minSecs, err1 := strconv.Atoi(row[2])
		realSecs, err2 := strconv.Atoi(row[3])
		if err1 != nil || err2 != nil {
			log.Warn("skipping malformed transfer override row", "row", row)
			continue
		}
		minD := secondsToDuration(minSecs)
		realD := secondsToDuration(realSecs)
		out = append(out, entity.Transfer{
			FromStopID:          row[0],
			ToStopID:            row[1],
			MinTransferTime:     &minD,
			RealMinTransferTime: &realD,
		})
	}
	return out, nil
}
