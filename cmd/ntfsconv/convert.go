package main

import (
	"github.com/spf13/cobra"

	"github.com/transitmodel/core/internal/pipelineconfig"
)

var convertNetexOut string

var convertCmd = &cobra.Command{
	Use:   "convert <input-dir> <output-dir>",
	Short: "Read a tabular feed and write it back out, applying no transformation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pipelineconfig.Load(configPath)
		if err != nil {
			return err
		}
		m, err := loadModel(args[0], cfg.Reader)
		if err != nil {
			return err
		}
		return writeModel(args[1], m, convertNetexOut, cfg.Netex)
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertNetexOut, "netex-out", "", "also write a NeTEx export to this filename under the output directory")
}
