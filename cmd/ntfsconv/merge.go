package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transitmodel/core/internal/model"
	"github.com/transitmodel/core/internal/pipelineconfig"
	"github.com/transitmodel/core/internal/transform"
)

var mergePrefixes []string

var mergeCmd = &cobra.Command{
	Use:   "merge <output-dir> <input-dir>...",
	Short: "Merge two or more feeds into one, prefixing ids to keep them disjoint",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, inputs := args[0], args[1:]
		if len(mergePrefixes) > 0 && len(mergePrefixes) != len(inputs) {
			return fmt.Errorf("ntfsconv: --prefix must be given once per input directory (%d inputs, %d prefixes)", len(inputs), len(mergePrefixes))
		}

		cfg, err := pipelineconfig.Load(configPath)
		if err != nil {
			return err
		}

		var merged *model.Model
		for i, dir := range inputs {
			m, err := loadModel(dir, cfg.Reader)
			if err != nil {
				return fmt.Errorf("ntfsconv: loading %s: %w", dir, err)
			}
			if len(mergePrefixes) > 0 && mergePrefixes[i] != "" {
				b := transform.AddPrefix(m.Decompose(), transform.PrefixOptions{
					Prefix:    transform.NormalizePrefix(mergePrefixes[i], ":"),
					Separator: ":",
				})
				m, err = model.Assemble(b)
				if err != nil {
					return fmt.Errorf("ntfsconv: prefixing %s: %w", dir, err)
				}
			}
			if merged == nil {
				merged = m
				continue
			}
			merged, err = transform.Merge(merged, m)
			if err != nil {
				return fmt.Errorf("ntfsconv: merging %s: %w", dir, err)
			}
		}

		return writeModel(outDir, merged, "", cfg.Netex)
	},
}

func init() {
	mergeCmd.Flags().StringSliceVar(&mergePrefixes, "prefix", nil, "one prefix per input directory, in order, applied before merging")
}
