package main

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/transitmodel/core/internal/pipelineconfig"
	"github.com/transitmodel/core/internal/transform"
)

var (
	filterNetworks string
	filterRemove   bool
	filterYes      bool
)

var filterCmd = &cobra.Command{
	Use:   "filter <input-dir> <output-dir>",
	Short: "Keep or discard a set of networks and everything reachable from them",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pipelineconfig.Load(configPath)
		if err != nil {
			return err
		}

		mode := transform.Extract
		if filterRemove {
			mode = transform.Remove
			if !filterYes && !confirmDestructiveFilter() {
				newCLILogger().Info("filter cancelled")
				return nil
			}
		}

		ids := splitCSV(filterNetworks)
		m, err := loadModel(args[0], cfg.Reader)
		if err != nil {
			return err
		}
		out, err := transform.FilterByNetwork(m, ids, mode)
		if err != nil {
			return err
		}
		return writeModel(args[1], out, "", cfg.Netex)
	},
}

func init() {
	filterCmd.Flags().StringVar(&filterNetworks, "networks", "", "comma-separated network ids")
	filterCmd.Flags().BoolVar(&filterRemove, "remove", false, "discard the named networks instead of keeping only them")
	filterCmd.Flags().BoolVarP(&filterYes, "yes", "y", false, "skip the destructive-filter confirmation prompt")
}

// confirmDestructiveFilter asks before running filter --remove, which can
// silently drop most of a dataset if the network list is wrong.
func confirmDestructiveFilter() bool {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Remove the named networks and everything only reachable from them?").
				Affirmative("Remove").
				Negative("Cancel").
				Value(&ok),
		),
	).Run()
	if err != nil {
		return false
	}
	return ok
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
