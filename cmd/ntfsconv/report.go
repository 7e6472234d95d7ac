package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transitmodel/core/internal/pipelineconfig"
)

var reportCmd = &cobra.Command{
	Use:   "report <input-dir>",
	Short: "Load a feed and print the invariant-check outcome plus entity counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pipelineconfig.Load(configPath)
		if err != nil {
			return err
		}
		m, err := loadModel(args[0], cfg.Reader)
		if err != nil {
			return fmt.Errorf("ntfsconv: invariant check failed: %w", err)
		}
		b := m.Bag()
		fmt.Printf("networks: %d\nlines: %d\nroutes: %d\nstop areas: %d\nstop points: %d\ncalendars: %d\nvehicle journeys: %d\n",
			b.Networks.Len(), b.Lines.Len(), b.Routes.Len(), b.StopAreas.Len(),
			b.StopPoints.Len(), b.Calendars.Len(), b.VehicleJourneys.Len())
		return nil
	},
}
