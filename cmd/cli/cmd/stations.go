package cmd

import (
	"fmt"

	"github.com/picogrid/drone-risk-engine/pkg/logger"
	"github.com/spf13/cobra"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List coverage stations and the targets inside their radius",
	RunE:  listStations,
}

func listStations(cmd *cobra.Command, args []string) error {
	e, cfg, err := newEngine()
	if err != nil {
		return err
	}

	stations := e.Stations()
	if len(stations) == 0 {
		logger.Infof("Scenario %s has no coverage stations", cfg.Name)
		return nil
	}

	inRange := make(map[string][]string)
	for _, c := range e.Contacts() {
		inRange[c.StationID] = append(inRange[c.StationID], fmt.Sprintf("%s (%.1f km)", c.TargetID, c.DistanceMeters/1000))
	}

	logger.LogSection(fmt.Sprintf("%s Stations in %s", logger.IconRadar, cfg.Name))
	logger.LogKeyValue("Coverage radius", fmt.Sprintf("%.0f m", e.RadiusMeters()))
	logger.LogKeyValue("Engaged", fmt.Sprintf("%d of %d", len(e.EngagedStations()), len(stations)))

	table := logger.NewTable("ID", "NAME", "POSITION", "ENGAGED", "TARGETS IN RANGE")
	for _, s := range stations {
		engaged := "-"
		targets := "-"
		if hits := inRange[s.ID]; len(hits) > 0 {
			engaged = logger.IconCheck
			targets = fmt.Sprint(hits)
		}
		table.AddRow(s.ID, s.Name, s.Position.String(), engaged, targets)
	}
	table.Print()
	return nil
}
