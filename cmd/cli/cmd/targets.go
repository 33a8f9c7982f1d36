package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/picogrid/drone-risk-engine/pkg/console"
	"github.com/picogrid/drone-risk-engine/pkg/logger"
	"github.com/picogrid/drone-risk-engine/pkg/risk"
	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List targets with their risk, heading and coverage",
	RunE:  listTargets,
}

func listTargets(cmd *cobra.Command, args []string) error {
	e, cfg, err := newEngine()
	if err != nil {
		return err
	}

	covered := make(map[string]bool)
	for _, id := range e.CoveredTargets() {
		covered[id] = true
	}

	icons := console.NewIconCache()

	logger.LogSection(fmt.Sprintf("%s Targets in %s", logger.IconTarget, cfg.Name))
	table := logger.NewTable("", "ID", "CALL SIGN", "RISK", "SCORE", "HEADING", "POSITION", "COVERED", "ACTIONS")
	table.ColorColumn(3, func(cell string) *color.Color {
		return console.LevelColor(risk.Level(cell))
	})

	for _, t := range e.Targets() {
		coveredStr := "-"
		if covered[t.ID] {
			coveredStr = logger.IconCheck
		}
		table.AddRow(
			icons.Get(t.RiskLevel, t.Heading).Glyph,
			t.ID,
			t.CallSign,
			string(t.RiskLevel),
			fmt.Sprintf("%d", t.RiskScore),
			fmt.Sprintf("%.1f", t.Heading),
			t.Position().String(),
			coveredStr,
			fmt.Sprintf("%d", len(t.OutcomeKeys())),
		)
	}
	table.Print()
	return nil
}
