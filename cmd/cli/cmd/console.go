package cmd

import (
	"errors"

	"github.com/picogrid/drone-risk-engine/pkg/audit"
	"github.com/picogrid/drone-risk-engine/pkg/console"
	"github.com/picogrid/drone-risk-engine/pkg/engine"
	"github.com/picogrid/drone-risk-engine/pkg/logger"
	"github.com/picogrid/drone-risk-engine/pkg/models"
	"github.com/spf13/cobra"
)

var (
	consoleFormat    string
	consoleOutputDir string
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactively select targets and apply mitigation actions",
	RunE:  runConsole,
}

func init() {
	consoleCmd.Flags().StringVar(&consoleFormat, "format", audit.FormatText, "export format (text, json, markdown)")
	consoleCmd.Flags().StringVarP(&consoleOutputDir, "output-dir", "o", ".", "directory for exported logs")
}

func runConsole(cmd *cobra.Command, args []string) error {
	if !console.IsInteractive() {
		return errors.New("console requires an interactive terminal, use resolve or export instead")
	}

	state := console.NewAppState()
	defer state.Close()

	e, cfg, err := newEngine(engine.WithOnResolved(func(t *models.Target) {
		logger.Successf("%s has no actions left", t.CallSign)
	}))
	if err != nil {
		return err
	}

	logger.LogSection(logger.IconTarget + " " + cfg.Name)
	logger.LogKeyValue("Targets", len(e.Targets()))
	logger.LogKeyValue("Engaged stations", len(e.EngagedStations()))

	session := console.NewSession(e, state, console.SessionConfig{
		Out:       cmd.OutOrStdout(),
		ExportDir: consoleOutputDir,
		Format:    consoleFormat,
	})
	return session.Run()
}
