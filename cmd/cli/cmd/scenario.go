package cmd

import (
	"fmt"
	"os"

	"github.com/picogrid/drone-risk-engine/pkg/logger"
	"github.com/picogrid/drone-risk-engine/pkg/scenario"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scenarioForce bool

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Manage scenario files",
}

var scenarioListCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List scenario files (*" + scenario.FileSuffix + ") under a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  listScenarios,
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective scenario after presets, file and environment",
	RunE:  showScenario,
}

var scenarioInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write a scenario file based on a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  initScenario,
}

var scenarioPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in presets",
	RunE:  listPresets,
}

func init() {
	scenarioInitCmd.Flags().BoolVarP(&scenarioForce, "force", "f", false, "overwrite an existing file")

	scenarioCmd.AddCommand(scenarioListCmd)
	scenarioCmd.AddCommand(scenarioShowCmd)
	scenarioCmd.AddCommand(scenarioInitCmd)
	scenarioCmd.AddCommand(scenarioPresetsCmd)
}

func listScenarios(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	found, skipped, err := scenario.Discover(dir)
	if err != nil {
		return err
	}
	for path, err := range skipped {
		logger.Warnf("Skipping %s: %v", path, err)
	}

	if len(found) == 0 {
		logger.Infof("No scenarios found under %s", dir)
		return nil
	}

	table := logger.NewTable("NAME", "PRESET", "TARGETS", "STATIONS", "PATH", "DESCRIPTION")
	for _, info := range found {
		table.AddRow(
			info.Name,
			info.Preset,
			fmt.Sprintf("%d", info.Targets),
			fmt.Sprintf("%d", info.Stations),
			info.Path,
			info.Description,
		)
	}
	table.Print()
	return nil
}

func showScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}

	data, err := scenario.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func initScenario(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !scenarioForce {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	preset := viper.GetString("preset")
	if preset == "" {
		preset = scenario.DefaultPreset
	}

	cfg, err := scenario.DefaultRegistry.Get(preset)
	if err != nil {
		return err
	}

	if err := scenario.Save(cfg, path); err != nil {
		return err
	}
	logger.Successf("Wrote %s scenario to %s", preset, path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	table := logger.NewTable("NAME", "INDICATORS", "ACTIONS", "STATIONS", "TARGETS", "DESCRIPTION")
	for _, name := range scenario.DefaultRegistry.List() {
		cfg, err := scenario.DefaultRegistry.Get(name)
		if err != nil {
			return err
		}
		if name == scenario.DefaultPreset {
			name += " (default)"
		}
		table.AddRow(
			name,
			fmt.Sprintf("%d", len(cfg.Weights)),
			fmt.Sprintf("%d", len(cfg.Actions)),
			fmt.Sprintf("%d", len(cfg.Stations)),
			fmt.Sprintf("%d", len(cfg.Targets)),
			cfg.Description,
		)
	}
	table.Print()
	return nil
}
