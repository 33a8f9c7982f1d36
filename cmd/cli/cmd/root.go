package cmd

import (
	"strings"

	"github.com/fatih/color"
	"github.com/picogrid/drone-risk-engine/pkg/engine"
	"github.com/picogrid/drone-risk-engine/pkg/logger"
	"github.com/picogrid/drone-risk-engine/pkg/metrics"
	"github.com/picogrid/drone-risk-engine/pkg/scenario"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// metricsManager is shared by the engine of the running command
var metricsManager *metrics.Manager

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "drone-risk",
	Short: "Drone risk assessment and mitigation CLI",
	Long: `drone-risk scores tracked drones from their indicators, works out which
coverage stations are engaged, resolves mitigation actions against each
target's outcome table and exports the resulting action log.`,
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if path := viper.GetString("metrics-file"); path != "" && metricsManager != nil {
			return metricsManager.WriteTextfile(path)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.drone-risk/config.yaml)")
	flags.String("scenario", "", "scenario file (defaults to the selected preset)")
	flags.String("preset", "", "scenario preset to build on (baseline, extended)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("metrics-file", "", "write Prometheus metrics to this textfile on exit")

	for _, name := range []string{"scenario", "preset", "log-level", "no-color", "metrics-file"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	// Add commands
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(stationsCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory
		viper.AddConfigPath("$HOME/.drone-risk")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("DRONE_RISK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in
	_ = viper.ReadInConfig()

	// Configure logger based on flags
	logger.SetLevel(logger.ParseLevel(viper.GetString("log-level")))
	if viper.GetBool("no-color") {
		logger.SetNoColor(true)
		color.NoColor = true
	}
}

// loadScenario loads the scenario selected by --scenario and --preset
func loadScenario() (*scenario.Config, error) {
	return scenario.Load(viper.GetString("scenario"), viper.GetString("preset"))
}

// newEngine builds a session engine from the selected scenario
func newEngine(opts ...engine.Option) (*engine.Engine, *scenario.Config, error) {
	cfg, err := loadScenario()
	if err != nil {
		return nil, nil, err
	}

	metricsManager = metrics.NewManager(metrics.WithConstLabels(map[string]string{"scenario": cfg.Name}))

	base := []engine.Option{
		engine.WithMetrics(metricsManager),
		engine.WithLogger(logger.WithPrefix("engine")),
	}
	e, err := engine.New(cfg.Engine(), append(base, opts...)...)
	if err != nil {
		return nil, nil, err
	}

	logger.Debugf("Loaded scenario %s (preset %s), session %s", cfg.Name, cfg.Preset, e.SessionID())
	return e, cfg, nil
}
