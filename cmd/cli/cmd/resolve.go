package cmd

import (
	"fmt"
	"strings"

	"github.com/picogrid/drone-risk-engine/pkg/audit"
	"github.com/picogrid/drone-risk-engine/pkg/engine"
	"github.com/picogrid/drone-risk-engine/pkg/logger"
	"github.com/picogrid/drone-risk-engine/pkg/mitigation"
	"github.com/spf13/cobra"
)

var (
	resolveExport    bool
	resolveFormat    string
	resolveOutputDir string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <target> <action> [action...]",
	Short: "Resolve mitigation actions against a target",
	Long: `Resolve one or more mitigation actions against a target in order and
print each outcome. Actions already used, unknown, or missing from the
target's outcome table are rejected without being logged.`,
	Args: cobra.MinimumNArgs(2),
	RunE: resolveActions,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveExport, "export", false, "write the action log after resolving")
	resolveCmd.Flags().StringVar(&resolveFormat, "format", audit.FormatText, "export format (text, json, markdown)")
	resolveCmd.Flags().StringVarP(&resolveOutputDir, "output-dir", "o", ".", "directory for the exported log")
}

func resolveActions(cmd *cobra.Command, args []string) error {
	e, _, err := newEngine()
	if err != nil {
		return err
	}

	e.Log().Subscribe(audit.ConsoleEcho(cmd.OutOrStdout()))

	targetID := args[0]
	for _, key := range args[1:] {
		if err := resolveOne(e, targetID, key); err != nil {
			return err
		}
	}

	if resolveExport {
		path, err := e.SaveAuditLog(resolveOutputDir, resolveFormat)
		if err != nil {
			return err
		}
		logger.Successf("Action log written to %s", path)
	}
	return nil
}

// resolveOne resolves a single action and reports rejections and resolution
func resolveOne(e *engine.Engine, targetID, key string) error {
	res, err := e.ResolveAction(targetID, key)
	if err != nil {
		return err
	}

	if res.Status == mitigation.StatusRejected {
		logger.Warnf("%s %s on %s rejected: %v", logger.IconCross, key, targetID, res.Reason)
		return nil
	}
	if res.Resolved {
		state, _ := e.State(targetID)
		logger.Successf("%s resolved after %s", targetID, strings.Join(state.UsedActions, ", "))
	}
	return nil
}

// parseAction splits "target=action" into its parts
func parseAction(pair string) (string, string, error) {
	target, action, ok := strings.Cut(pair, "=")
	if !ok || target == "" || action == "" {
		return "", "", fmt.Errorf("invalid action %q, expected target=action", pair)
	}
	return target, action, nil
}
