package console

import (
	"errors"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/fatih/color"
	"github.com/picogrid/drone-risk-engine/pkg/engine"
	"github.com/picogrid/drone-risk-engine/pkg/mitigation"
	"github.com/picogrid/drone-risk-engine/pkg/models"
)

// Menu entries that are not targets or actions
const (
	choiceExport = "Export action log"
	choiceQuit   = "Quit"
	choiceBack   = "Back"
)

var (
	successColor  = color.New(color.FgGreen)
	failureColor  = color.New(color.FgRed)
	rejectedColor = color.New(color.FgYellow)
	resolvedColor = color.New(color.FgHiBlack)
)

// Session drives an engine from operator prompts
type Session struct {
	engine    *engine.Engine
	state     *AppState
	asker     Asker
	out       io.Writer
	exportDir string
	format    string
}

// SessionConfig configures a Session
type SessionConfig struct {
	Asker     Asker
	Out       io.Writer
	ExportDir string
	Format    string
}

// NewSession creates a console session over an engine
func NewSession(e *engine.Engine, state *AppState, cfg SessionConfig) *Session {
	if cfg.Asker == nil {
		cfg.Asker = SurveyAsker{}
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	return &Session{
		engine:    e,
		state:     state,
		asker:     cfg.Asker,
		out:       cfg.Out,
		exportDir: cfg.ExportDir,
		format:    cfg.Format,
	}
}

// Run loops until the operator quits. An interrupt ends the session without error.
func (s *Session) Run() error {
	for {
		done, err := s.step()
		if errors.Is(err, terminal.InterruptErr) {
			return nil
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (s *Session) step() (bool, error) {
	targets := s.engine.Targets()
	labels := make([]string, 0, len(targets)+2)
	byLabel := make(map[string]*models.Target, len(targets))
	for _, t := range targets {
		label := s.label(t)
		labels = append(labels, label)
		byLabel[label] = t
	}
	labels = append(labels, choiceExport, choiceQuit)

	choice, err := s.asker.Select("Select a target", labels)
	if err != nil {
		return false, err
	}

	switch choice {
	case choiceQuit:
		return true, nil
	case choiceExport:
		return false, s.export()
	}

	target, ok := byLabel[choice]
	if !ok {
		return false, fmt.Errorf("unknown selection: %s", choice)
	}
	s.state.Select(target.ID)
	return false, s.act(target)
}

func (s *Session) act(target *models.Target) error {
	actions, err := s.engine.Available(target.ID)
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		fmt.Fprintf(s.out, "%s\n", resolvedColor.Sprintf("No actions left for %s", target.CallSign))
		return nil
	}

	options := make([]string, 0, len(actions)+1)
	byLabel := make(map[string]mitigation.Action, len(actions))
	for _, a := range actions {
		options = append(options, a.Label)
		byLabel[a.Label] = a
	}
	options = append(options, choiceBack)

	choice, err := s.asker.Select(fmt.Sprintf("Action against %s", target.CallSign), options)
	if err != nil {
		return err
	}
	if choice == choiceBack {
		return nil
	}

	action, ok := byLabel[choice]
	if !ok {
		return fmt.Errorf("unknown action: %s", choice)
	}

	res, err := s.engine.ResolveAction(target.ID, action.Key)
	if err != nil {
		return err
	}
	if err := s.state.ShowToast(target.ID, res.Message); err != nil {
		return err
	}

	c := failureColor
	switch res.Status {
	case mitigation.StatusSuccess:
		c = successColor
	case mitigation.StatusRejected:
		c = rejectedColor
	}
	fmt.Fprintf(s.out, "%s %s\n", c.Sprintf("[%s]", res.Status), res.Message)
	if res.Resolved {
		fmt.Fprintf(s.out, "%s\n", resolvedColor.Sprintf("%s resolved", target.CallSign))
	}
	return nil
}

func (s *Session) export() error {
	ok, err := s.asker.Confirm("Write the action log to disk?", true)
	if err != nil || !ok {
		return err
	}

	path, err := s.engine.SaveAuditLog(s.exportDir, s.format)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Action log written to %s\n", path)
	return nil
}

func (s *Session) label(t *models.Target) string {
	icon := s.state.Icons().Get(t.RiskLevel, t.Heading)
	snap, _ := s.engine.State(t.ID)
	return fmt.Sprintf("%s %-12s %-6s %3d  %s", icon.Glyph, t.CallSign, t.RiskLevel, t.RiskScore, snap.State)
}
