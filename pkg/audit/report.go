package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/picogrid/drone-risk-engine/pkg/models"
)

// TimestampLayout is the ISO-8601 UTC layout with millisecond precision used in reports
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Report formats
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// FormatTimestamp renders t in report form
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Filename returns the export file name for a report generated at t. The ISO
// timestamp has ':' and '.' replaced by '-'.
func Filename(t time.Time, format string) string {
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(FormatTimestamp(t))
	return fmt.Sprintf("drone-action-log-%s.%s", stamp, extension(format))
}

func extension(format string) string {
	switch format {
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "md"
	default:
		return "txt"
	}
}

// Narrative phrases an entry as a report sentence without its timestamp
func Narrative(entry Entry) string {
	switch {
	case entry.Reported:
		return fmt.Sprintf("Report filed on %s at %s.", entry.CallSign, entry.Position)
	case entry.Success:
		return fmt.Sprintf("%s acted successfully on %s at %s.", entry.ActionLabel, entry.CallSign, entry.Position)
	default:
		return fmt.Sprintf("%s acted unsuccessfully on %s at %s because %s",
			entry.ActionLabel, entry.CallSign, entry.Position, entry.Message)
	}
}

// Render produces the plain-text action report. The output depends only on
// its inputs, so a fixed generation time reproduces it byte for byte.
func Render(entries []Entry, summary Summary, targets []*models.Target, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("Drone Mitigation Action Log\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", FormatTimestamp(generatedAt)))
	sb.WriteString("\n")

	sb.WriteString("Summary\n")
	sb.WriteString(fmt.Sprintf("Targets engaged: %d\n", summary.Engaged))
	sb.WriteString(fmt.Sprintf("Successful mitigations: %d\n", summary.Successful))
	sb.WriteString(fmt.Sprintf("Unsuccessful mitigations: %d\n", summary.Unsuccessful))
	sb.WriteString(fmt.Sprintf("Reports filed: %d\n", summary.Reported))
	sb.WriteString(fmt.Sprintf("Total targets: %d\n", summary.TotalTargets))
	sb.WriteString("\n")

	sb.WriteString("Targets\n")
	for _, t := range targets {
		sb.WriteString(fmt.Sprintf("%s - %s risk (score %d)\n", t.CallSign, t.RiskLevel, t.RiskScore))
	}
	sb.WriteString("\n")

	sb.WriteString("Last Known Coordinates\n")
	for _, t := range targets {
		sb.WriteString(fmt.Sprintf("%s: %s\n", t.CallSign, t.Position()))
	}
	sb.WriteString("\n")

	sb.WriteString("Actions\n")
	if len(entries) == 0 {
		sb.WriteString("No actions recorded.\n")
	}
	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", FormatTimestamp(entry.Timestamp), Narrative(entry)))
	}

	return sb.String()
}

// RenderMarkdown produces a Markdown variant of the action report
func RenderMarkdown(entries []Entry, summary Summary, targets []*models.Target, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Drone Mitigation Action Log\n\n")
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", FormatTimestamp(generatedAt)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Targets Engaged:** %d\n", summary.Engaged))
	sb.WriteString(fmt.Sprintf("- **Successful Mitigations:** %d\n", summary.Successful))
	sb.WriteString(fmt.Sprintf("- **Unsuccessful Mitigations:** %d\n", summary.Unsuccessful))
	sb.WriteString(fmt.Sprintf("- **Reports Filed:** %d\n", summary.Reported))
	sb.WriteString(fmt.Sprintf("- **Total Targets:** %d\n\n", summary.TotalTargets))

	sb.WriteString("## Targets\n\n")
	sb.WriteString("| Call Sign | Risk | Score | Last Known Position |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, t := range targets {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s |\n", t.CallSign, t.RiskLevel, t.RiskScore, t.Position()))
	}
	sb.WriteString("\n")

	sb.WriteString("## Actions\n\n")
	if len(entries) == 0 {
		sb.WriteString("No actions recorded.\n")
	}
	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("- `%s` %s\n", FormatTimestamp(entry.Timestamp), Narrative(entry)))
	}

	return sb.String()
}

// jsonReport is the JSON export document
type jsonReport struct {
	GeneratedAt string       `json:"generated_at"`
	Summary     Summary      `json:"summary"`
	Targets     []jsonTarget `json:"targets"`
	Entries     []Entry      `json:"entries"`
}

type jsonTarget struct {
	ID        string  `json:"id"`
	CallSign  string  `json:"call_sign"`
	RiskLevel string  `json:"risk_level"`
	RiskScore int     `json:"risk_score"`
	Heading   float64 `json:"heading"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RenderJSON produces an indented JSON variant of the action report
func RenderJSON(entries []Entry, summary Summary, targets []*models.Target, generatedAt time.Time) (string, error) {
	doc := jsonReport{
		GeneratedAt: FormatTimestamp(generatedAt),
		Summary:     summary,
		Targets:     make([]jsonTarget, 0, len(targets)),
		Entries:     entries,
	}
	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}

	for _, t := range targets {
		pos := t.Position()
		doc.Targets = append(doc.Targets, jsonTarget{
			ID:        t.ID,
			CallSign:  t.CallSign,
			RiskLevel: string(t.RiskLevel),
			RiskScore: t.RiskScore,
			Heading:   t.Heading,
			Latitude:  pos.Latitude,
			Longitude: pos.Longitude,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data) + "\n", nil
}

// RenderFormat renders the report in the requested format
func RenderFormat(format string, entries []Entry, summary Summary, targets []*models.Target, generatedAt time.Time) (string, error) {
	switch format {
	case "", FormatText:
		return Render(entries, summary, targets, generatedAt), nil
	case FormatMarkdown:
		return RenderMarkdown(entries, summary, targets, generatedAt), nil
	case FormatJSON:
		return RenderJSON(entries, summary, targets, generatedAt)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// Save writes a rendered report into dir using the export filename convention
// and returns the written path.
func Save(dir, format, content string, generatedAt time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, Filename(generatedAt, format))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
