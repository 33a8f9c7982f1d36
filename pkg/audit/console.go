package audit

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	reportColor  = color.New(color.FgCyan)
	stampColor   = color.New(color.FgHiBlack)
)

// ConsoleEcho returns a listener that prints each entry as a colored narrative line
func ConsoleEcho(w io.Writer) Listener {
	return func(entry Entry) {
		c := failureColor
		switch {
		case entry.Reported:
			c = reportColor
		case entry.Success:
			c = successColor
		}
		fmt.Fprintf(w, "%s %s\n",
			stampColor.Sprintf("[%s]", FormatTimestamp(entry.Timestamp)),
			c.Sprint(Narrative(entry)))
	}
}
