package console

import (
	"math"
	"sync"

	"github.com/fatih/color"
	"github.com/picogrid/drone-risk-engine/pkg/risk"
)

// HeadingStep is the resolution icons are cached at, in degrees
const HeadingStep = 10

var arrows = []string{"↑", "↗", "→", "↘", "↓", "↙", "←", "↖"}

// Icon is the rendered marker for a target
type Icon struct {
	Level   risk.Level
	Heading int
	Glyph   string
	Text    string
}

type iconKey struct {
	level   risk.Level
	heading int
}

// IconCache memoizes icons by risk level and heading rounded to HeadingStep
type IconCache struct {
	mu     sync.Mutex
	icons  map[iconKey]Icon
	misses int
}

// NewIconCache creates an empty cache
func NewIconCache() *IconCache {
	return &IconCache{
		icons: make(map[iconKey]Icon),
	}
}

// RoundHeading rounds a heading to the nearest HeadingStep in [0, 360)
func RoundHeading(heading float64) int {
	rounded := int(math.Round(heading/HeadingStep)) * HeadingStep
	return ((rounded % 360) + 360) % 360
}

// Get returns the icon for a level and heading, building it on first use
func (c *IconCache) Get(level risk.Level, heading float64) Icon {
	key := iconKey{level: level, heading: RoundHeading(heading)}

	c.mu.Lock()
	defer c.mu.Unlock()

	if icon, ok := c.icons[key]; ok {
		return icon
	}

	c.misses++
	glyph := arrows[int(math.Round(float64(key.heading)/45))%len(arrows)]
	icon := Icon{
		Level:   level,
		Heading: key.heading,
		Glyph:   glyph,
		Text:    LevelColor(level).Sprint(glyph),
	}
	c.icons[key] = icon
	return icon
}

// Len returns the number of cached icons
func (c *IconCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.icons)
}

// LevelColor returns the display color of a risk level
func LevelColor(level risk.Level) *color.Color {
	switch level {
	case risk.LevelHigh:
		return color.New(color.FgRed, color.Bold)
	case risk.LevelMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
