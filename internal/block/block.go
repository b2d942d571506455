// Package block renders a battery as an i3blocks status block.
package block

import (
	"fmt"
	"io"

	"github.com/cptspacemanspiff/batblock/internal/battery"
	"github.com/cptspacemanspiff/batblock/internal/config"
)

// Font Awesome glyphs.
const (
	IconPlug          = "\uf1e6"
	IconCheck         = "\uf00c"
	IconFull          = "\uf240"
	IconThreeQuarters = "\uf241"
	IconHalf          = "\uf242"
	IconQuarter       = "\uf243"
	IconEmpty         = "\uf244"
)

// Style is the icon and color chosen for one display.
type Style struct {
	Icon  string
	Color string
}

// Renderer formats block lines using a theme.
type Renderer struct {
	theme         config.ThemeConfig
	font          string
	criticalLevel int
}

func NewRenderer(cfg config.BlockConfig, theme config.ThemeConfig) *Renderer {
	return &Renderer{theme: theme, font: cfg.Font, criticalLevel: cfg.CriticalLevel}
}

// Critical reports whether percent is at or below the critical level.
func (r *Renderer) Critical(percent int) bool {
	return percent <= r.criticalLevel
}

// StyleFor picks the icon and color for d. Charging swaps the icon for a plug
// but keeps the level color. At or below the critical level the critical
// color replaces the level color.
func (r *Renderer) StyleFor(d battery.Display) Style {
	var s Style
	switch d.Level {
	case battery.LevelCharged:
		return Style{Icon: IconCheck, Color: r.theme.Full}
	case battery.LevelFull:
		s = Style{Icon: IconFull, Color: r.theme.Full}
	case battery.LevelThreeQuarters:
		s = Style{Icon: IconThreeQuarters, Color: r.theme.ThreeQuarters}
	case battery.LevelHalf:
		s = Style{Icon: IconHalf, Color: r.theme.Half}
	case battery.LevelQuarter:
		s = Style{Icon: IconQuarter, Color: r.theme.Quarter}
	default:
		s = Style{Icon: IconEmpty, Color: r.theme.Empty}
	}
	if r.Critical(d.Percent) {
		s.Color = r.theme.Critical
	}
	if d.Charging {
		s.Icon = IconPlug
	}
	return s
}

// Line is one block line in Pango markup, newline terminated.
func (r *Renderer) Line(d battery.Display) string {
	s := r.StyleFor(d)
	return fmt.Sprintf("<span color=\"%s\" font_desc=\"%s\"> %s </span>%d%%\n", s.Color, r.font, s.Icon, d.Percent)
}

// Unavailable is the line shown when the battery cannot be read.
func (r *Renderer) Unavailable() string {
	return fmt.Sprintf("<span color=\"%s\" font_desc=\"%s\"> %s </span>--%%\n", r.theme.Critical, r.font, IconEmpty)
}

// Write prints line twice: i3blocks reads full_text then short_text.
func Write(w io.Writer, line string) error {
	_, err := io.WriteString(w, line+line)
	return err
}
