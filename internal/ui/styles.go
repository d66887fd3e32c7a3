// Package ui provides the terminal user interface.
package ui

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// unicodeSupported caches whether the terminal supports Unicode.
// Initialized once on first call to SupportsUnicode().
var (
	unicodeSupported     bool
	unicodeSupportedOnce sync.Once
)

// SupportsUnicode returns true if the terminal likely supports Unicode characters.
// It checks LANG, LC_ALL, and LC_CTYPE environment variables for UTF-8 indicators.
func SupportsUnicode() bool {
	unicodeSupportedOnce.Do(func() {
		// Check common locale environment variables for UTF-8
		for _, envVar := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
			val := strings.ToLower(os.Getenv(envVar))
			if strings.Contains(val, "utf-8") || strings.Contains(val, "utf8") {
				unicodeSupported = true
				return
			}
		}
		// Default to false if no UTF-8 locale found
		unicodeSupported = false
	})
	return unicodeSupported
}

// Icon constants - Unicode and ASCII versions
const (
	IconBulletUnicode    = "•"
	IconExpandedUnicode  = "▾"
	IconCollapsedUnicode = "▸"
	IconGrabbedUnicode   = "◆"
	IconDropUnicode      = "↳"
	IconRepeatUnicode    = "↻"

	// ASCII fallbacks
	IconBulletASCII    = "-"
	IconExpandedASCII  = "v"
	IconCollapsedASCII = ">"
	IconGrabbedASCII   = "#"
	IconDropASCII      = "->"
	IconRepeatASCII    = "@"
)

// Icon returns the appropriate icon based on terminal Unicode support.
func Icon(unicodeIcon, asciiIcon string) string {
	if SupportsUnicode() {
		return unicodeIcon
	}
	return asciiIcon
}

// IconBullet returns the leaf task bullet.
func IconBullet() string { return Icon(IconBulletUnicode, IconBulletASCII) }

// IconExpanded returns the expanded branch marker.
func IconExpanded() string { return Icon(IconExpandedUnicode, IconExpandedASCII) }

// IconCollapsed returns the collapsed branch marker.
func IconCollapsed() string { return Icon(IconCollapsedUnicode, IconCollapsedASCII) }

// IconGrabbed returns the marker shown on a grabbed task.
func IconGrabbed() string { return Icon(IconGrabbedUnicode, IconGrabbedASCII) }

// IconDrop returns the drop target marker.
func IconDrop() string { return Icon(IconDropUnicode, IconDropASCII) }

// IconRepeat returns the repeating task marker.
func IconRepeat() string { return Icon(IconRepeatUnicode, IconRepeatASCII) }

// Colors
var (
	ColorPrimary   = lipgloss.Color("#61AFEF") // Soft blue (OneDark default)
	ColorSecondary = lipgloss.Color("#56B6C2") // Cyan
	ColorSuccess   = lipgloss.Color("#98C379") // Green
	ColorWarning   = lipgloss.Color("#E5C07B") // Yellow
	ColorError     = lipgloss.Color("#E06C75") // Red
	ColorMuted     = lipgloss.Color("#5C6370") // Gray
	ColorOverdue   = lipgloss.Color("#E06C75") // Red
	ColorDueToday  = lipgloss.Color("#E5C07B") // Yellow
)

// Base styles
var (
	Bold     = lipgloss.NewStyle().Bold(true)
	Dim      = lipgloss.NewStyle().Foreground(ColorMuted)
	Title    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	Subtitle = lipgloss.NewStyle().Foreground(ColorSecondary)
	Success  = lipgloss.NewStyle().Foreground(ColorSuccess)
	Warning  = lipgloss.NewStyle().Foreground(ColorWarning)
	Error    = lipgloss.NewStyle().Foreground(ColorError)

	// List item styles
	ListItem = lipgloss.NewStyle().
			PaddingLeft(1)

	SelectedListItem = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(ColorPrimary).
				Bold(true)

	GrabbedListItem = lipgloss.NewStyle().
			PaddingLeft(1).
			Foreground(ColorWarning).
			Bold(true)

	// Drop indicator styles
	DropLine = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	DropTarget = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true).
			Underline(true)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Padding(1, 0)

	HelpKey = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Header
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Padding(0, 1).
		MarginBottom(1)
)
