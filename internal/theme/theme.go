// Package theme holds the color palettes of the TUI.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name string

	// Glamour is the standard glamour style for rendered pages
	// ("dark", "light", "dracula", ...).
	Glamour string

	// Core colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Text colors
	Text       lipgloss.Color
	TextDim    lipgloss.Color
	TextBright lipgloss.Color

	// UI element colors
	Background  lipgloss.Color
	Surface     lipgloss.Color
	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	// Semantic colors
	Link      lipgloss.Color
	LinkIndex lipgloss.Color
	Heading   lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color

	// Dataset colors: tagged targets vs untagged genes, and the audience
	// badge in the status bar.
	Target      lipgloss.Color
	Interactor  lipgloss.Color
	ModePublic  lipgloss.Color
	ModePrivate lipgloss.Color
}

var themes = map[string]Theme{
	"opencell": OpenCell,
	"light":    Light,
	"nord":     Nord,
	"dracula":  Dracula,
}

// OpenCell follows the web client's dark palette.
var OpenCell = Theme{
	Name:        "opencell",
	Glamour:     "dark",
	Primary:     lipgloss.Color("#1F8FFF"),
	Secondary:   lipgloss.Color("#2BB5A0"),
	Accent:      lipgloss.Color("#F5A623"),
	Text:        lipgloss.Color("#DCE3EA"),
	TextDim:     lipgloss.Color("#6B7785"),
	TextBright:  lipgloss.Color("#FFFFFF"),
	Background:  lipgloss.Color("#10161C"),
	Surface:     lipgloss.Color("#1B242D"),
	Border:      lipgloss.Color("#2E3A46"),
	BorderFocus: lipgloss.Color("#1F8FFF"),
	Link:        lipgloss.Color("#5CB3FF"),
	LinkIndex:   lipgloss.Color("#F5A623"),
	Heading:     lipgloss.Color("#8FC9FF"),
	Error:       lipgloss.Color("#E5534B"),
	Success:     lipgloss.Color("#3FB950"),
	Warning:     lipgloss.Color("#F5A623"),
	Target:      lipgloss.Color("#2BB5A0"),
	Interactor:  lipgloss.Color("#B388FF"),
	ModePublic:  lipgloss.Color("#3FB950"),
	ModePrivate: lipgloss.Color("#E5534B"),
}

var Light = Theme{
	Name:        "light",
	Glamour:     "light",
	Primary:     lipgloss.Color("#0969DA"),
	Secondary:   lipgloss.Color("#1A7F64"),
	Accent:      lipgloss.Color("#9A6700"),
	Text:        lipgloss.Color("#24292F"),
	TextDim:     lipgloss.Color("#6E7781"),
	TextBright:  lipgloss.Color("#000000"),
	Background:  lipgloss.Color("#FFFFFF"),
	Surface:     lipgloss.Color("#F6F8FA"),
	Border:      lipgloss.Color("#D0D7DE"),
	BorderFocus: lipgloss.Color("#0969DA"),
	Link:        lipgloss.Color("#0969DA"),
	LinkIndex:   lipgloss.Color("#9A6700"),
	Heading:     lipgloss.Color("#0550AE"),
	Error:       lipgloss.Color("#CF222E"),
	Success:     lipgloss.Color("#1A7F37"),
	Warning:     lipgloss.Color("#9A6700"),
	Target:      lipgloss.Color("#1A7F64"),
	Interactor:  lipgloss.Color("#8250DF"),
	ModePublic:  lipgloss.Color("#1A7F37"),
	ModePrivate: lipgloss.Color("#CF222E"),
}

var Nord = Theme{
	Name:        "nord",
	Glamour:     "dark",
	Primary:     lipgloss.Color("#88C0D0"),
	Secondary:   lipgloss.Color("#81A1C1"),
	Accent:      lipgloss.Color("#EBCB8B"),
	Text:        lipgloss.Color("#ECEFF4"),
	TextDim:     lipgloss.Color("#4C566A"),
	TextBright:  lipgloss.Color("#ECEFF4"),
	Background:  lipgloss.Color("#2E3440"),
	Surface:     lipgloss.Color("#3B4252"),
	Border:      lipgloss.Color("#434C5E"),
	BorderFocus: lipgloss.Color("#88C0D0"),
	Link:        lipgloss.Color("#88C0D0"),
	LinkIndex:   lipgloss.Color("#EBCB8B"),
	Heading:     lipgloss.Color("#81A1C1"),
	Error:       lipgloss.Color("#BF616A"),
	Success:     lipgloss.Color("#A3BE8C"),
	Warning:     lipgloss.Color("#EBCB8B"),
	Target:      lipgloss.Color("#8FBCBB"),
	Interactor:  lipgloss.Color("#B48EAD"),
	ModePublic:  lipgloss.Color("#A3BE8C"),
	ModePrivate: lipgloss.Color("#BF616A"),
}

var Dracula = Theme{
	Name:        "dracula",
	Glamour:     "dracula",
	Primary:     lipgloss.Color("#BD93F9"),
	Secondary:   lipgloss.Color("#8BE9FD"),
	Accent:      lipgloss.Color("#F1FA8C"),
	Text:        lipgloss.Color("#F8F8F2"),
	TextDim:     lipgloss.Color("#6272A4"),
	TextBright:  lipgloss.Color("#F8F8F2"),
	Background:  lipgloss.Color("#282A36"),
	Surface:     lipgloss.Color("#44475A"),
	Border:      lipgloss.Color("#6272A4"),
	BorderFocus: lipgloss.Color("#BD93F9"),
	Link:        lipgloss.Color("#8BE9FD"),
	LinkIndex:   lipgloss.Color("#F1FA8C"),
	Heading:     lipgloss.Color("#FF79C6"),
	Error:       lipgloss.Color("#FF5555"),
	Success:     lipgloss.Color("#50FA7B"),
	Warning:     lipgloss.Color("#F1FA8C"),
	Target:      lipgloss.Color("#50FA7B"),
	Interactor:  lipgloss.Color("#FF79C6"),
	ModePublic:  lipgloss.Color("#50FA7B"),
	ModePrivate: lipgloss.Color("#FF5555"),
}

// Current is the active theme.
var Current = OpenCell

// Set changes the active theme by name.
func Set(name string) bool {
	if t, ok := themes[name]; ok {
		Current = t
		return true
	}
	return false
}

// List returns all available theme names, sorted.
func List() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
