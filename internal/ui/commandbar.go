package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/cellsurf/internal/theme"
)

// CommandType identifies the kind of command bar interaction.
type CommandType int

const (
	CommandNone   CommandType = iota
	CommandEx                 // : commands
	CommandGene               // / gene name lookup
	CommandFollow             // f link follow
)

// CommandResult is emitted when a command is submitted.
type CommandResult struct {
	Type  CommandType
	Value string
}

// CommandBar handles vim-style : commands, / gene lookups, and f link following.
type CommandBar struct {
	input      textinput.Model
	active     bool
	cmdType    CommandType
	width      int
	history    []string
	historyPos int
	commands   []string // completion candidates for CommandEx
	geneNames  []string // completion candidates for CommandGene
}

// NewCommandBar creates a new command bar. commands are the names offered
// by tab completion in command mode.
func NewCommandBar(commands ...string) CommandBar {
	ti := textinput.New()
	ti.CharLimit = 256

	sorted := append([]string(nil), commands...)
	sort.Strings(sorted)

	return CommandBar{
		input:      ti,
		historyPos: -1,
		commands:   sorted,
	}
}

// SetWidth sets the command bar width.
func (c *CommandBar) SetWidth(w int) {
	c.width = w
	c.input.Width = w - 4
}

// Open activates the command bar in the given mode.
func (c *CommandBar) Open(ct CommandType) tea.Cmd {
	c.active = true
	c.cmdType = ct
	c.input.Reset()
	c.historyPos = -1

	switch ct {
	case CommandEx:
		c.input.Placeholder = "targets, search <text>, bookmarks, theme <name>..."
		c.input.Prompt = ":"
	case CommandGene:
		c.input.Placeholder = "gene name, e.g. MAP4"
		c.input.Prompt = "/"
	case CommandFollow:
		c.input.Placeholder = "link #..."
		c.input.Prompt = "f"
	}

	return c.input.Focus()
}

// Close deactivates the command bar.
func (c *CommandBar) Close() {
	c.active = false
	c.cmdType = CommandNone
	c.input.Blur()
	c.input.Reset()
}

// IsActive reports whether the command bar is open.
func (c *CommandBar) IsActive() bool {
	return c.active
}

// SetValue sets the text input value (useful for pre-filling commands).
func (c *CommandBar) SetValue(val string) {
	c.input.SetValue(val)
	c.input.SetCursor(len(val))
}

// Value returns the current input.
func (c *CommandBar) Value() string {
	return c.input.Value()
}

// Type returns the current command type.
func (c *CommandBar) Type() CommandType {
	return c.cmdType
}

// Submit returns the command result and adds to history.
func (c *CommandBar) Submit() CommandResult {
	val := strings.TrimSpace(c.input.Value())
	result := CommandResult{
		Type:  c.cmdType,
		Value: val,
	}

	if val != "" && c.cmdType == CommandEx {
		c.history = append(c.history, val)
	}

	c.Close()
	return result
}

// SetGeneNames sets the target names offered in gene lookup mode.
func (c *CommandBar) SetGeneNames(names []string) {
	sorted := append([]string(nil), names...)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
	})
	c.geneNames = sorted
}

// Complete extends the word being typed to the longest prefix it shares
// with the candidates: command names in command mode, target names
// (ignoring case) in gene lookup mode. It reports whether the input
// changed.
func (c *CommandBar) Complete() bool {
	val := c.input.Value()
	if val == "" || strings.Contains(val, " ") {
		return false
	}

	var prefix string
	switch c.cmdType {
	case CommandEx:
		matches := matchPrefix(c.commands, val, false)
		if len(matches) == 0 {
			return false
		}
		prefix = commonPrefix(matches)
		if len(matches) == 1 {
			prefix += " "
		}
	case CommandGene:
		matches := matchPrefix(c.geneNames, val, true)
		if len(matches) == 0 {
			return false
		}
		prefix = commonPrefix(matches)
		if len(prefix) == len(val) {
			return false
		}
	default:
		return false
	}

	if prefix == val {
		return false
	}
	c.SetValue(prefix)
	return true
}

// Suggestions returns up to n gene names starting with the current input.
func (c *CommandBar) Suggestions(n int) []string {
	val := strings.TrimSpace(c.input.Value())
	if c.cmdType != CommandGene || val == "" {
		return nil
	}
	matches := matchPrefix(c.geneNames, val, true)
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

func matchPrefix(candidates []string, val string, fold bool) []string {
	if fold {
		val = strings.ToLower(val)
	}
	var matches []string
	for _, name := range candidates {
		cmp := name
		if fold {
			cmp = strings.ToLower(name)
		}
		if strings.HasPrefix(cmp, val) {
			matches = append(matches, name)
		}
	}
	return matches
}

// commonPrefix returns the longest prefix of matches[0] shared, ignoring
// case, by every match.
func commonPrefix(matches []string) string {
	prefix := matches[0]
	for _, m := range matches[1:] {
		for len(prefix) > 0 && !strings.HasPrefix(strings.ToLower(m), strings.ToLower(prefix)) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}

// Update processes messages for the command bar.
func (c *CommandBar) Update(msg tea.Msg) (*CommandBar, tea.Cmd) {
	if !c.active {
		return c, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			c.Close()
			return c, nil
		case tea.KeyEnter:
			// Handled by the parent (app.go) to process the result.
			return c, nil
		case tea.KeyTab:
			c.Complete()
			return c, nil
		case tea.KeyUp:
			// History navigation for ex commands.
			if c.cmdType == CommandEx && len(c.history) > 0 {
				if c.historyPos < len(c.history)-1 {
					c.historyPos++
				}
				c.input.SetValue(c.history[len(c.history)-1-c.historyPos])
			}
			return c, nil
		case tea.KeyDown:
			if c.cmdType == CommandEx && c.historyPos > 0 {
				c.historyPos--
				c.input.SetValue(c.history[len(c.history)-1-c.historyPos])
			} else if c.historyPos == 0 {
				c.historyPos = -1
				c.input.Reset()
			}
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// View renders the command bar.
func (c *CommandBar) View() string {
	if !c.active {
		return ""
	}

	t := theme.Current

	barStyle := lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface).
		Width(c.width)

	line := c.input.View()
	if hints := c.Suggestions(3); len(hints) > 0 {
		line += lipgloss.NewStyle().
			Foreground(t.TextDim).
			Render("  " + strings.Join(hints, " · "))
	}
	return barStyle.Render(line)
}
