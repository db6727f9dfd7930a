package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyasagar/cellsurf/internal/mode"
	"github.com/vidyasagar/cellsurf/internal/storage"
)

func TestCommandBarComplete(t *testing.T) {
	c := NewCommandBar("targets", "target", "theme", "tabnew", "tabclose")
	c.Open(CommandEx)

	c.SetValue("ta")
	assert.False(t, c.Complete(), "tab* and target* share only the typed prefix")
	assert.Equal(t, "ta", c.Value())

	c.SetValue("targ")
	assert.True(t, c.Complete())
	assert.Equal(t, "target", c.Value())

	c.SetValue("th")
	assert.True(t, c.Complete())
	assert.Equal(t, "theme ", c.Value())

	c.SetValue("zz")
	assert.False(t, c.Complete())

	c.SetValue("theme n")
	assert.False(t, c.Complete(), "arguments are not completed")
}

func TestCommandBarCompleteOnlyInExMode(t *testing.T) {
	c := NewCommandBar("targets")
	c.Open(CommandGene)
	c.SetValue("ta")
	assert.False(t, c.Complete())
}

func TestCommandBarGeneCompletion(t *testing.T) {
	c := NewCommandBar()
	c.SetGeneNames([]string{"MAP7", "TUBB", "MAP4", "map7d1"})
	c.Open(CommandGene)

	c.SetValue("tu")
	assert.True(t, c.Complete())
	assert.Equal(t, "TUBB", c.Value(), "case is taken from the name")

	c.SetValue("MAP")
	assert.False(t, c.Complete())
	assert.Equal(t, []string{"MAP4", "MAP7", "map7d1"}, c.Suggestions(5))
	assert.Equal(t, []string{"MAP4", "MAP7"}, c.Suggestions(2))
	assert.Contains(t, c.View(), "MAP4 · MAP7")

	c.SetValue("map7")
	assert.False(t, c.Complete(), "MAP7 is a prefix of map7d1")

	c.SetValue("")
	assert.Nil(t, c.Suggestions(5))
}

func TestCommandBarSubmit(t *testing.T) {
	c := NewCommandBar()
	c.Open(CommandGene)
	c.SetValue("  MAP4 ")

	res := c.Submit()
	assert.Equal(t, CommandGene, res.Type)
	assert.Equal(t, "MAP4", res.Value)
	assert.False(t, c.IsActive())
	assert.Equal(t, CommandNone, c.Type())
}

func TestTabBar(t *testing.T) {
	tb := NewTabBar()
	tb.SetWidth(120)
	first := tb.ActiveTab().ID

	tb.NewTab()
	second := tb.ActiveTab().ID
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, tb.Count())

	tb.SetTitle(first, "MAP4 CID000828")
	tb.SetCellLine(first, "CID000828")
	tb.SetLocation(first, "/target/CID000828")

	require.True(t, tb.Select(0))
	assert.Equal(t, "MAP4 CID000828", tb.ActiveTab().Title)
	assert.Equal(t, "/target/CID000828", tb.ActiveTab().Location)
	assert.Contains(t, tb.View(), "CID000828")

	assert.False(t, tb.Select(5))
	assert.Equal(t, 0, tb.Active())

	tb.SetActiveTitle("a title that is much longer than thirty characters")
	assert.Len(t, tb.ActiveTab().Title, 30)

	assert.True(t, tb.CloseCurrentTab())
	assert.Equal(t, second, tb.ActiveTab().ID)
	assert.False(t, tb.CloseCurrentTab(), "the last tab stays")
}

func testVisits() []storage.Visit {
	now := time.Now()
	return []storage.Visit{
		{ID: 3, Path: "/targets", Title: "Targets", SessionID: "s2", VisitedAt: now},
		{ID: 2, Path: "/target/CID000828", Title: "MAP4 CID000828", SessionID: "s2", VisitedAt: now.Add(-time.Minute)},
		{ID: 1, Path: "/", Title: "OpenCell", SessionID: "s1", VisitedAt: now.Add(-time.Hour)},
	}
}

func TestHistoryPanel(t *testing.T) {
	hp := NewHistoryPanel()
	hp.SetSize(40, 20)
	hp.SetEntries(testVisits(), "s2")
	hp.Show()

	require.Equal(t, 3, hp.Len())
	assert.Equal(t, int64(3), hp.SelectedEntry().ID)

	hp.CursorDown()
	assert.Equal(t, "/target/CID000828", hp.SelectedEntry().Path)

	hp.GotoBottom()
	assert.Equal(t, 2, hp.SelectedIndex())

	assert.False(t, hp.HandleGKey())
	assert.True(t, hp.HandleGKey())
	assert.Equal(t, 0, hp.SelectedIndex())

	hp.GotoBottom()
	hp.RemoveSelected()
	assert.Equal(t, 2, hp.Len())
	assert.Equal(t, 1, hp.SelectedIndex())

	view := hp.View()
	assert.Contains(t, view, "Targets")
	assert.Contains(t, view, "• ", "current session visits are marked")
}

func TestHistoryPanelEmpty(t *testing.T) {
	hp := NewHistoryPanel()
	assert.Nil(t, hp.SelectedEntry())
	hp.RemoveSelected()
	assert.Equal(t, 0, hp.Len())
}

func TestLeaderPanelBinds(t *testing.T) {
	pub, priv := NewLeaderPanel(false), NewLeaderPanel(true)
	assert.True(t, pub.Binds("/"))
	assert.True(t, pub.Binds("T"))
	assert.False(t, pub.Binds("d"), "internal shortcuts are private")
	assert.True(t, priv.Binds("d"))
	assert.False(t, priv.Binds("z"))

	pub.SetSize(100, 40)
	pub.Show()
	assert.NotContains(t, pub.View(), "Internal")
	priv.SetSize(100, 40)
	priv.Show()
	assert.Contains(t, priv.View(), "Internal")
}

func TestPageViewportFind(t *testing.T) {
	rows := make([]string, 20)
	for i := range rows {
		rows[i] = fmt.Sprintf("row %d", i)
	}
	rows[2] = "MAP4 CID000828"
	rows[15] = "binds map4"

	pv := NewPageViewport()
	assert.Contains(t, pv.View(), "Initializing")
	pv.SetSize(40, 5)
	assert.Contains(t, pv.View(), "Quick Start")

	pv.SetContent(strings.Join(rows, "\n"))
	assert.Equal(t, "TOP", pv.ScrollInfo())

	assert.Equal(t, 2, pv.Find("Map4"))
	assert.Equal(t, "Map4 1/2", pv.MatchInfo())
	assert.Equal(t, 2, pv.CurrentMatchLine())
	assert.Equal(t, 0, pv.YOffset(), "the first match is already visible")
	assert.Contains(t, pv.View(), "▶ MAP4")

	require.True(t, pv.NextMatch())
	assert.Equal(t, 15, pv.CurrentMatchLine())
	assert.Greater(t, pv.YOffset(), 10)
	assert.Contains(t, pv.View(), "▶ binds map4")

	require.True(t, pv.NextMatch())
	assert.Equal(t, "Map4 1/2", pv.MatchInfo(), "wraps around")
	require.True(t, pv.PrevMatch())
	assert.Equal(t, "Map4 2/2", pv.MatchInfo())

	assert.Equal(t, 0, pv.Find("TUBB"))
	assert.Equal(t, "TUBB 0/0", pv.MatchInfo())
	assert.False(t, pv.NextMatch())

	pv.Find("row 1")
	pv.SetContent("a new page")
	assert.Empty(t, pv.MatchInfo(), "a new page clears the find")
	assert.NotContains(t, pv.View(), "▌")

	pv.Find("page")
	pv.ClearFind()
	assert.Equal(t, -1, pv.CurrentMatchLine())
}

func TestStatusBar(t *testing.T) {
	sb := NewStatusBar(mode.Private)
	sb.SetWidth(100)
	sb.SetCellLine("CID000828")
	sb.SetTitle("MAP4 CID000828")

	view := sb.View()
	assert.Contains(t, view, "NORMAL")
	assert.Contains(t, view, "private")
	assert.Contains(t, view, "CID000828")
	assert.NotContains(t, view, "‹")

	sb.SetHistory(true, false)
	assert.Contains(t, sb.View(), "‹›")

	sb.SetError("boom")
	assert.Equal(t, "boom", sb.Message())
	assert.Contains(t, sb.View(), "boom")
}

func TestURLBarFocusPrefillsLocation(t *testing.T) {
	u := NewURLBar()
	u.SetWidth(80)
	u.SetLocation("/targets")
	assert.Equal(t, "/targets", u.Location())

	u.Focus()
	assert.True(t, u.IsActive())
	assert.Equal(t, "/targets", u.Value())

	u.SetLocation("/gallery")
	assert.Equal(t, "/targets", u.Value(), "typing is not overwritten")

	u.Blur()
	assert.False(t, u.IsActive())
}
