package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	t.Cleanup(func() { Current = OpenCell })

	assert.True(t, Set("nord"))
	assert.Equal(t, "nord", Current.Name)

	assert.False(t, Set("solarized"))
	assert.Equal(t, "nord", Current.Name, "unknown names leave the theme alone")
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{"dracula", "light", "nord", "opencell"}, List())
}

func TestThemesHaveGlamourStyle(t *testing.T) {
	for name, th := range themes {
		assert.NotEmpty(t, th.Glamour, name)
		assert.Equal(t, name, th.Name)
	}
}
