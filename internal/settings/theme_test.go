package settings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariables_ThemeAndScheme(t *testing.T) {
	s := Defaults()
	s.Theme = "light"
	s.ColorScheme = "purple"

	vars := Variables(s)
	assert.Equal(t, "#ffffff", vars["--color-background"])
	assert.Equal(t, "#8b5cf6", vars["--color-primary"])
}

func TestVariables_Fallbacks(t *testing.T) {
	s := Defaults()
	s.Theme = "system"
	s.ColorScheme = "neon"

	vars := Variables(s)
	assert.Equal(t, "#0f172a", vars["--color-background"])
	assert.Equal(t, "#3b82f6", vars["--color-primary"])
}

func TestSheet_ApplyAndRender(t *testing.T) {
	sh := NewSheet()
	assert.Equal(t, "dark", sh.Theme())

	s := Defaults()
	s.Theme = "light"
	s.ColorScheme = "orange"
	sh.Apply(s)

	css := sh.CSS()
	assert.Equal(t, "light", sh.Theme())
	assert.True(t, strings.HasPrefix(css, `:root[data-theme="light"], :root {`))
	assert.Contains(t, css, "--color-primary: #f97316;")
	assert.Contains(t, css, "color-scheme: light;")
	assert.Less(t, strings.Index(css, "--color-accent"), strings.Index(css, "--color-text"))
}
