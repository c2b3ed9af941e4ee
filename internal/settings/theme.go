package settings

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type palette struct {
	primary string
	hover   string
	accent  string
}

var colorSchemes = map[string]palette{
	"blue":   {primary: "#3b82f6", hover: "#2563eb", accent: "#60a5fa"},
	"purple": {primary: "#8b5cf6", hover: "#7c3aed", accent: "#a78bfa"},
	"green":  {primary: "#10b981", hover: "#059669", accent: "#34d399"},
	"orange": {primary: "#f97316", hover: "#ea580c", accent: "#fb923c"},
	"pink":   {primary: "#ec4899", hover: "#db2777", accent: "#f472b6"},
}

type surface struct {
	background string
	surface    string
	border     string
	text       string
	muted      string
}

var themes = map[string]surface{
	"dark":  {background: "#0f172a", surface: "#1e293b", border: "#334155", text: "#f8fafc", muted: "#94a3b8"},
	"light": {background: "#ffffff", surface: "#f1f5f9", border: "#e2e8f0", text: "#0f172a", muted: "#64748b"},
}

// ResolveTheme maps a stored theme to "dark" or "light". "system" and
// unknown values resolve to dark.
func ResolveTheme(theme string) string {
	if strings.EqualFold(theme, "light") {
		return "light"
	}
	return "dark"
}

// Variables computes the CSS custom properties for s.
func Variables(s Settings) map[string]string {
	th := themes[ResolveTheme(s.Theme)]

	pal, ok := colorSchemes[strings.ToLower(s.ColorScheme)]
	if !ok {
		pal = colorSchemes["blue"]
	}

	return map[string]string{
		"--color-background":    th.background,
		"--color-surface":       th.surface,
		"--color-border":        th.border,
		"--color-text":          th.text,
		"--color-text-muted":    th.muted,
		"--color-primary":       pal.primary,
		"--color-primary-hover": pal.hover,
		"--color-accent":        pal.accent,
	}
}

// Sheet holds the variables most recently applied and renders them for the UI.
type Sheet struct {
	mu    sync.RWMutex
	theme string
	vars  map[string]string
}

func NewSheet() *Sheet {
	sh := &Sheet{}
	sh.Apply(Defaults())
	return sh
}

func (sh *Sheet) Apply(s Settings) {
	vars := Variables(s)
	theme := ResolveTheme(s.Theme)

	sh.mu.Lock()
	sh.vars = vars
	sh.theme = theme
	sh.mu.Unlock()
}

// Theme returns the value for the document's data-theme attribute.
func (sh *Sheet) Theme() string {
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.theme
}

func (sh *Sheet) Variables() map[string]string {
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	out := make(map[string]string, len(sh.vars))
	for k, v := range sh.vars {
		out[k] = v
	}
	return out
}

// CSS renders the variables as a :root block, keys sorted.
func (sh *Sheet) CSS() string {
	vars := sh.Variables()
	theme := sh.Theme()

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, ":root[data-theme=%q], :root {\n", theme)
	fmt.Fprintf(&b, "  color-scheme: %s;\n", theme)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %s;\n", k, vars[k])
	}
	b.WriteString("}\n")
	return b.String()
}
