package ui

import (
	"strings"
	"testing"
)

func TestPalette(t *testing.T) {
	p := NewPalette("#000000", "#000000", "#000000", "#000000", "#000000")

	for name, got := range map[string]string{
		"Title": p.Title("title"),
		"OK":    p.OK("ok"),
		"Err":   p.Err("err"),
		"Warn":  p.Warn("warn"),
		"Help":  p.Help("help"),
	} {
		if !strings.Contains(got, strings.ToLower(name)) {
			t.Errorf("%s: rendered text lost its content: %q", name, got)
		}
	}

	if got := p.Check("username", true); !strings.Contains(got, "✓") || !strings.Contains(got, "username") {
		t.Errorf("unexpected passing check: %q", got)
	}
	if got := p.Check("email", false); !strings.Contains(got, "✗") {
		t.Errorf("unexpected failing check: %q", got)
	}
}
