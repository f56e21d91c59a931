package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Health("math", true)
	p.Health("data", false)
	p.Answer("**125**\n")
	p.Error(errors.New("boom"))
	p.Info("%d services", 3)

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "a buffer is not a terminal")
	assert.Contains(t, out, "✓ math: healthy")
	assert.Contains(t, out, "✗ data: unavailable")
	assert.Contains(t, out, "**125**\n")
	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, "3 services")
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	NewPlainPrinter(&buf).Banner()

	lines := strings.Split(strings.Trim(buf.String(), "\n"), "\n")
	assert.Len(t, lines, len(bannerLines))
	assert.Len(t, bannerColors, len(bannerLines))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
