package markdown

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMarkdown_Empty(t *testing.T) {
	md, err := NewMarkdown("")
	require.NoError(t, err)
	require.NotNil(t, md)
	require.Equal(t, "", md.Source)
	require.Equal(t, "", strings.TrimSpace(string(md.Render())))
}

func TestMarkdown_Render_Sanitizes(t *testing.T) {
	md, err := NewMarkdown("hello <script>alert(1)</script> **world**")
	require.NoError(t, err)

	html := string(md.Render())
	require.NotContains(t, strings.ToLower(html), "<script")
	require.Contains(t, html, "world")

	// caching path
	html2 := string(md.Render())
	require.Equal(t, html, html2)
}

func TestMarkdown_PlainText(t *testing.T) {
	md, err := NewMarkdown("hello **world**")
	require.NoError(t, err)

	text := string(md.PlainText())
	require.Contains(t, text, "hello")
	require.Contains(t, text, "world")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abstract.md")
	require.NoError(t, os.WriteFile(path, []byte("# Abstract\n\nWe synthesize **Foley** audio."), 0o644))

	md, err := LoadFile(path)
	require.NoError(t, err)

	html := string(md.Render())
	require.Contains(t, html, "<h1")
	require.Contains(t, html, "Foley")

	_, err = LoadFile(filepath.Join(dir, "missing.md"))
	require.ErrorContains(t, err, "read markdown")
}
