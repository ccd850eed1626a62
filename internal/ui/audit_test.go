package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/treecopy/internal/config"
	"github.com/bamsammich/treecopy/internal/engine"
)

func TestWriteAuditLog(t *testing.T) {
	var buf bytes.Buffer
	records := []engine.CopyRecord{
		{SourcePath: "/data/src/a.txt", DestinationPath: "/backup/src/a.txt", Outcome: engine.Success},
		{SourcePath: "/data/src/b.txt", DestinationPath: "/backup/src/b.txt", Outcome: engine.IOError, Err: errors.New("disk full")},
	}

	require.NoError(t, WriteAuditLog(&buf, records, "/data/src", "/backup/src", DefaultTheme))

	out := buf.String()
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "Success")
	assert.Contains(t, out, "src/a.txt")
	assert.Contains(t, out, "IOError")
	assert.Contains(t, out, "disk full")
	assert.NotContains(t, out, "/data/")
	assert.NotContains(t, out, "\x1b[", "no escape codes when writing to a buffer")
}

func TestWriteAuditLog_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAuditLog(&buf, nil, "", "", DefaultTheme))
	assert.Empty(t, buf.String())
}

func TestThemeWithOverrides(t *testing.T) {
	green := "#00ff00"
	empty := ""
	th := DefaultTheme.WithOverrides(config.ThemeConfig{Green: &green, Red: &empty})

	assert.Equal(t, "#00ff00", string(th.Green))
	assert.Equal(t, DefaultTheme.Red, th.Red)
	assert.Equal(t, DefaultTheme.Muted, th.Muted)
}
