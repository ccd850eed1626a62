package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/treecopy/internal/config"
	"github.com/bamsammich/treecopy/internal/engine"
)

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.IntVarP(&opts.workers, "workers", "n", engine.DefaultWorkers, "")
	fs.Var(&sizeFlag{n: &opts.bufferSize}, "buffer-size", "")
	fs.Var(&conflictFlag{mode: &opts.conflict}, "conflict", "")
	fs.BoolVar(&opts.includeSpecial, "include-special", false, "")
	fs.BoolVar(&opts.noAudit, "no-audit", false, "")
	return fs
}

func ptr[T any](v T) *T { return &v }

func TestApplyConfigDefaults_FillsUnsetFlags(t *testing.T) {
	opts := options{workers: engine.DefaultWorkers, bufferSize: engine.DefaultBufferSize, conflict: engine.Skip}
	fs := newFlagSet(&opts)
	require.NoError(t, fs.Parse([]string{"--workers", "3"}))

	err := applyConfigDefaults(fs, config.DefaultsConfig{
		Workers:        ptr(16),
		BufferSize:     ptr("1M"),
		Conflict:       ptr("overwrite"),
		IncludeSpecial: ptr(true),
		Audit:          ptr(false),
	}, &opts)
	require.NoError(t, err)

	assert.Equal(t, 3, opts.workers, "CLI flag wins over config")
	assert.Equal(t, 1<<20, opts.bufferSize)
	assert.Equal(t, engine.Overwrite, opts.conflict)
	assert.True(t, opts.includeSpecial)
	assert.True(t, opts.noAudit)
}

func TestApplyConfigDefaults_BadValues(t *testing.T) {
	opts := options{}
	fs := newFlagSet(&opts)
	require.NoError(t, fs.Parse(nil))

	err := applyConfigDefaults(fs, config.DefaultsConfig{Conflict: ptr("merge")}, &opts)
	require.ErrorIs(t, err, engine.ErrOutOfRange)

	err = applyConfigDefaults(fs, config.DefaultsConfig{BufferSize: ptr("lots")}, &opts)
	require.Error(t, err)
}

func TestFlags_ParseValues(t *testing.T) {
	opts := options{}
	fs := newFlagSet(&opts)
	require.NoError(t, fs.Parse([]string{"--buffer-size", "4K", "--conflict", "Cancel"}))

	assert.Equal(t, 4096, opts.bufferSize)
	assert.Equal(t, "4K", fs.Lookup("buffer-size").Value.String())
	assert.Equal(t, engine.Cancel, opts.conflict)

	require.Error(t, fs.Parse([]string{"--conflict", "sometimes"}))
	require.Error(t, fs.Parse([]string{"--buffer-size", "99T"}))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		outcome engine.Outcome
		want    int
	}{
		{engine.Success, exitOK},
		{engine.ErrorWhenCopying, exitCopyErrors},
		{engine.Skipped, exitCopyErrors},
		{engine.IOError, exitCopyErrors},
		{engine.SourceNotFound, exitPrecondition},
		{engine.DestinationIsFile, exitPrecondition},
		{engine.SourceEqualsDestination, exitPrecondition},
		{engine.SourceIsSubdirectoryOfDestination, exitPrecondition},
		{engine.FileExists, exitPrecondition},
		{engine.Canceled, exitCanceled},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.outcome), tt.outcome.String())
	}
}

func TestReportRecords(t *testing.T) {
	records := []engine.CopyRecord{
		{SourcePath: "a", Outcome: engine.Success},
		{SourcePath: "b", Outcome: engine.Skipped},
		{SourcePath: "c", Outcome: engine.RollbackSuccess},
	}
	assert.Len(t, reportRecords(records, true), 3)

	got := reportRecords(records, false)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].SourcePath)
}

func TestDisplayRoots(t *testing.T) {
	dir := t.TempDir()
	src, dst := displayRoots(filepath.Join(dir, "photos"), filepath.Join(dir, "backup"))
	assert.Equal(t, filepath.Join(dir, "photos"), src)
	assert.Equal(t, filepath.Join(dir, "backup", "photos"), dst)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tc.toml")
	require.NoError(t, os.WriteFile(path, []byte("[defaults]\nconflict = \"cancel\"\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Defaults.Conflict)
	assert.Equal(t, "cancel", *cfg.Defaults.Conflict)
}
