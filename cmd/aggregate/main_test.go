package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/aggregate"
)

func writeResults(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestRun_PrintsTotal(t *testing.T) {
	dir := writeResults(t, map[string]string{
		"a.txt": "1000.25",
		"b.txt": "2000.50\n",
		"c.log": "5",
	})

	var out bytes.Buffer
	err := run(context.Background(), aggregate.DirSource{Dir: dir}, 2, &out, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "3000.75\n", out.String())
}

func TestRun_Malformed(t *testing.T) {
	dir := writeResults(t, map[string]string{"a.txt": "oops"})

	var out bytes.Buffer
	err := run(context.Background(), aggregate.DirSource{Dir: dir}, 1, &out, zerolog.Nop())
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestRootCmd_Dir(t *testing.T) {
	t.Setenv("RESULT_BUCKET", "")
	t.Setenv("LOG_LEVEL", "error")
	dir := writeResults(t, map[string]string{"a.txt": "7", "b.txt": "8"})

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--dir", dir})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "15\n", out.String())
}

func TestRootCmd_DirOverridesEnvBucket(t *testing.T) {
	t.Setenv("RESULT_BUCKET", "reserves")
	t.Setenv("RESULT_DIR", "")
	t.Setenv("LOG_LEVEL", "error")
	dir := writeResults(t, map[string]string{"a.txt": "1.5"})

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--dir", dir})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "1.5\n", out.String())
}

func TestRootCmd_DirFromEnv(t *testing.T) {
	dir := writeResults(t, map[string]string{"a.txt": "2", "b.txt": "3"})
	t.Setenv("RESULT_BUCKET", "")
	t.Setenv("RESULT_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "5\n", out.String())
}

func TestRootCmd_RequiresOneSource(t *testing.T) {
	t.Setenv("RESULT_BUCKET", "")
	t.Setenv("RESULT_DIR", "")

	for _, args := range [][]string{
		{},
		{"--dir", "x", "--bucket", "y"},
		{"positional"},
	} {
		cmd := newRootCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), "args %v", args)
	}
}
