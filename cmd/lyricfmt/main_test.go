package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestFormatStdin(t *testing.T) {
	out, errOut, err := runCLI(t, "im gonna cuz i cant")
	require.NoError(t, err)
	assert.Equal(t, "I'm gonna 'cause I can't\n", out)
	assert.Equal(t, "L70:0  V10:0  #nums:0\n", errOut)
}

func TestFormatFlags(t *testing.T) {
	out, _, err := runCLI(t, "Twenty one reasons", "-aggressive=false")
	require.NoError(t, err)
	assert.Equal(t, "Twenty one reasons\n", out)

	out, _, err = runCLI(t, "[Припев]\nя люблю тебя", "-lang", "ru", "-")
	require.NoError(t, err)
	assert.Equal(t, "#CHORUS\nЯ люблю тебя\n", out)

	_, _, err = runCLI(t, "hi", "-lang", "klingon")
	assert.EqualError(t, err, `unknown language "klingon"`)
}

func TestFormatFileToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "song.txt")
	out := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(in, []byte("3 little birds"), 0644))

	stdout, _, err := runCLI(t, "", "-o", out, in)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Three little birds\n", string(data))
}

func TestConfigAndFlags(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format:\n  lang: EN\n  aggressive_numbers: false\n  fix_backing_vocals: true\n"), 0644))

	out, _, err := runCLI(t, "Twenty one reasons", "-config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Twenty one reasons\n", out)

	// explicit flags win over the file
	out, _, err = runCLI(t, "Twenty one reasons", "-config", cfg, "-aggressive")
	require.NoError(t, err)
	assert.Equal(t, "21 reasons\n", out)
}

func TestStoplistFile(t *testing.T) {
	list := filepath.Join(t.TempDir(), "stoplist.txt")
	require.NoError(t, os.WriteFile(list, []byte("sarah\n"), 0644))

	out, _, err := runCLI(t, "me and Sarah\ni know sarah")
	require.NoError(t, err)
	assert.Equal(t, "Me and Sarah\nI know Sarah\n", out)

	out, _, err = runCLI(t, "me and Sarah\ni know sarah", "-stoplist", list)
	require.NoError(t, err)
	assert.Equal(t, "Me and Sarah\nI know sarah\n", out)
}

func TestCheckMode(t *testing.T) {
	out, _, err := runCLI(t, "All good here", "-check")
	require.NoError(t, err)
	assert.Equal(t, "L70:0  V10:0  #nums:0\n", out)

	out, _, err = runCLI(t, "I have 2 dogs", "-check")
	assert.ErrorIs(t, err, errIssues)
	assert.Contains(t, out, "#nums:1")
	assert.Contains(t, out, "- line 1, col 8: 2 (I have 2 dogs)")
}

func TestBadInput(t *testing.T) {
	_, _, err := runCLI(t, "", "https://example.com/song")
	assert.ErrorContains(t, err, "unsupported URL source")

	_, _, err = runCLI(t, "", "a.txt", "b.txt")
	assert.ErrorContains(t, err, "expected at most one input")

	_, _, err = runCLI(t, "", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
