// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/snapdiff/internal/config"
	"github.com/tfctl/snapdiff/internal/differ"
	"github.com/tfctl/snapdiff/internal/source"
)

var (
	beforeFile = filepath.Join("testdata", "before.json")
	afterFile  = filepath.Join("testdata", "after.json")
)

// isolate keeps the user's config file and cache out of the test. cfgFile may
// be empty for "no config file".
func isolate(t *testing.T, cfgFile string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvVar, cfgFile)
	t.Setenv("SNAPDIFF_CACHE", "0")
	for _, v := range []string{"SNAPDIFF_ZONE", "SNAPDIFF_OUTPUT", "SNAPDIFF_IGNORE", "SNAPDIFF_ROOT", "SNAPDIFF_COLOR"} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })
}

// run executes snapdiff with args and returns what it wrote to stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	full := PreserveStdinArgs(append([]string{"snapdiff"}, args...))

	app, err := InitApp(context.Background(), full)
	require.NoError(t, err)

	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	app.Reader = strings.NewReader(stdin)

	err = app.Run(context.Background(), full)
	return out.String(), err
}

func TestDiffJSON(t *testing.T) {
	isolate(t, "")

	out, err := run(t, "", "diff", beforeFile, afterFile, "--zone", "Europe/Kyiv", "--output", "json")
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join("testdata", "diff.json"))
	require.NoError(t, err)
	assert.JSONEq(t, string(want), out)
}

func TestDiffText(t *testing.T) {
	isolate(t, "")

	out, err := run(t, "", "diff", beforeFile, afterFile, "--titles")
	require.NoError(t, err)
	for _, want := range []string{"FIELD", "status", "closed", "updated", "2021-03-01T08:15:30+0000", "candidates", "removed"} {
		assert.Contains(t, out, want)
	}
}

func TestDiffExitCode(t *testing.T) {
	isolate(t, "")

	_, err := run(t, "", "diff", beforeFile, afterFile, "--exit-code", "-o", "json")
	assert.ErrorIs(t, err, ErrDifferent)

	_, err = run(t, "", "diff", beforeFile, beforeFile, "--exit-code", "-o", "json")
	assert.NoError(t, err)

	_, err = run(t, "", "diff", beforeFile, afterFile, "-o", "json")
	assert.NoError(t, err, "differences are not an error without --exit-code")
}

func TestDiffIgnore(t *testing.T) {
	isolate(t, "")

	out, err := run(t, "", "diff", beforeFile, afterFile, "-o", "json", "--ignore", "status,owner")
	require.NoError(t, err)

	var got differ.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	_, ok := got.MetaItem("status")
	assert.False(t, ok)
	_, ok = got.MetaItem("owner")
	assert.False(t, ok)
	_, ok = got.MetaItem("headcount")
	assert.True(t, ok)
}

func TestDiffConfigFile(t *testing.T) {
	isolate(t, filepath.Join("testdata", "snapdiff.yaml"))

	out, err := run(t, "", "diff", beforeFile, afterFile)
	require.NoError(t, err)

	var got differ.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got), "diff.output comes from the config file")

	item, ok := got.MetaItem("updated")
	require.True(t, ok)
	assert.Equal(t, "2021-03-01T10:15:30+0200", item.Before, "zone comes from the config file")

	_, ok = got.MetaItem("owner")
	assert.False(t, ok, "diff.ignore comes from the config file")

	out, err = run(t, "", "diff", beforeFile, afterFile, "--output", "yaml", "--zone", "UTC")
	require.NoError(t, err)
	assert.Contains(t, out, "2021-03-01T08:15:30+0000", "flags beat the config file")
}

func TestDiffStdin(t *testing.T) {
	isolate(t, "")

	before, err := os.ReadFile(beforeFile)
	require.NoError(t, err)

	out, err := run(t, string(before), "diff", "-", afterFile, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"removed"`)

	_, err = run(t, "", "diff", "-", "-")
	assert.Error(t, err)
}

func TestDiffStdinAfter(t *testing.T) {
	isolate(t, "")

	after, err := os.ReadFile(afterFile)
	require.NoError(t, err)

	out, err := run(t, string(after), "diff", beforeFile, "-", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"removed"`)
}

func TestPreserveStdinArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "before from stdin",
			args:     []string{"snapdiff", "diff", "-", "b.json"},
			expected: []string{"snapdiff", "diff", source.StdinArg, "b.json"},
		},
		{
			name:     "after from stdin with flags",
			args:     []string{"snapdiff", "delta", "a.json", "-", "-o", "json"},
			expected: []string{"snapdiff", "delta", "a.json", source.StdinArg, "-o", "json"},
		},
		{
			name:     "no stdin",
			args:     []string{"snapdiff", "diff", "a.json", "b.json", "--zone", "UTC"},
			expected: []string{"snapdiff", "diff", "a.json", "b.json", "--zone", "UTC"},
		},
		{
			name:     "subcommand position untouched",
			args:     []string{"snapdiff", "-"},
			expected: []string{"snapdiff", "-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]string{}, tt.args...)
			assert.Equal(t, tt.expected, PreserveStdinArgs(tt.args))
			assert.Equal(t, in, tt.args, "input is not modified")
		})
	}
}

func TestDiffRoot(t *testing.T) {
	isolate(t, "")
	dir := t.TempDir()

	wrap := func(name, file string) string {
		doc, err := os.ReadFile(file)
		require.NoError(t, err)
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(`{"data":{"items":[`+string(doc)+`]}}`), 0o600))
		return p
	}
	before := wrap("before.json", beforeFile)
	after := wrap("after.json", afterFile)

	out, err := run(t, "", "diff", before, after, "--root", "data.items[0]", "-o", "json", "-z", "Europe/Kyiv")
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("testdata", "diff.json"))
	require.NoError(t, err)
	assert.JSONEq(t, string(want), out)

	_, err = run(t, "", "diff", before, after, "--root", "data.nope")
	assert.Error(t, err)
}

func TestDiffInvalidInput(t *testing.T) {
	isolate(t, "")
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"meta":{}}`), 0o600))

	_, err := run(t, "", "diff", bad, afterFile)
	require.Error(t, err)
	assert.ErrorIs(t, err, differ.ErrInvalidInput)
}

func TestDiffFlagValidation(t *testing.T) {
	isolate(t, "")

	_, err := run(t, "", "diff", beforeFile, afterFile, "--output", "xml")
	assert.Error(t, err)

	_, err = run(t, "", "diff", beforeFile, afterFile, "--zone", "Mars/Olympus")
	assert.Error(t, err)

	_, err = run(t, "", "diff", beforeFile)
	assert.Error(t, err, "a single file is not enough")
}

func writeSnapshots(t *testing.T, dir string) {
	t.Helper()
	now := time.Now()
	for i, f := range []string{beforeFile, afterFile} {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		p := filepath.Join(dir, filepath.Base(f))
		require.NoError(t, os.WriteFile(p, data, 0o600))
		ts := now.Add(time.Duration(i-2) * time.Hour)
		require.NoError(t, os.Chtimes(p, ts, ts))
	}
}

func TestDiffDirectoryNonInteractive(t *testing.T) {
	isolate(t, "")
	dir := t.TempDir()
	writeSnapshots(t, dir)

	prev := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = prev })

	out, err := run(t, "", "diff", dir, "-o", "json", "-z", "Europe/Kyiv")
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join("testdata", "diff.json"))
	require.NoError(t, err)
	assert.JSONEq(t, string(want), out, "the older snapshot is before")
}

func TestDiffDirectoryPicker(t *testing.T) {
	isolate(t, "")
	dir := t.TempDir()
	writeSnapshots(t, dir)

	prevTerm, prevSelect := isTerminal, selectSnapshots
	t.Cleanup(func() { isTerminal, selectSnapshots = prevTerm, prevSelect })
	isTerminal = func() bool { return true }

	var offered []source.Entry
	selectSnapshots = func(items []source.Entry) ([]source.Entry, error) {
		offered = items
		return nil, nil
	}

	out, err := run(t, "", "diff", dir)
	require.NoError(t, err, "quitting the picker is not an error")
	assert.Empty(t, out)
	assert.Len(t, offered, 2)

	selectSnapshots = func(items []source.Entry) ([]source.Entry, error) {
		return []source.Entry{items[0], items[1]}, nil
	}
	out, err = run(t, "", "diff", dir, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"added"`)
}

func TestDiffDirectoryTooFew(t *testing.T) {
	isolate(t, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "only.json"), []byte("{}"), 0o600))

	_, err := run(t, "", "diff", dir)
	assert.ErrorContains(t, err, "at least two")
}

func TestDelta(t *testing.T) {
	isolate(t, "")

	out, err := run(t, "", "delta", beforeFile, afterFile)
	require.NoError(t, err)
	assert.Contains(t, out, "closed")

	out, err = run(t, "", "delta", beforeFile, beforeFile, "--exit-code")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = run(t, "", "delta", beforeFile, afterFile, "--exit-code")
	assert.ErrorIs(t, err, ErrDifferent)
}

func TestDeltaIgnore(t *testing.T) {
	isolate(t, filepath.Join("testdata", "snapdiff.yaml"))

	out, err := run(t, "", "delta", beforeFile, afterFile, "--ignore", "meta")
	require.NoError(t, err)
	assert.NotContains(t, out, "closed")
	assert.Contains(t, out, "hired")

	out, err = run(t, "", "delta", beforeFile, afterFile)
	require.NoError(t, err)
	assert.NotContains(t, out, "hired", "delta.ignore comes from the config file")
	assert.Contains(t, out, "closed")
}

func TestCompletion(t *testing.T) {
	isolate(t, "")

	out, err := run(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _snapdiff snapdiff")

	out, err = run(t, "", "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef snapdiff")

	t.Setenv("SHELL", "/bin/fish")
	_, err = run(t, "", "completion")
	assert.Error(t, err)
}

func TestGetMeta(t *testing.T) {
	isolate(t, "")
	assert.Empty(t, GetMeta(nil).Args)

	app, err := InitApp(context.Background(), []string{"snapdiff", "diff"})
	require.NoError(t, err)
	diff := app.Command("diff")
	require.NotNil(t, diff)
	assert.Equal(t, []string{"snapdiff", "diff"}, GetMeta(diff).Args)
}
