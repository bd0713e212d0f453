// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/rtlsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const system = `
timebase: 100MHz
until: 100
clocks:
  - {name: sys, period: 10, negedge_offset: 5}
instances:
  - {name: cnt, type: counter, config: {width: 8, reset_value: 42}, connect: clk=sys}
`

func writeConfig(t *testing.T, s string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "system.yaml")
	require.NoError(t, os.WriteFile(name, []byte(s), 0o644))
	return name
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	o := &runOptions{
		config:   writeConfig(t, system),
		workers:  2,
		logLevel: "error",
		dump:     true,
		graph:    filepath.Join(dir, "state.dot"),
	}
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, o))

	// edges at 0, 5, ... 95
	first, rest, ok := bytes.Cut(out.Bytes(), []byte("\n"))
	require.True(t, ok)
	assert.Contains(t, string(first), "20 steps, 95 ticks")

	var snap rtlsim.Snapshot
	require.NoError(t, yaml.Unmarshal(rest, &snap))
	assert.Equal(t, "stopped", snap.State)
	assert.Equal(t, rtlsim.Time(95), snap.Time)
	require.Len(t, snap.Instances, 1)
	assert.Equal(t, "cnt", snap.Instances[0].Name)
	var count string
	for _, st := range snap.Instances[0].State {
		if st.Name == "count" {
			count = st.Value
		}
	}
	assert.Equal(t, "8'h2a", count)

	info, err := os.Stat(o.graph)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestRun_until(t *testing.T) {
	o := &runOptions{config: writeConfig(t, system), until: 20, workers: 1, logLevel: "error"}
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, o))
	assert.Contains(t, out.String(), "4 steps, 15 ticks")
}

func TestRun_errors(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), &out, &runOptions{config: writeConfig(t, system), logLevel: "loud"})
	assert.ErrorContains(t, err, "invalid log level")

	err = run(context.Background(), &out, &runOptions{config: filepath.Join(t.TempDir(), "none.yaml"), logLevel: "error"})
	assert.Error(t, err)

	noUntil := writeConfig(t, "clocks: [{name: sys, period: 2}]")
	err = run(context.Background(), &out, &runOptions{config: noUntil, workers: 1, logLevel: "error"})
	assert.ErrorContains(t, err, "no simulation time limit")
}

func TestTypesCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"types"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "alu\ncounter\ndmux\ngpio\nmemory\nmux\nregister\n", out.String())
}

func TestRunCmd_requiresConfig(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"run"})
	assert.Error(t, root.Execute())
}
