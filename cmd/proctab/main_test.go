package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/proctab/model/proc"
)

func TestRun(t *testing.T) {
	testCases := []struct {
		description string
		options     *options
		expected    string
		expectErr   error
	}{
		{description: "defaults", options: &options{}, expected: "Process ID: 1, Name: init\n"},
		{description: "boot line", options: &options{bootLine: "1:systemd 5:shell", capacity: 2}, expected: "Process ID: 1, Name: systemd\n"},
		{description: "boot line too long", options: &options{bootLine: "1:init 5:shell 6:getty", capacity: 2}, expectErr: proc.ErrInvalidCapacity},
		{description: "invalid name", options: &options{bootLine: "1:a-very-long-init-name"}, expectErr: proc.ErrInvalidName},
		{description: "capacity above limit", options: &options{capacity: proc.MaxCapacity + 1}, expectErr: proc.ErrInvalidCapacity},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			var stdout bytes.Buffer
			err := run(context.Background(), tc.options, &stdout)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, stdout.String())
		})
	}
}

func TestRun_Snapshots(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	configURL := filepath.Join(dir, "proctab.yaml")
	require.NoError(t, os.WriteFile(configURL, []byte("table:\n  capacity: 3\n"), 0644))
	snapshots := filepath.Join(dir, "snapshots")

	require.NoError(t, run(ctx, &options{configURL: configURL, snapshots: snapshots}, &bytes.Buffer{}))
	entries, err := os.ReadDir(snapshots)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	firstID := strings.TrimSuffix(entries[0].Name(), ".json")

	var stdout bytes.Buffer
	require.NoError(t, run(ctx, &options{configURL: configURL, snapshots: snapshots, bootLine: "7:cron", diffID: firstID}, &stdout))
	assert.Contains(t, stdout.String(), "+[1] Process ID: 7, Name: cron")
	assert.Contains(t, stdout.String(), "1 added, 0 removed")

	err = run(ctx, &options{diffID: firstID}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_Trace(t *testing.T) {
	traceFile := filepath.Join(t.TempDir(), "spans.txt")
	require.NoError(t, run(context.Background(), &options{traceFile: traceFile}, &bytes.Buffer{}))
	data, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "proctab.boot")
}
