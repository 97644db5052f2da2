package proctab

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/proctab/internal/bootline"
	"github.com/viant/proctab/model/proc"
)

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, (*Config)(nil).Validate())

	config := DefaultConfig()
	config.Table.Capacity = -1
	config.Table.InitName = ""
	config.Tracing.Enabled = true
	config.Tracing.ServiceName = ""
	err := config.Validate()
	assert.ErrorIs(t, err, proc.ErrInvalidCapacity)
	assert.ErrorIs(t, err, proc.ErrInvalidName)
	assert.Contains(t, err.Error(), "tracing.serviceName")

	config = DefaultConfig()
	config.Table.Capacity = proc.MaxCapacity + 1
	assert.ErrorIs(t, config.Validate(), proc.ErrInvalidCapacity)
}

func TestTableConfig_Plan(t *testing.T) {
	testCases := []struct {
		description string
		config      TableConfig
		expected    *BootPlan
		expectErr   error
	}{
		{
			description: "default init",
			config:      TableConfig{Capacity: 4, InitName: "init"},
			expected:    &BootPlan{InitName: "init"},
		},
		{
			description: "boot line names init",
			config:      TableConfig{Capacity: 4, InitName: "init", BootLine: "1:launchd 7:sh"},
			expected:    &BootPlan{InitName: "launchd", Entries: []*bootline.Entry{{PID: 7, Name: "sh"}}},
		},
		{
			description: "process list after boot line",
			config:      TableConfig{Capacity: 4, InitName: "init", BootLine: "7:sh", Processes: []*bootline.Entry{{PID: 8, Name: "cron"}}},
			expected:    &BootPlan{InitName: "init", Entries: []*bootline.Entry{{PID: 7, Name: "sh"}, {PID: 8, Name: "cron"}}},
		},
		{
			description: "invalid process",
			config:      TableConfig{Capacity: 4, InitName: "init", Processes: []*bootline.Entry{{PID: -8, Name: "cron"}}},
			expectErr:   proc.ErrInvalidPid,
		},
		{
			description: "full table",
			config:      TableConfig{Capacity: 1, InitName: "init", BootLine: "7:sh"},
			expectErr:   proc.ErrInvalidCapacity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			plan, err := tc.config.Plan()
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, tc.expected, plan)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PROCTAB_INIT", "systemd")
	dir := t.TempDir()
	ctx := context.Background()

	yamlURL := filepath.Join(dir, "proctab.yaml")
	require.NoError(t, os.WriteFile(yamlURL, []byte(`
table:
  capacity: 8
  initName: ${env.PROCTAB_INIT}
  processes:
    - pid: 5
      name: shell
events:
  buffer: 10
log:
  debug: true
`), 0644))
	config, err := LoadConfig(ctx, yamlURL)
	require.NoError(t, err)
	assert.Equal(t, 8, config.Table.Capacity)
	assert.Equal(t, "systemd", config.Table.InitName)
	assert.Equal(t, []*bootline.Entry{{PID: 5, Name: "shell"}}, config.Table.Processes)
	assert.Equal(t, 10, config.Events.QueueBuffer)
	assert.Equal(t, 3, config.Events.MaxRetries, "unspecified fields keep defaults")
	assert.True(t, config.Log.Debug)
	assert.NoError(t, config.Validate())

	tomlURL := filepath.Join(dir, "proctab.toml")
	require.NoError(t, os.WriteFile(tomlURL, []byte(`
[table]
capacity = 2
bootLine = "1:init 2:getty"

[tracing]
serviceName = "kernel"
`), 0644))
	config, err = LoadConfig(ctx, tomlURL)
	require.NoError(t, err)
	assert.Equal(t, 2, config.Table.Capacity)
	assert.Equal(t, "1:init 2:getty", config.Table.BootLine)
	assert.Equal(t, "init", config.Table.InitName)
	assert.Equal(t, "kernel", config.Tracing.ServiceName)
	assert.NoError(t, config.Validate())

	_, err = DecodeConfig(".yaml", []byte("table: ["))
	assert.Error(t, err)
	_, err = DecodeConfig(".toml", []byte("table = ["))
	assert.Error(t, err)
	_, err = LoadConfig(ctx, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
