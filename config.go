package proctab

import (
	"context"
	"errors"
	"fmt"
	"github.com/BurntSushi/toml"
	"github.com/viant/afs"
	"github.com/viant/proctab/internal/bootline"
	"github.com/viant/proctab/internal/env"
	"github.com/viant/proctab/model/proc"
	"github.com/viant/proctab/service/messaging/memory"
	"gopkg.in/yaml.v3"
	"path"
	"strings"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from YAML or TOML; fields left out of a file keep their
// DefaultConfig values.
type Config struct {
	Table    TableConfig    `json:"table" yaml:"table" toml:"table"`
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot" toml:"snapshot"`
	Events   memory.Config  `json:"events" yaml:"events" toml:"events"`
	Tracing  TracingConfig  `json:"tracing" yaml:"tracing" toml:"tracing"`
	Log      LogConfig      `json:"log" yaml:"log" toml:"log"`
}

type (
	// TableConfig describes the table created by Boot. When the first boot
	// entry carries pid 1 its name overrides InitName.
	TableConfig struct {
		Capacity  int               `json:"capacity" yaml:"capacity" toml:"capacity"`
		InitName  string            `json:"initName" yaml:"initName" toml:"initName"`
		BootLine  string            `json:"bootLine,omitempty" yaml:"bootLine" toml:"bootLine"`
		Processes []*bootline.Entry `json:"processes,omitempty" yaml:"processes" toml:"processes"`
	}

	// SnapshotConfig selects snapshot storage; an empty URL keeps snapshots
	// in memory.
	SnapshotConfig struct {
		URL string `json:"url,omitempty" yaml:"url" toml:"url"`
	}

	TracingConfig struct {
		Enabled        bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
		ServiceName    string `json:"serviceName" yaml:"serviceName" toml:"serviceName"`
		ServiceVersion string `json:"serviceVersion" yaml:"serviceVersion" toml:"serviceVersion"`
		// Output is a file path; empty writes spans to stdout.
		Output string `json:"output,omitempty" yaml:"output" toml:"output"`
	}

	LogConfig struct {
		Debug bool `json:"debug" yaml:"debug" toml:"debug"`
	}
)

// DefaultConfig returns the reference configuration: a four slot table whose
// init process is named "init".
func DefaultConfig() *Config {
	return &Config{
		Table: TableConfig{
			Capacity: proc.DefaultCapacity,
			InitName: "init",
		},
		Events: memory.DefaultConfig(),
		Tracing: TracingConfig{
			ServiceName:    "proctab",
			ServiceVersion: "0.1.0",
		},
	}
}

// BootPlan is the resolved content Boot writes into a new table.
type BootPlan struct {
	InitName string
	// Entries go to slots 1..len(Entries), in order.
	Entries []*bootline.Entry
}

// Plan merges the boot line and the process list into a BootPlan.
func (c *TableConfig) Plan() (*BootPlan, error) {
	entries, err := bootline.ParseString(c.BootLine)
	if err != nil {
		return nil, fmt.Errorf("invalid boot line: %w", err)
	}
	entries = append(entries, c.Processes...)
	plan := &BootPlan{InitName: c.InitName}
	if len(entries) > 0 && entries[0] != nil && entries[0].PID == proc.InitPID {
		plan.InitName = entries[0].Name
		entries = entries[1:]
	}
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		if entry.PID == proc.InitPID {
			return nil, fmt.Errorf("%w: boot entry %v: pid %d must come first", proc.ErrInvalidPid, entry, proc.InitPID)
		}
		if err = entry.Validate(); err != nil {
			return nil, fmt.Errorf("boot entry %v: %w", entry, err)
		}
		plan.Entries = append(plan.Entries, entry)
	}
	if err = proc.ValidateName(plan.InitName); err != nil {
		return nil, fmt.Errorf("init name: %w", err)
	}
	if c.Capacity > 0 && len(plan.Entries)+1 > c.Capacity {
		return nil, fmt.Errorf("%w: %d processes do not fit %d slots", proc.ErrInvalidCapacity, len(plan.Entries)+1, c.Capacity)
	}
	return plan, nil
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Table.Capacity <= 0 || c.Table.Capacity > proc.MaxCapacity {
		errs = append(errs, fmt.Errorf("table.capacity: %w: %d", proc.ErrInvalidCapacity, c.Table.Capacity))
	}
	if _, err := c.Table.Plan(); err != nil {
		errs = append(errs, fmt.Errorf("table: %w", err))
	}
	if c.Events.QueueBuffer < 0 {
		errs = append(errs, fmt.Errorf("events.buffer must be >= 0"))
	}
	if c.Tracing.Enabled && c.Tracing.ServiceName == "" {
		errs = append(errs, fmt.Errorf("tracing.serviceName must be set when tracing is enabled"))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML or TOML configuration from URL (any location afs
// supports). ${env.NAME} expressions are expanded before decoding.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	return DecodeConfig(path.Ext(URL), data)
}

// DecodeConfig decodes configuration data in the format implied by ext
// (".toml", otherwise YAML) on top of DefaultConfig.
func DecodeConfig(ext string, data []byte) (*Config, error) {
	cfg := DefaultConfig()
	text := env.Expand(string(data))
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(text, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode toml config: %w", err)
		}
	default:
		if err := yaml.Unmarshal([]byte(text), cfg); err != nil {
			return nil, fmt.Errorf("failed to decode yaml config: %w", err)
		}
	}
	return cfg, nil
}
