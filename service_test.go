package proctab_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/proctab"
	"github.com/viant/proctab/internal/logger"
	"github.com/viant/proctab/model/proc"
	"github.com/viant/proctab/service/dao"
	"github.com/viant/proctab/service/dao/criteria"
	"github.com/viant/proctab/service/event"
	"github.com/viant/proctab/service/report"
	"go.uber.org/zap"
)

func newService(t *testing.T, config *proctab.Config, options ...proctab.Option) *proctab.Service {
	options = append([]proctab.Option{proctab.WithConfig(config), proctab.WithLogger(zap.NewNop())}, options...)
	srv, err := proctab.New(options...)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func TestService_BootReport(t *testing.T) {
	ctx := context.Background()
	srv := newService(t, nil)

	_, err := srv.Init(ctx)
	assert.ErrorIs(t, err, proc.ErrInitNotSet)
	assert.ErrorIs(t, srv.Report(&bytes.Buffer{}), proctab.ErrNotBooted)
	assert.Nil(t, srv.Table())

	require.NoError(t, srv.Boot(ctx))
	assert.ErrorIs(t, srv.Boot(ctx), proctab.ErrAlreadyBooted)

	d, err := srv.Init(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, d.PID())
	assert.Equal(t, "init", d.Name())
	assert.Equal(t, proc.DefaultCapacity, srv.Table().Capacity())

	var buf bytes.Buffer
	require.NoError(t, srv.Report(&buf))
	assert.Equal(t, "Process ID: 1, Name: init\n", buf.String())
}

func TestService_BootFromBootLine(t *testing.T) {
	ctx := context.Background()
	config := proctab.DefaultConfig()
	config.Table.BootLine = "1:systemd 5:shell"
	config.Table.Processes = append(config.Table.Processes, nil)
	srv := newService(t, config)

	require.NoError(t, srv.Boot(ctx))
	d, err := srv.Init(ctx)
	require.NoError(t, err)
	assert.Equal(t, "systemd", d.Name())
	assert.Equal(t, []int{1}, srv.Find(5))
	assert.Equal(t, []int{0}, srv.Find(1))

	event1, err := srv.Events().Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.KindInit, event1.Data.Kind)
	event2, err := srv.Events().Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.TableChange{Kind: event.KindAssign, Index: 1, PID: 5, Name: "shell"}, event2.Data)
	assert.Equal(t, event1.Context.TableID, event2.Context.TableID)
}

func TestService_BootFailure(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(c *proctab.Config)
		expectErr   error
	}{
		{
			description: "invalid init name",
			mutate:      func(c *proctab.Config) { c.Table.InitName = "an-init-name-that-is-too-long" },
			expectErr:   proc.ErrInvalidName,
		},
		{
			description: "invalid capacity",
			mutate:      func(c *proctab.Config) { c.Table.Capacity = 0 },
			expectErr:   proc.ErrInvalidCapacity,
		},
		{
			description: "too many processes",
			mutate: func(c *proctab.Config) {
				c.Table.Capacity = 2
				c.Table.BootLine = "2:a 3:b"
			},
			expectErr: proc.ErrInvalidCapacity,
		},
		{
			description: "init not first",
			mutate:      func(c *proctab.Config) { c.Table.BootLine = "2:a 1:init" },
			expectErr:   proc.ErrInvalidPid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			ctx := context.Background()
			config := proctab.DefaultConfig()
			tc.mutate(config)
			srv := newService(t, config)

			err := srv.Boot(ctx)
			assert.ErrorIs(t, err, tc.expectErr)
			assert.Nil(t, srv.Table())
			_, err = srv.Init(ctx)
			assert.ErrorIs(t, err, proc.ErrInitNotSet)
		})
	}
}

func TestService_AssignReset(t *testing.T) {
	ctx := context.Background()
	srv := newService(t, nil)
	assert.ErrorIs(t, srv.Assign(ctx, 1, 5, "shell"), proctab.ErrNotBooted)
	assert.Nil(t, srv.Find(5))
	require.NoError(t, srv.Boot(ctx))

	received := make(chan event.TableChange, 8)
	srv.Events().SetListener(ctx, func(e *event.Event[event.TableChange]) error {
		received <- e.Data
		return nil
	})

	require.NoError(t, srv.Assign(ctx, 2, 5, "shell"))
	assert.ErrorIs(t, srv.Assign(ctx, 3, 1, "init"), proc.ErrInvalidPid)
	assert.ErrorIs(t, srv.Assign(ctx, 4, 6, "x"), proc.ErrIndexOutOfRange)
	assert.ErrorIs(t, srv.Reset(ctx, 0), proc.ErrInvalidPid)
	assert.Equal(t, []int{2}, srv.Find(5))

	d, err := srv.Slot(2)
	require.NoError(t, err)
	assert.Equal(t, "shell", d.Name())
	require.NoError(t, srv.Reset(ctx, 2))
	assert.Empty(t, srv.Find(5))

	var kinds []string
	timeout := time.After(time.Second)
	for len(kinds) < 3 {
		select {
		case change := <-received:
			kinds = append(kinds, change.Kind)
		case <-timeout:
			t.Fatalf("missing events, got %v", kinds)
		}
	}
	assert.Equal(t, []string{event.KindInit, event.KindAssign, event.KindReset}, kinds)
}

func TestService_CheckpointRestore(t *testing.T) {
	ctx := context.Background()
	for _, storage := range []string{"memory", "fs"} {
		t.Run(storage, func(t *testing.T) {
			config := proctab.DefaultConfig()
			if storage == "fs" {
				config.Snapshot.URL = filepath.Join(t.TempDir(), "snapshots")
			}
			srv := newService(t, config)

			_, err := srv.Checkpoint(ctx)
			assert.ErrorIs(t, err, proctab.ErrNotBooted)

			require.NoError(t, srv.Boot(ctx))
			require.NoError(t, srv.Assign(ctx, 3, 9, "getty"))
			snapshot, err := srv.Checkpoint(ctx)
			require.NoError(t, err)

			require.NoError(t, srv.Reset(ctx, 3))
			require.NoError(t, srv.Restore(ctx, snapshot.ID))
			assert.Equal(t, []int{3}, srv.Find(9))
			d, err := srv.Init(ctx)
			require.NoError(t, err)
			assert.Equal(t, "init", d.Name())

			list, err := srv.Snapshots(ctx, dao.NewParameter(criteria.Capacity, proc.DefaultCapacity))
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, snapshot.ID, list[0].ID)

			err = srv.Restore(ctx, "missing")
			assert.ErrorIs(t, err, dao.ErrNotFound)
		})
	}
}

func TestService_Logging(t *testing.T) {
	var buf bytes.Buffer
	srv := newService(t, nil, proctab.WithLogger(logger.New(&buf)))
	require.NoError(t, srv.Boot(context.Background()))
	assert.Contains(t, buf.String(), "table booted")
	assert.Contains(t, buf.String(), `"init": "init"`)
}

func TestService_Diff(t *testing.T) {
	ctx := context.Background()
	srv := newService(t, nil)
	require.NoError(t, srv.Boot(ctx))

	before, err := srv.Checkpoint(ctx)
	require.NoError(t, err)
	require.NoError(t, srv.Assign(ctx, 1, 7, "cron"))
	after, err := srv.Checkpoint(ctx)
	require.NoError(t, err)

	text, stats, err := srv.Diff(ctx, before.ID, after.ID)
	require.NoError(t, err)
	assert.Contains(t, text, "+[1] Process ID: 7, Name: cron")
	assert.Equal(t, report.DiffStats{Added: 1}, stats)

	text, stats, err = srv.Diff(ctx, after.ID, after.ID)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, report.DiffStats{}, stats)

	_, _, err = srv.Diff(ctx, before.ID, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}
