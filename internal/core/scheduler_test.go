package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	calls  int
	maxAge time.Duration
	err    error
	cancel context.CancelFunc
}

func (p *fakePruner) PruneStale(_ context.Context, olderThan time.Duration) (int64, error) {
	p.calls++
	p.maxAge = olderThan
	if p.cancel != nil {
		p.cancel()
	}
	return 3, p.err
}

func TestSchedulerPrunesOnStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &fakePruner{cancel: cancel, err: errors.New("db down")}

	s := NewSchedulerService(p, time.Hour, 48*time.Hour)
	require.NoError(t, s.Run(ctx))
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, 48*time.Hour, p.maxAge)
}

func TestSchedulerDisabledWithoutMaxAge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &fakePruner{}

	require.NoError(t, NewSchedulerService(p, 0, 0).Run(ctx))
	assert.Zero(t, p.calls)
}
