package ingestion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (f *fakePruner) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return 3, f.err
}

func (f *fakePruner) calls() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.cutoffs...)
}

func TestRetentionJob_PrunesImmediatelyAndOnTick(t *testing.T) {
	pruner := &fakePruner{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		StartRetentionJob(ctx, pruner, 24*time.Hour, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(pruner.calls()) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	first := pruner.calls()[0]
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), first, time.Minute)
}

func TestRetentionJob_DisabledWithoutRetention(t *testing.T) {
	pruner := &fakePruner{}

	StartRetentionJob(context.Background(), pruner, 0, time.Hour)

	assert.Empty(t, pruner.calls())
}

func TestRetentionJob_SurvivesPruneErrors(t *testing.T) {
	pruner := &fakePruner{err: errors.New("statement timeout")}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		StartRetentionJob(ctx, pruner, time.Hour, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(pruner.calls()) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
