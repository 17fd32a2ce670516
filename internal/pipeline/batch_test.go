package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// slowStep records peak concurrency while sleeping briefly.
type slowStep struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *slowStep) Name() string { return "slow" }

func (s *slowStep) Do(_ context.Context, _ *Build) error {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return nil
}

func TestProcessBatchPreservesOrder(t *testing.T) {
	t.Parallel()

	factory := func() *Pipeline {
		p := New(WithLogger(discardLogger()))
		p.AddStep(&fakeStep{name: "noop"})
		return p
	}

	bp := NewBatchProcessor(factory,
		WithBatchLogger(discardLogger()),
		WithConcurrency(2),
	)

	sites := []string{
		"https://a.example.com",
		"https://b.example.com",
		"https://c.example.com",
	}
	builds, err := bp.ProcessBatch(context.Background(), sites)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}

	if len(builds) != len(sites) {
		t.Fatalf("got %d builds, want %d", len(builds), len(sites))
	}
	for i, build := range builds {
		if build == nil {
			t.Fatalf("builds[%d] is nil", i)
		}
		if build.StartURL != sites[i] {
			t.Errorf("builds[%d].StartURL = %q, want %q", i, build.StartURL, sites[i])
		}
	}
}

func TestProcessBatchRespectsConcurrencyLimit(t *testing.T) {
	t.Parallel()

	step := &slowStep{}
	factory := func() *Pipeline {
		p := New(WithLogger(discardLogger()))
		p.AddStep(step)
		return p
	}

	bp := NewBatchProcessor(factory,
		WithBatchLogger(discardLogger()),
		WithConcurrency(2),
	)

	sites := []string{"a", "b", "c", "d", "e", "f"}
	if _, err := bp.ProcessBatch(context.Background(), sites); err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}

	if peak := step.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", peak)
	}
}

func TestProcessBatchRecordsFailures(t *testing.T) {
	t.Parallel()

	factory := func() *Pipeline {
		p := New(WithLogger(discardLogger()))
		p.AddStep(&fakeStep{name: "boom", err: errors.New("fetch failed")})
		return p
	}

	bp := NewBatchProcessor(factory, WithBatchLogger(discardLogger()))

	builds, err := bp.ProcessBatch(context.Background(), []string{"https://down.example.com"})
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v, failures must not abort the batch", err)
	}
	if builds[0].Err == nil {
		t.Error("failed build must carry its error")
	}
}

func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	factory := func() *Pipeline {
		p := New(WithLogger(discardLogger()))
		p.AddStep(&fakeStep{name: "noop"})
		return p
	}

	bp := NewBatchProcessor(factory,
		WithBatchLogger(discardLogger()),
		WithConcurrency(3),
	)

	var mu sync.Mutex
	seen := make(map[int]string)
	sites := []string{"https://a.example.com", "https://b.example.com"}

	err := bp.ProcessBatchWithCallback(context.Background(), sites, func(build *Build, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = build.StartURL
	})
	if err != nil {
		t.Fatalf("ProcessBatchWithCallback() error = %v", err)
	}

	if len(seen) != 2 || seen[0] != sites[0] || seen[1] != sites[1] {
		t.Errorf("callback results = %v", seen)
	}
}

func TestProcessBatchCancelled(t *testing.T) {
	t.Parallel()

	factory := func() *Pipeline {
		p := New(WithLogger(discardLogger()))
		p.AddStep(&fakeStep{name: "noop"})
		return p
	}

	bp := NewBatchProcessor(factory, WithBatchLogger(discardLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bp.ProcessBatch(ctx, []string{"https://a.example.com"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ProcessBatch() error = %v, want context.Canceled", err)
	}
}

func TestWithConcurrencyIgnoresNonPositive(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(func() *Pipeline { return New(WithLogger(discardLogger())) },
		WithConcurrency(0),
	)
	if bp.concurrency != 4 {
		t.Errorf("concurrency = %d, want default 4", bp.concurrency)
	}
}
