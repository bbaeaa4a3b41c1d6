package cron

import (
	"context"
	"fmt"
	"testing"
)

type stubLock struct {
	acquired bool
	releases int
}

func (s *stubLock) Acquire(context.Context) (bool, error) { return s.acquired, nil }
func (s *stubLock) Release(context.Context) error         { s.releases++; return nil }

type countingJob struct {
	name string
	runs int
	err  error
}

func (c *countingJob) Name() string              { return c.name }
func (c *countingJob) Run(context.Context) error { c.runs++; return c.err }

func TestRunCycleExecutesJobsInOrder(t *testing.T) {
	t.Parallel()

	first := &countingJob{name: "first"}
	second := &countingJob{name: "second", err: fmt.Errorf("boom")}
	third := &countingJob{name: "third"}
	lock := &stubLock{acquired: true}

	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(first, second, third),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	// one failing job must not stop the ones after it
	if first.runs != 1 || second.runs != 1 || third.runs != 1 {
		t.Fatalf("unexpected run counts: %d %d %d", first.runs, second.runs, third.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("expected lock release, got %d", lock.releases)
	}
}

func TestRunCycleSkipsWithoutLock(t *testing.T) {
	t.Parallel()

	job := &countingJob{name: "job"}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     &stubLock{acquired: false},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job must not run without the lock, ran %d times", job.runs)
	}
}

func TestRegistryIgnoresNilJobs(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil, &countingJob{name: "real"})
	registry.Register(nil)
	if len(registry.Jobs()) != 1 {
		t.Fatalf("expected 1 job, got %d", len(registry.Jobs()))
	}
}
