package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type countingCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *countingCleaner) Cleanup(context.Context) (int64, error) {
	c.calls.Add(1)
	return 3, c.err
}

func TestEmptyScheduleDisablesCleanup(t *testing.T) {
	c, err := StartWishlistCleanup("  ", &countingCleaner{})
	if err != nil || c != nil {
		t.Fatalf("got cron=%v err=%v, want nil, nil", c, err)
	}
}

func TestInvalidScheduleIsRejected(t *testing.T) {
	if _, err := StartWishlistCleanup("every tuesday", &countingCleaner{}); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestValidScheduleStarts(t *testing.T) {
	c, err := StartWishlistCleanup("@daily", &countingCleaner{})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Stop()
	if len(c.Entries()) != 1 {
		t.Fatalf("entries = %d, want 1", len(c.Entries()))
	}
}

func TestRunCleanupSwallowsErrors(t *testing.T) {
	cl := &countingCleaner{err: errors.New("db down")}
	runCleanup(cl)
	runCleanup(cl)
	if got := cl.calls.Load(); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}
