package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/cache"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/testutil"
)

func TestScheduler_Add(t *testing.T) {
	t.Run("rejects an invalid spec", func(t *testing.T) {
		s := New(zap.NewNop())
		if err := s.Add("broken", "every so often", func(context.Context) error { return nil }); err == nil {
			t.Error("Expected an error for an invalid spec")
		}
	})

	t.Run("empty spec disables the job", func(t *testing.T) {
		s := New(zap.NewNop())
		if err := s.Add("off", "", func(context.Context) error { return nil }); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
		if n := len(s.cron.Entries()); n != 0 {
			t.Errorf("Expected no entries, got %d", n)
		}
	})
}

// TestScheduler_run tests the per-run wrapper.
//
// WHY: Cron swallows job results. A failing reseed is only visible through
// the log entry written here.
func TestScheduler_run(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := New(zap.New(core))

	s.run("reseed", func(context.Context) error { return errors.New("disk full") })

	entries := logs.FilterMessage("job failed").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 failure entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["job"]; got != "reseed" {
		t.Errorf("Expected job 'reseed', got %v", got)
	}
}

func TestScheduler_Run(t *testing.T) {
	s := New(zap.NewNop())
	ran := make(chan struct{}, 1)
	err := s.Add("tick", "@every 1s", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Add() returned unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("Expected the job to run")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Expected Run to return after cancel")
	}
}

func TestReseedJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	datasets := testutil.NewTestDatasetService(t, db)
	base := testutil.SampleDataset()
	sessions := testutil.NewTestSessionService(t, db, base)
	c := cache.NewMemoryCache(8)
	if err := c.Set(context.Background(), "dashboard:old", []byte("{}"), time.Hour); err != nil {
		t.Fatalf("Set() returned unexpected error: %v", err)
	}

	if err := ReseedJob(datasets, sessions, c, zap.NewNop())(context.Background()); err != nil {
		t.Fatalf("ReseedJob returned unexpected error: %v", err)
	}

	sc, err := sessions.Get("")
	if err != nil {
		t.Fatalf("Get() returned unexpected error: %v", err)
	}
	if sc.Dataset.Version == base.Version {
		t.Error("Expected the default session to hold the reseeded dataset")
	}
	if c.Len() != 0 {
		t.Errorf("Expected an empty cache, got %d entries", c.Len())
	}
}

type countingPruner struct{ calls int }

func (p *countingPruner) Prune(time.Duration) int {
	p.calls++
	return 0
}

func TestSweepJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sessions := service.NewSessionService(
		testutil.NewTestDatasetService(t, db),
		testutil.SampleDataset(),
		time.Nanosecond,
		zap.NewNop(),
	)
	sessions.Create()
	time.Sleep(time.Millisecond)

	pruner := &countingPruner{}
	if err := SweepJob(sessions, pruner, time.Minute, zap.NewNop())(context.Background()); err != nil {
		t.Fatalf("SweepJob returned unexpected error: %v", err)
	}

	if sessions.Count() != 1 {
		t.Errorf("Expected only the default session, got %d", sessions.Count())
	}
	if pruner.calls != 1 {
		t.Errorf("Expected 1 prune call, got %d", pruner.calls)
	}
}
