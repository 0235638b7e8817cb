package session_test

import (
	"context"
	"sync"
	"testing"

	model "github.com/propertypilot/backend/internal/model/session"
	"github.com/propertypilot/backend/internal/service/session"
)

func TestGetOrCreateInitializesRecord(t *testing.T) {
	svc := session.NewService(0)
	ctx := context.Background()

	record := svc.GetOrCreate(ctx, "abc")
	if record.ID != "abc" {
		t.Errorf("id: got %q want abc", record.ID)
	}
	if record.RequestCount != 0 {
		t.Errorf("request count: got %d want 0", record.RequestCount)
	}
	if record.CreatedAt.IsZero() {
		t.Error("created at should be set")
	}
	if svc.Len() != 1 {
		t.Errorf("len: got %d want 1", svc.Len())
	}
}

func TestTouchCounterMonotonic(t *testing.T) {
	svc := session.NewService(0)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		record := svc.Touch(ctx, "abc", session.Update{})
		if record.RequestCount != i {
			t.Fatalf("request %d: count got %d want %d", i, record.RequestCount, i)
		}
	}

	// A different session has its own counter.
	if record := svc.Touch(ctx, "xyz", session.Update{}); record.RequestCount != 1 {
		t.Errorf("new session count: got %d want 1", record.RequestCount)
	}
}

func TestTouchMergesHistory(t *testing.T) {
	svc := session.NewService(0)
	ctx := context.Background()

	svc.Touch(ctx, "abc", session.Update{
		AnalysisEntry:    &model.AnalysisEntry{Location: "Austin, TX", AnalysisType: "enhanced"},
		PropertyAnalyzed: "Austin, TX_500000",
	})
	record := svc.Touch(ctx, "abc", session.Update{
		AnalysisEntry: &model.AnalysisEntry{Location: "Dallas, TX", AnalysisType: "basic"},
		Preferences:   map[string]string{"risk_tolerance": "moderate"},
	})

	if len(record.AnalysisHistory) != 2 {
		t.Errorf("history length: got %d want 2", len(record.AnalysisHistory))
	}
	if len(record.PropertiesAnalyzed) != 1 {
		t.Errorf("properties analyzed: got %d want 1", len(record.PropertiesAnalyzed))
	}
	if record.Preferences["risk_tolerance"] != "moderate" {
		t.Errorf("preferences not merged: %v", record.Preferences)
	}

	locations := record.UniqueLocations()
	if len(locations) != 2 {
		t.Errorf("unique locations: got %v", locations)
	}
}

func TestTouchConcurrent(t *testing.T) {
	svc := session.NewService(0)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			svc.Touch(ctx, "shared", session.Update{})
		}()
	}
	wg.Wait()

	if record := svc.GetOrCreate(ctx, "shared"); record.RequestCount != workers {
		t.Errorf("request count: got %d want %d", record.RequestCount, workers)
	}
}
