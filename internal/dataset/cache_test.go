package dataset

import (
	"errors"
	"testing"
	"time"

	"coach-insights-go/internal/types"
)

func TestCache_LoadsOnceWithinTTL(t *testing.T) {
	loads := 0
	c := NewCache(time.Hour, func() ([]types.CallRecord, error) {
		loads++
		return []types.CallRecord{{AgentName: "Alex"}}, nil
	})

	for i := 0; i < 3; i++ {
		records, err := c.Records()
		if err != nil {
			t.Fatalf("Records() error: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Records() len = %d, want 1", len(records))
		}
	}

	if loads != 1 {
		t.Errorf("source loaded %d times within TTL, want 1", loads)
	}
}

func TestCache_InvalidateForcesReload(t *testing.T) {
	loads := 0
	c := NewCache(time.Hour, func() ([]types.CallRecord, error) {
		loads++
		return []types.CallRecord{}, nil
	})

	if _, err := c.Records(); err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	c.Invalidate()
	if _, err := c.Records(); err != nil {
		t.Fatalf("Records() error after invalidate: %v", err)
	}

	if loads != 2 {
		t.Errorf("source loaded %d times, want 2 after invalidate", loads)
	}
}

func TestCache_ServesStaleOnReloadFailure(t *testing.T) {
	loads := 0
	c := NewCache(time.Hour, func() ([]types.CallRecord, error) {
		loads++
		if loads > 1 {
			return nil, errors.New("source down")
		}
		return []types.CallRecord{{AgentName: "Alex"}}, nil
	})

	if _, err := c.Records(); err != nil {
		t.Fatalf("first load error: %v", err)
	}
	c.Invalidate()

	records, err := c.Records()
	if err != nil {
		t.Fatalf("expected stale records, got error: %v", err)
	}
	if len(records) != 1 || records[0].AgentName != "Alex" {
		t.Errorf("stale records = %+v, want previous set", records)
	}
}
