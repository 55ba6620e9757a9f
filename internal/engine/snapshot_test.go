package engine

import (
	"testing"
	"time"

	"LRRBrain/internal/domain/models"
)

func TestSnapshotCacheEmpty(t *testing.T) {
	c := NewSnapshotCache()
	if c.Latest() != nil {
		t.Fatal("empty cache returned a snapshot")
	}
	if _, ok := c.Age(time.Now()); ok {
		t.Fatal("empty cache reported an age")
	}
}

func TestSnapshotCacheSwap(t *testing.T) {
	c := NewSnapshotCache()
	at := time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)

	first := &models.DetectorSnapshot{ReceivedAt: at, Symbol: "XAUUSD"}
	c.Put(first)
	if got := c.Latest(); got != first {
		t.Fatalf("Latest = %p, want %p", got, first)
	}

	age, ok := c.Age(at.Add(30 * time.Second))
	if !ok || age != 30*time.Second {
		t.Fatalf("age = %v ok=%v", age, ok)
	}

	second := &models.DetectorSnapshot{ReceivedAt: at.Add(time.Minute)}
	c.Put(second)
	if got := c.Latest(); got != second {
		t.Fatal("Put did not replace the snapshot")
	}
}
