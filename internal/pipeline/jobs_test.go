package pipeline

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestContentHashHex(t *testing.T) {
	a := ContentHashHex([]byte("hello"))
	b := ContentHashHex([]byte("hello"))
	c := ContentHashHex([]byte("world"))
	if a != b {
		t.Error("hash must be deterministic")
	}
	if a == c {
		t.Error("different content must hash differently")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestNewJobID_UniqueAndSortable(t *testing.T) {
	seen := make(map[string]bool)
	var prev string
	for i := 0; i < 100; i++ {
		id := NewJobID()
		if len(id) != 26 {
			t.Fatalf("id %q has length %d, want 26", id, len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		prev = id
	}
	time.Sleep(2 * time.Millisecond)
	if next := NewJobID(); next <= prev {
		t.Errorf("ids must sort by time: %q not after %q", next, prev)
	}
}

func TestJobStatusTransitions(t *testing.T) {
	job := &Job{ID: NewJobID(), Status: StatusQueued, CreatedAt: time.Now()}

	job.SetStatus(StatusParsing, "parsing")
	if job.Snapshot().Status != StatusParsing {
		t.Errorf("status = %s", job.Snapshot().Status)
	}

	job.SetChunkStats(12, 340)
	job.IncrServiceCalls()
	job.IncrServiceCalls()
	job.AddError("gist failed for chunk 3")
	job.SetStatus(StatusCompleted, "done")

	snap := job.Snapshot()
	if snap.Progress.TotalChunks != 12 {
		t.Errorf("total chunks = %d", snap.Progress.TotalChunks)
	}
	if snap.Progress.EstimatedTokens != 340 {
		t.Errorf("estimated tokens = %d", snap.Progress.EstimatedTokens)
	}
	if snap.Progress.ServiceCalls != 2 {
		t.Errorf("service calls = %d", snap.Progress.ServiceCalls)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("errors = %v", snap.Progress.Errors)
	}
}

func TestJobSnapshot_JSONHidesInternals(t *testing.T) {
	job := &Job{ID: "j1", Status: StatusCompleted}
	job.SetFileData([]byte("raw bytes"))
	job.SetResult("# Doc\n\nbody\n")

	data, err := json.Marshal(job.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if strings.Contains(s, "raw bytes") || strings.Contains(s, "body") {
		t.Errorf("internal fields leaked into snapshot json: %s", s)
	}
	if !strings.Contains(s, `"job_id":"j1"`) {
		t.Errorf("missing job_id: %s", s)
	}
	if !strings.Contains(s, `"errors":[]`) {
		t.Errorf("errors must serialize as an empty array, got: %s", s)
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "abc", UpdatedAt: time.Now()}
	store.Put(job)
	if got := store.Get("abc"); got != job {
		t.Error("stored job not returned")
	}
	if got := store.Get("missing"); got != nil {
		t.Errorf("expected nil for unknown id, got %+v", got)
	}
}

func TestJobStore_CleanupEvictsExpired(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)
	old := &Job{ID: "old", UpdatedAt: time.Now().Add(-time.Minute)}
	fresh := &Job{ID: "fresh", UpdatedAt: time.Now()}
	store.Put(old)
	store.Put(fresh)

	store.Cleanup()
	if store.Get("old") != nil {
		t.Error("expired job must be evicted")
	}
	if store.Get("fresh") == nil {
		t.Error("fresh job must survive cleanup")
	}
}
