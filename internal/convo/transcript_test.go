package convo

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestTranscriptRecorder_OrderPreserved(t *testing.T) {
	r := NewTranscriptRecorder()
	r.Append(TagCallStart, "2025-01-02 03:04:05")
	r.Append("Sophia", "Hello!")
	r.Append(TagUser, "hi")
	r.Append(TagCallEnd, "2025-01-02 03:09:00")

	lines := r.Snapshot()
	wantTags := []string{TagCallStart, "Sophia", TagUser, TagCallEnd}
	if len(lines) != len(wantTags) {
		t.Fatalf("expected %d lines, got %d", len(wantTags), len(lines))
	}
	for i, tag := range wantTags {
		if lines[i].Tag != tag {
			t.Fatalf("line %d tag: got %q want %q", i, lines[i].Tag, tag)
		}
	}
}

func TestTranscriptRecorder_Render(t *testing.T) {
	r := NewTranscriptRecorder()
	r.Append("Sophia", "Hello!")
	r.Append(TagUser, "hi")
	want := "[Sophia] Hello!\n[User] hi\n"
	if got := r.Render(); got != want {
		t.Fatalf("render:\n got %q\nwant %q", got, want)
	}
}

func TestTranscriptRecorder_SnapshotDoesNotAlias(t *testing.T) {
	r := NewTranscriptRecorder()
	r.Append(TagUser, "one")
	snap := r.Snapshot()
	r.Append(TagUser, "two")
	if len(snap) != 1 {
		t.Fatalf("snapshot grew with recorder: %d lines", len(snap))
	}
	snap[0].Text = "mutated"
	if r.Snapshot()[0].Text != "one" {
		t.Fatalf("mutating a snapshot changed the recorder")
	}
}

func TestTranscriptRecorder_ConcurrentAppends(t *testing.T) {
	r := NewTranscriptRecorder()
	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				r.Append(TagUser, fmt.Sprintf("w%d-%d", w, i))
			}
		}(w)
	}
	wg.Wait()
	if got := r.Len(); got != writers*perWriter {
		t.Fatalf("expected %d lines, got %d", writers*perWriter, got)
	}
	// Per-writer order must hold even with interleaving.
	last := make(map[string]int)
	for _, l := range r.Snapshot() {
		var w, i int
		if _, err := fmt.Sscanf(l.Text, "w%d-%d", &w, &i); err != nil {
			t.Fatalf("unexpected line %q", l.Text)
		}
		key := fmt.Sprintf("w%d", w)
		if prev, ok := last[key]; ok && i != prev+1 {
			t.Fatalf("writer %d out of order: %d after %d", w, i, prev)
		}
		last[key] = i
	}
	if strings.TrimSpace(r.Render()) == "" {
		t.Fatalf("render empty after appends")
	}
}
