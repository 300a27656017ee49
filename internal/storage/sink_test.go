package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sebastianschieke/interviewline/internal/convo"
)

type upload struct {
	Key         string
	ContentType string
	Body        []byte
}

type fakeStore struct {
	uploads []upload
	err     error
}

func (f *fakeStore) Upload(objectKey, contentType string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.uploads = append(f.uploads, upload{Key: objectKey, ContentType: contentType, Body: body})
	return nil
}

func TestTranscriptSink_Persist(t *testing.T) {
	store := &fakeStore{}
	sink := NewTranscriptSink(store)

	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	meta := convo.Metadata{CallID: "ctx-1", Timestamp: at, CallType: "inbound-sop"}
	transcript := "[CALL_START] 2025-03-14 09:26:53\n[User] hello\n"

	if err := sink.Persist(context.Background(), "ctx-1", transcript, meta); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if len(store.uploads) != 2 {
		t.Fatalf("expected transcript plus metadata upload, got %d", len(store.uploads))
	}

	txt := store.uploads[0]
	if txt.Key != "ctx-1-20250314-092653.txt" {
		t.Fatalf("transcript key: got %s", txt.Key)
	}
	if txt.ContentType != "text/plain" || string(txt.Body) != transcript {
		t.Fatalf("transcript upload: %+v", txt)
	}

	m := store.uploads[1]
	if m.Key != "ctx-1-20250314-092653.txt.meta.json" {
		t.Fatalf("metadata key: got %s", m.Key)
	}
	if m.ContentType != "application/json" {
		t.Fatalf("metadata content type: got %s", m.ContentType)
	}
	for _, want := range []string{`"callId":"ctx-1"`, `"timestamp":"2025-03-14T09:26:53Z"`, `"callType":"inbound-sop"`} {
		if !strings.Contains(string(m.Body), want) {
			t.Fatalf("metadata missing %s: %s", want, m.Body)
		}
	}
}

func TestTranscriptSink_UploadError(t *testing.T) {
	store := &fakeStore{err: errors.New("bucket unavailable")}
	sink := NewTranscriptSink(store)
	err := sink.Persist(context.Background(), "ctx-1", "text", convo.Metadata{CallID: "ctx-1", Timestamp: time.Now()})
	if err == nil {
		t.Fatalf("expected error from failing store")
	}
}
