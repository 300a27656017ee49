package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sebastianschieke/interviewline/internal/convo"
)

// TranscriptSink implements convo.Sink by uploading the rendered
// transcript and a metadata object per call.
type TranscriptSink struct {
	store Storage
}

// NewTranscriptSink wraps an object store as a transcript sink.
func NewTranscriptSink(store Storage) *TranscriptSink {
	return &TranscriptSink{store: store}
}

type transcriptMeta struct {
	CallID    string `json:"callId"`
	Timestamp string `json:"timestamp"`
	CallType  string `json:"callType"`
}

// Persist uploads "{contextID}-{timestamp}.txt" plus a sidecar
// metadata JSON object. At-most-once, no retries.
func (s *TranscriptSink) Persist(ctx context.Context, contextID, transcript string, meta convo.Metadata) error {
	stamp := meta.Timestamp.UTC().Format("20060102-150405")
	name := fmt.Sprintf("%s-%s.txt", contextID, stamp)

	if err := s.store.Upload(name, "text/plain", []byte(transcript)); err != nil {
		return fmt.Errorf("persist transcript: %w", err)
	}

	metaBody, err := json.Marshal(transcriptMeta{
		CallID:    meta.CallID,
		Timestamp: meta.Timestamp.UTC().Format(time.RFC3339),
		CallType:  meta.CallType,
	})
	if err != nil {
		return fmt.Errorf("encode transcript metadata: %w", err)
	}
	if err := s.store.Upload(name+".meta.json", "application/json", metaBody); err != nil {
		return fmt.Errorf("persist transcript metadata: %w", err)
	}
	return nil
}
