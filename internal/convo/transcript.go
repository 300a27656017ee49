package convo

import (
	"strings"
	"sync"
	"time"
)

// Transcript marker tags. Spoken and heard lines use the assistant
// name and TagUser; the rest are call-lifecycle markers.
const (
	TagCallStart    = "CALL_START"
	TagCallID       = "CALL_ID"
	TagCallerNumber = "CALLER_NUMBER"
	TagSystemPrompt = "SYSTEM_PROMPT"
	TagCallEnd      = "CALL_END"
	TagError        = "ERROR"
	TagUser         = "User"
)

// TranscriptLine is one tagged entry in a session transcript.
type TranscriptLine struct {
	Tag  string
	Text string
	At   time.Time
}

// TranscriptRecorder is a per-session append-only ordered log of
// everything said and heard, plus lifecycle and error markers. Lines
// are never mutated or truncated once appended.
type TranscriptRecorder struct {
	mu    sync.Mutex
	lines []TranscriptLine
}

// NewTranscriptRecorder returns an empty recorder.
func NewTranscriptRecorder() *TranscriptRecorder {
	return &TranscriptRecorder{}
}

// Append adds one line in arrival order.
func (r *TranscriptRecorder) Append(tag, text string) {
	r.mu.Lock()
	r.lines = append(r.lines, TranscriptLine{Tag: tag, Text: text, At: time.Now()})
	r.mu.Unlock()
}

// Len reports the number of appended lines.
func (r *TranscriptRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

// Snapshot returns a copy of all lines in append order.
func (r *TranscriptRecorder) Snapshot() []TranscriptLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TranscriptLine, len(r.lines))
	copy(out, r.lines)
	return out
}

// Render formats the transcript as "[TAG] text" lines, one per entry.
func (r *TranscriptRecorder) Render() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b strings.Builder
	for _, l := range r.lines {
		b.WriteString("[")
		b.WriteString(l.Tag)
		b.WriteString("] ")
		b.WriteString(l.Text)
		b.WriteString("\n")
	}
	return b.String()
}
