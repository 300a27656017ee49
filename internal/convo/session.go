package convo

import "sync"

// CallSession is the per-call state: protocol position, model history
// and transcript. A session is created exactly once on CallConnected
// and evicted exactly once after its terminal transcript flush.
//
// mu serializes all event handling for the session, including the
// long-latency speak/listen/stream operations inside a turn. Two
// events for the same call therefore never interleave their state
// transitions; sessions for different calls proceed independently.
type CallSession struct {
	ContextID string
	Caller    string
	Target    Target

	mu          sync.Mutex
	state       State
	role        string
	roleRetries int
	history     []Message
	transcript  *TranscriptRecorder
}

func newCallSession(contextID, caller, callSID string) *CallSession {
	return &CallSession{
		ContextID:  contextID,
		Caller:     caller,
		Target:     Target{ContextID: contextID, CallSID: callSID},
		state:      StateInitial,
		transcript: NewTranscriptRecorder(),
	}
}

// State returns the session's current protocol state.
func (s *CallSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Role returns the identified interview role, if any.
func (s *CallSession) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// History returns a copy of the model history.
func (s *CallSession) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// Transcript exposes the session's transcript recorder.
func (s *CallSession) Transcript() *TranscriptRecorder {
	return s.transcript
}

// appendHistory must be called with s.mu held.
func (s *CallSession) appendHistory(role, content string) {
	s.history = append(s.history, Message{Role: role, Content: content})
}
