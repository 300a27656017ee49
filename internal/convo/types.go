package convo

import (
	"context"
	"time"
)

// Message roles fed to the model. Order of messages is the model-call
// contract; history is append-only.
const (
	RoleSystem    = "system"
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// Message is a single role-tagged entry in a session's model history.
type Message struct {
	Role    string
	Content string
}

// Target identifies the live call leg a media operation acts on.
type Target struct {
	ContextID string
	CallSID   string
}

// SilenceTimeouts configures speech recognition per protocol state.
// Initial is how long the recognizer waits for the caller to start
// talking; End is the trailing-silence window that finalizes an
// utterance.
type SilenceTimeouts struct {
	Initial time.Duration
	End     time.Duration
}

// Media plays synthesized speech into a call and starts speech
// recognition. Replacing a live call's instructions cancels whatever
// is still playing, so everything the caller must hear before the next
// protocol step is delivered in one instruction. Recognition results
// do not return from Listen; they arrive later as
// RecognizeCompleted/RecognizeFailed events.
type Media interface {
	// Listen plays lines in order, then starts recognition.
	Listen(ctx context.Context, target Target, lines []string, t SilenceTimeouts) error
	// Hangup ends the call, playing farewell first if non-empty.
	Hangup(ctx context.Context, target Target, farewell string) error
}

// Model streams a chat completion for the given ordered history.
// Fragments arrive on the first channel in model order; a terminal
// error, if any, arrives on the second. Both channels close when the
// stream ends.
type Model interface {
	Stream(ctx context.Context, history []Message) (<-chan string, <-chan error)
}

// Metadata accompanies a persisted transcript.
type Metadata struct {
	CallID    string
	Timestamp time.Time
	CallType  string
}

// Sink persists a finished transcript. Best effort: the engine logs
// failures and proceeds with call teardown regardless.
type Sink interface {
	Persist(ctx context.Context, contextID, transcript string, meta Metadata) error
}

// Observer receives transcript lines as they are appended, e.g. for a
// live monitoring feed. Implementations must not block.
type Observer interface {
	TranscriptLine(contextID, tag, text string)
}
