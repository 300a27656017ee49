package convo

// Recognition failure reason codes reported by the telephony layer.
const (
	ReasonInitialSilence = "initial-silence"
	ReasonUnrecognized   = "unrecognized"
)

// Event is a call-lifecycle event routed to the engine. Each event
// carries the context identifier of the session it belongs to.
type Event interface {
	SessionContextID() string
}

// CallConnected is emitted when an inbound call has been answered.
// It creates the session.
type CallConnected struct {
	ContextID string
	Caller    string
	CallSID   string
}

// RecognizeCompleted carries a finalized caller utterance.
type RecognizeCompleted struct {
	ContextID string
	Utterance string
}

// RecognizeFailed signals that recognition ended without an utterance.
type RecognizeFailed struct {
	ContextID string
	Reason    string
}

// CallDisconnected is emitted when the call leg ends for any reason.
type CallDisconnected struct {
	ContextID string
}

func (e CallConnected) SessionContextID() string      { return e.ContextID }
func (e RecognizeCompleted) SessionContextID() string { return e.ContextID }
func (e RecognizeFailed) SessionContextID() string    { return e.ContextID }
func (e CallDisconnected) SessionContextID() string   { return e.ContextID }
