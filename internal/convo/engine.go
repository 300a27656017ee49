package convo

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Config holds the tunable policy of the engine. Silence timeouts are
// longer while waiting for consent than during the steady-state
// interview.
type Config struct {
	ConsentTimeouts   SilenceTimeouts
	InterviewTimeouts SilenceTimeouts
	// MaxRoleRetries bounds re-asking for an unmatched role before the
	// session falls back to a generic role and proceeds.
	MaxRoleRetries int
}

// DefaultConfig returns the standard timeout and retry policy.
func DefaultConfig() Config {
	return Config{
		ConsentTimeouts:   SilenceTimeouts{Initial: 10 * time.Second, End: 2 * time.Second},
		InterviewTimeouts: SilenceTimeouts{Initial: 10 * time.Second, End: time.Second},
		MaxRoleRetries:    3,
	}
}

// Engine drives the consent/role/interview protocol for every live
// call. It is safe for concurrent use: events for different sessions
// are processed in parallel, events for the same session are
// serialized on the session's own lock.
type Engine struct {
	media    Media
	model    Model
	sink     Sink
	store    *SessionStore
	prompts  Prompts
	consent  *ConsentClassifier
	cfg      Config
	observer Observer
}

// NewEngine constructs an engine over the given capabilities.
func NewEngine(media Media, model Model, sink Sink, prompts Prompts, cfg Config) *Engine {
	return &Engine{
		media:   media,
		model:   model,
		sink:    sink,
		store:   NewSessionStore(),
		prompts: prompts,
		consent: NewConsentClassifier(),
		cfg:     cfg,
	}
}

// SetObserver registers an optional transcript line observer.
func (e *Engine) SetObserver(o Observer) { e.observer = o }

// Store exposes the session registry, e.g. for health reporting.
func (e *Engine) Store() *SessionStore { return e.store }

// HandleEvent routes one call-lifecycle event to the session it
// belongs to and performs the resulting side effects. An error for one
// session never affects another.
func (e *Engine) HandleEvent(ctx context.Context, ev Event) error {
	switch ev := ev.(type) {
	case CallConnected:
		return e.handleConnected(ctx, ev)
	case RecognizeCompleted:
		return e.handleRecognized(ctx, ev)
	case RecognizeFailed:
		return e.handleRecognizeFailed(ctx, ev)
	case CallDisconnected:
		return e.handleDisconnected(ctx, ev)
	}
	return fmt.Errorf("convo: unknown event type %T", ev)
}

func (e *Engine) handleConnected(ctx context.Context, ev CallConnected) error {
	sess := e.store.GetOrCreate(ev.ContextID, func() *CallSession {
		return newCallSession(ev.ContextID, ev.Caller, ev.CallSID)
	})
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state != StateInitial {
		// duplicate connect event
		return nil
	}

	e.record(sess, TagCallStart, time.Now().Format(timestampLayout))
	e.record(sess, TagCallID, sess.ContextID)
	e.record(sess, TagCallerNumber, sess.Caller)

	sess.appendHistory(RoleSystem, e.prompts.SystemPrompt)
	e.record(sess, TagSystemPrompt, e.prompts.SystemPrompt)

	sess.appendHistory(RoleAssistant, e.prompts.Greeting)
	e.record(sess, e.prompts.AssistantName, e.prompts.Greeting)
	sess.state = StateAwaitingConsent

	log.Printf("convo: call %s connected from %s", sess.ContextID, sess.Caller)
	return e.media.Listen(ctx, sess.Target, []string{e.prompts.Greeting}, e.cfg.ConsentTimeouts)
}

func (e *Engine) handleRecognizeFailed(ctx context.Context, ev RecognizeFailed) error {
	sess, err := e.store.Get(ev.ContextID)
	if err != nil {
		log.Printf("convo: recognize-failed for unknown session %s, dropped", ev.ContextID)
		return fmt.Errorf("recognize failed event: %w", err)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	log.Printf("convo: recognize failed in state %s, reason %s", sess.state, ev.Reason)

	if ev.Reason != ReasonInitialSilence {
		return e.prompt(ctx, sess, e.prompts.TryAgain, e.cfg.InterviewTimeouts)
	}

	switch sess.state {
	case StateAwaitingConsent:
		return e.prompt(ctx, sess, e.prompts.ConsentReprompt, e.cfg.ConsentTimeouts)
	case StateConsentDeclined:
		e.finishCall(ctx, sess, "")
		return nil
	case StateConsentGiven:
		sess.state = StateRoleIdentification
		return e.prompt(ctx, sess, e.prompts.RolePrompt, e.cfg.InterviewTimeouts)
	default:
		return e.prompt(ctx, sess, e.prompts.NoResponse, e.cfg.InterviewTimeouts)
	}
}

func (e *Engine) handleRecognized(ctx context.Context, ev RecognizeCompleted) error {
	sess, err := e.store.Get(ev.ContextID)
	if err != nil {
		log.Printf("convo: utterance for unknown session %s, dropped", ev.ContextID)
		return fmt.Errorf("recognize completed event: %w", err)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	utterance := ev.Utterance
	log.Printf("convo: caller said %q (state=%s)", utterance, sess.state)
	e.record(sess, TagUser, utterance)
	sess.appendHistory(RoleUser, utterance)

	if sess.state == StateAwaitingConsent {
		answer := e.consent.Classify(utterance)
		log.Printf("convo: consent classified as %s", answer)
		switch answer {
		case ConsentYes:
			sess.state = StateConsentGiven
			return e.prompt(ctx, sess, e.prompts.ConsentThanks, e.cfg.InterviewTimeouts)
		case ConsentNo:
			sess.state = StateConsentDeclined
			sess.appendHistory(RoleAssistant, e.prompts.Decline)
			e.record(sess, e.prompts.AssistantName, e.prompts.Decline)
			e.finishCall(ctx, sess, e.prompts.Decline)
			return nil
		default:
			return e.prompt(ctx, sess, e.prompts.ConsentUnclear, e.cfg.ConsentTimeouts)
		}
	}

	// End-call keywords win over role and interview handling.
	if containsAny(utterance, e.prompts.EndCallKeywords) {
		e.record(sess, e.prompts.AssistantName, e.prompts.Goodbye)
		e.finishCall(ctx, sess, e.prompts.Goodbye)
		return nil
	}

	// Consent is a hard precondition for any model call.
	if !sess.state.consented() {
		log.Printf("convo: dropping utterance in state %s", sess.state)
		return nil
	}

	if sess.state.awaitingRole() {
		e.identifyRole(sess, utterance)
	}

	return e.modelTurn(ctx, sess)
}

func (e *Engine) handleDisconnected(ctx context.Context, ev CallDisconnected) error {
	sess, err := e.store.Get(ev.ContextID)
	if err != nil {
		// normal after the engine itself hung up and evicted
		log.Printf("convo: disconnect for unknown session %s, dropped", ev.ContextID)
		return nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	log.Printf("convo: call %s disconnected", sess.ContextID)
	e.record(sess, TagCallEnd, time.Now().Format(timestampLayout))
	e.persist(ctx, sess)
	sess.state = StateTerminal
	e.store.Remove(sess.ContextID)
	return nil
}

// identifyRole matches the utterance against the role keyword table.
// After MaxRoleRetries unmatched attempts the session proceeds with
// the fallback role rather than re-asking forever. Callers hold
// sess.mu; the utterance continues into the model turn either way.
func (e *Engine) identifyRole(sess *CallSession, utterance string) {
	lower := strings.ToLower(utterance)
	for _, r := range e.prompts.Roles {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				sess.role = r.Name
				sess.state = r.State
				break
			}
		}
		if sess.role != "" {
			break
		}
	}
	if sess.role != "" {
		log.Printf("convo: role identified as %s", sess.role)
		sess.state = StateInterview
		return
	}
	sess.roleRetries++
	if sess.roleRetries >= e.cfg.MaxRoleRetries {
		log.Printf("convo: role unmatched after %d attempts, falling back to %q", sess.roleRetries, e.prompts.FallbackRole)
		sess.role = e.prompts.FallbackRole
		sess.state = StateInterview
		return
	}
	sess.state = StateRoleIdentification
}

// modelTurn streams a model reply for the session's history, collecting
// completed sentences in flush order, then delivers the whole reply and
// the next gather as one media instruction. Sentences are recorded to
// the transcript and observer as they flush. A stream failure marks the
// transcript, tells the caller processing failed, and leaves the
// session alive. Callers hold sess.mu for the whole turn.
func (e *Engine) modelTurn(ctx context.Context, sess *CallSession) error {
	sess.appendHistory(RoleUser, e.prompts.Reminder)

	frags, errs := e.model.Stream(ctx, sess.historyLocked())
	asm := NewSentenceAssembler()
	var full strings.Builder
	var sentences []string
	var turnErr error

	openFrags, openErrs := true, true
	for openFrags || openErrs {
		select {
		case f, ok := <-frags:
			if !ok {
				openFrags = false
				continue
			}
			if f == "" || turnErr != nil {
				continue
			}
			full.WriteString(f)
			for _, sentence := range asm.Feed(f) {
				e.record(sess, e.prompts.AssistantName, sentence)
				sentences = append(sentences, sentence)
			}
		case err, ok := <-errs:
			if !ok {
				openErrs = false
				continue
			}
			if err != nil && turnErr == nil {
				turnErr = err
			}
		case <-ctx.Done():
			if turnErr == nil {
				turnErr = ctx.Err()
			}
			openFrags, openErrs = false, false
		}
	}

	if turnErr == nil {
		if tail, ok := asm.Flush(); ok {
			e.record(sess, e.prompts.AssistantName, tail)
			sentences = append(sentences, tail)
		}
	}

	if turnErr != nil {
		log.Printf("convo: model turn for %s: %v", sess.ContextID, turnErr)
		e.record(sess, TagError, turnErr.Error())
		e.record(sess, e.prompts.AssistantName, e.prompts.ProcessingError)
		return e.media.Listen(ctx, sess.Target, append(sentences, e.prompts.ProcessingError), e.cfg.InterviewTimeouts)
	}

	if full.Len() > 0 {
		sess.appendHistory(RoleAssistant, full.String())
	}
	log.Printf("convo: reply finished for %s, listening for caller", sess.ContextID)
	return e.media.Listen(ctx, sess.Target, sentences, e.cfg.InterviewTimeouts)
}

// prompt appends text to history and transcript, then speaks it and
// starts listening with the given timeouts.
func (e *Engine) prompt(ctx context.Context, sess *CallSession, text string, t SilenceTimeouts) error {
	sess.appendHistory(RoleAssistant, text)
	e.record(sess, e.prompts.AssistantName, text)
	return e.media.Listen(ctx, sess.Target, []string{text}, t)
}

// finishCall flushes the transcript, hangs up with an optional spoken
// farewell, and evicts the session. Callers hold sess.mu.
func (e *Engine) finishCall(ctx context.Context, sess *CallSession, farewell string) {
	e.persist(ctx, sess)
	if err := e.media.Hangup(ctx, sess.Target, farewell); err != nil {
		log.Printf("convo: hangup %s: %v", sess.ContextID, err)
	}
	sess.state = StateTerminal
	e.store.Remove(sess.ContextID)
}

// persist flushes the transcript to the durable sink, best effort.
func (e *Engine) persist(ctx context.Context, sess *CallSession) {
	meta := Metadata{
		CallID:    sess.ContextID,
		Timestamp: time.Now().UTC(),
		CallType:  "inbound-sop",
	}
	if err := e.sink.Persist(ctx, sess.ContextID, sess.transcript.Render(), meta); err != nil {
		log.Printf("convo: persist transcript for %s: %v", sess.ContextID, err)
	}
}

// record appends a transcript line and notifies the observer.
func (e *Engine) record(sess *CallSession, tag, text string) {
	sess.transcript.Append(tag, text)
	if e.observer != nil {
		e.observer.TranscriptLine(sess.ContextID, tag, text)
	}
}

// historyLocked copies the history; callers hold s.mu.
func (s *CallSession) historyLocked() []Message {
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

func containsAny(utterance string, keywords []string) bool {
	lower := strings.ToLower(utterance)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
