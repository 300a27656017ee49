package media

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/twilio/twilio-go/twiml"

	"github.com/sebastianschieke/interviewline/internal/convo"
)

// Config for the Twilio call-control adapter.
type Config struct {
	AccountSID string
	AuthToken  string
	// CallbackBaseURL is the public base URL of this service; gather
	// and redirect actions are built under it.
	CallbackBaseURL string
	VoiceName       string
	Language        string
}

// TwilioMedia implements convo.Media by rewriting the live call's
// TwiML over the REST API. Updating a call replaces its executing
// document and cuts off any in-progress playback, so each protocol
// step is rendered as a single document carrying everything the caller
// must hear. Recognition results come back as webhooks, not from
// Listen itself.
type TwilioMedia struct {
	cfg    Config
	client *twilio.RestClient
}

// New builds the adapter.
func New(cfg Config) *TwilioMedia {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioMedia{cfg: cfg, client: client}
}

// Listen plays the lines inside a speech Gather, then recognizes. A
// gather timeout falls through to a redirect the webhook layer
// translates into a recognize-failed event.
func (m *TwilioMedia) Listen(ctx context.Context, target convo.Target, lines []string, t convo.SilenceTimeouts) error {
	doc, err := listenTwiML(m.cfg, target.ContextID, lines, t)
	if err != nil {
		return fmt.Errorf("build gather twiml: %w", err)
	}
	return m.update(ctx, target.CallSID, doc)
}

// Hangup completes the call leg. A non-empty farewell is delivered as
// a Say/Hangup document so it plays out before the leg drops.
func (m *TwilioMedia) Hangup(ctx context.Context, target convo.Target, farewell string) error {
	if farewell != "" {
		doc, err := hangupTwiML(m.cfg, farewell)
		if err != nil {
			return fmt.Errorf("build hangup twiml: %w", err)
		}
		return m.update(ctx, target.CallSID, doc)
	}
	params := &twilioApi.UpdateCallParams{}
	params.SetStatus("completed")
	if _, err := m.client.Api.UpdateCall(target.CallSID, params); err != nil {
		return fmt.Errorf("hang up call %s: %w", target.CallSID, err)
	}
	return nil
}

func (m *TwilioMedia) update(_ context.Context, callSID, doc string) error {
	params := &twilioApi.UpdateCallParams{}
	params.SetTwiml(doc)
	if _, err := m.client.Api.UpdateCall(callSID, params); err != nil {
		return fmt.Errorf("update call %s: %w", callSID, err)
	}
	return nil
}

// listenTwiML renders a speech Gather with per-state silence timeouts.
// The lines play in order inside the gather, so the caller can barge
// in and nothing is cut off by a later update.
func listenTwiML(cfg Config, contextID string, lines []string, t convo.SilenceTimeouts) (string, error) {
	action := fmt.Sprintf("%s/twilio/gather/%s", cfg.CallbackBaseURL, contextID)
	gather := &twiml.VoiceGather{
		Input:         "speech",
		Action:        action,
		Method:        "POST",
		Timeout:       seconds(t.Initial),
		SpeechTimeout: seconds(t.End),
		Language:      cfg.Language,
	}
	for _, line := range lines {
		if line == "" {
			continue
		}
		gather.InnerElements = append(gather.InnerElements,
			&twiml.VoiceSay{Message: line, Voice: cfg.VoiceName, Language: cfg.Language})
	}
	// No speech at all: report back as a recognition timeout.
	redirect := &twiml.VoiceRedirect{Url: action + "?timeout=1", Method: "POST"}
	return twiml.Voice([]twiml.Element{gather, redirect})
}

// hangupTwiML renders a farewell Say followed by Hangup.
func hangupTwiML(cfg Config, farewell string) (string, error) {
	say := &twiml.VoiceSay{Message: farewell, Voice: cfg.VoiceName, Language: cfg.Language}
	return twiml.Voice([]twiml.Element{say, &twiml.VoiceHangup{}})
}

// seconds renders a duration as whole seconds for TwiML attributes,
// rounding sub-second values up so short end-silence windows survive.
func seconds(d time.Duration) string {
	s := int(d.Seconds())
	if s < 1 {
		s = 1
	}
	return strconv.Itoa(s)
}
