package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/sebastianschieke/interviewline/internal/convo"
)

// holdTwiML keeps the call leg open while the engine, running in the
// background, decides what to play next.
const holdTwiML = `<?xml version="1.0" encoding="UTF-8"?>
<Response><Pause length="60"/></Response>`

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// voice answers an incoming call: it mints the context identifier and
// emits CallConnected.
func (s *Server) voice(c echo.Context) error {
	params, ok := c.Get("twilioParams").(map[string]string)
	if !ok {
		return c.String(http.StatusInternalServerError, "Failed to get Twilio parameters")
	}

	callSID := params["CallSid"]
	from := params["From"]
	if callSID == "" {
		return c.String(http.StatusBadRequest, "CallSid missing")
	}
	contextID := uuid.New().String()
	log.Printf("httpserver: incoming call from %s, CallSid=%s, context=%s", from, callSID, contextID)

	s.dispatch(convo.CallConnected{ContextID: contextID, Caller: from, CallSID: callSID})

	c.Response().Header().Set(echo.HeaderContentType, "application/xml")
	return c.String(http.StatusOK, holdTwiML)
}

// gather reports a recognition outcome: a SpeechResult becomes
// RecognizeCompleted, its absence a recognize-failed timeout.
func (s *Server) gather(c echo.Context) error {
	params, ok := c.Get("twilioParams").(map[string]string)
	if !ok {
		return c.String(http.StatusInternalServerError, "Failed to get Twilio parameters")
	}
	contextID := c.Param("contextID")

	if speech := params["SpeechResult"]; speech != "" {
		s.dispatch(convo.RecognizeCompleted{ContextID: contextID, Utterance: speech})
	} else {
		reason := convo.ReasonInitialSilence
		if c.QueryParam("timeout") == "" && params["Confidence"] != "" {
			reason = convo.ReasonUnrecognized
		}
		s.dispatch(convo.RecognizeFailed{ContextID: contextID, Reason: reason})
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/xml")
	return c.String(http.StatusOK, holdTwiML)
}

// status translates terminal call status callbacks into
// CallDisconnected.
func (s *Server) status(c echo.Context) error {
	params, ok := c.Get("twilioParams").(map[string]string)
	if !ok {
		return c.String(http.StatusInternalServerError, "Failed to get Twilio parameters")
	}
	contextID := c.Param("contextID")

	switch params["CallStatus"] {
	case "completed", "failed", "busy", "no-answer", "canceled":
		s.dispatch(convo.CallDisconnected{ContextID: contextID})
	}
	return c.String(http.StatusOK, "OK")
}

// monitorFeed streams a call's transcript lines over a websocket.
func (s *Server) monitorFeed(c echo.Context) error {
	contextID := c.Param("contextID")
	if _, err := s.sessions.Get(contextID); err != nil {
		return c.String(http.StatusNotFound, "unknown session")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	s.hub.Subscribe(contextID, conn)
	go func() {
		defer func() {
			s.hub.Unsubscribe(contextID, conn)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// dispatch hands an event to the engine without holding up the
// webhook response; Twilio retries slow webhooks. Events are queued
// per session and drained one at a time in arrival order, so two
// closely spaced webhooks for the same call cannot be applied out of
// order. Different sessions drain independently.
func (s *Server) dispatch(ev convo.Event) {
	key := ev.SessionContextID()
	s.qmu.Lock()
	s.pending[key] = append(s.pending[key], ev)
	if s.draining[key] {
		s.qmu.Unlock()
		return
	}
	s.draining[key] = true
	s.qmu.Unlock()
	go s.drain(key)
}

// drain processes one session's queued events sequentially and exits
// once the queue is empty.
func (s *Server) drain(key string) {
	for {
		s.qmu.Lock()
		if len(s.pending[key]) == 0 {
			delete(s.pending, key)
			delete(s.draining, key)
			s.qmu.Unlock()
			return
		}
		ev := s.pending[key][0]
		s.pending[key] = s.pending[key][1:]
		s.qmu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		err := s.dispatcher.HandleEvent(ctx, ev)
		cancel()
		if err != nil && !errors.Is(err, convo.ErrSessionNotFound) {
			log.Printf("httpserver: handle %T for %s: %v", ev, key, err)
		}
	}
}
