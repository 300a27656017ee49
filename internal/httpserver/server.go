package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sebastianschieke/interviewline/internal/convo"
	"github.com/sebastianschieke/interviewline/internal/monitor"
)

// Dispatcher consumes call-lifecycle events. Satisfied by
// *convo.Engine.
type Dispatcher interface {
	HandleEvent(ctx context.Context, ev convo.Event) error
}

// Server bundles the echo router with its dependencies.
type Server struct {
	Echo       *echo.Echo
	dispatcher Dispatcher
	hub        *monitor.Hub
	sessions   *convo.SessionStore
	// dispatchTimeout bounds one event's processing, including a full
	// streamed model turn.
	dispatchTimeout time.Duration

	// pending queues events per session so same-call webhooks are
	// applied in arrival order; draining marks sessions with a live
	// drain goroutine.
	qmu      sync.Mutex
	pending  map[string][]convo.Event
	draining map[string]bool
}

// New builds the HTTP surface: Twilio webhooks guarded by signature
// validation, a health route, and the live transcript monitor.
func New(d Dispatcher, sessions *convo.SessionStore, hub *monitor.Hub, authToken func() string) *Server {
	s := &Server{
		Echo:            echo.New(),
		dispatcher:      d,
		hub:             hub,
		sessions:        sessions,
		dispatchTimeout: 2 * time.Minute,
		pending:         make(map[string][]convo.Event),
		draining:        make(map[string]bool),
	}
	e := s.Echo
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(TwilioAuth(authToken))

	e.GET("/healthz", s.health)
	e.POST("/twilio/voice", s.voice)
	e.POST("/twilio/gather/:contextID", s.gather)
	e.POST("/twilio/status/:contextID", s.status)
	e.GET("/monitor/:contextID", s.monitorFeed)
	return s
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}
