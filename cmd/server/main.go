package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sebastianschieke/interviewline/internal/config"
	"github.com/sebastianschieke/interviewline/internal/convo"
	"github.com/sebastianschieke/interviewline/internal/httpserver"
	"github.com/sebastianschieke/interviewline/internal/llm"
	"github.com/sebastianschieke/interviewline/internal/media"
	"github.com/sebastianschieke/interviewline/internal/monitor"
	"github.com/sebastianschieke/interviewline/internal/storage"
)

func main() {
	// Include sub-second precision in all log timestamps
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	cfg := config.Load()

	tw := media.New(media.Config{
		AccountSID:      cfg.TwilioAccountSID,
		AuthToken:       cfg.TwilioAuthToken,
		CallbackBaseURL: cfg.CallbackBaseURL,
		VoiceName:       cfg.VoiceName,
		Language:        cfg.VoiceLanguage,
	})

	model := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel)

	var sink convo.Sink
	if cfg.SupabaseURL != "" && cfg.SupabaseServiceRoleKey != "" {
		store, err := storage.NewSupabase(storage.SupabaseConfig{
			URL:            cfg.SupabaseURL,
			ServiceRoleKey: cfg.SupabaseServiceRoleKey,
			Bucket:         cfg.SupabaseBucket,
		})
		if err != nil {
			log.Fatalf("supabase storage: %v", err)
		}
		sink = storage.NewTranscriptSink(store)
	} else {
		sink = storage.NopSink{}
	}

	engine := convo.NewEngine(tw, model, sink, convo.DefaultPrompts(), convo.Config{
		ConsentTimeouts:   convo.SilenceTimeouts{Initial: cfg.InitialSilence, End: cfg.ConsentEndSilence},
		InterviewTimeouts: convo.SilenceTimeouts{Initial: cfg.InitialSilence, End: cfg.InterviewEndSilence},
		MaxRoleRetries:    cfg.MaxRoleRetries,
	})

	hub := monitor.NewHub()
	engine.SetObserver(hub)

	srv := httpserver.New(engine, engine.Store(), hub, func() string { return cfg.TwilioAuthToken })

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           srv.Echo,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in background
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", cfg.HTTPAddress)
		serverErrors <- server.ListenAndServe()
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("shutdown signal received: %v", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = server.Close()
	}
}
