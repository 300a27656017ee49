package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("SUPABASE_BUCKET", "")
	t.Setenv("VOICE_NAME", "")
	cfg := Load()
	if cfg.HTTPAddress == "" {
		t.Fatalf("expected default http address")
	}
	if cfg.OpenAIModel == "" {
		t.Fatalf("expected default model id")
	}
	if cfg.SupabaseBucket == "" {
		t.Fatalf("expected default bucket name")
	}
	if cfg.VoiceName == "" {
		t.Fatalf("expected default voice")
	}
	if cfg.InitialSilence != 10*time.Second {
		t.Fatalf("initial silence default: got %v", cfg.InitialSilence)
	}
	if cfg.ConsentEndSilence != 2*time.Second {
		t.Fatalf("consent end silence default: got %v", cfg.ConsentEndSilence)
	}
	if cfg.InterviewEndSilence != time.Second {
		t.Fatalf("interview end silence default: got %v", cfg.InterviewEndSilence)
	}
	if cfg.MaxRoleRetries != 3 {
		t.Fatalf("max role retries default: got %d", cfg.MaxRoleRetries)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":9999")
	t.Setenv("INTERVIEW_END_SILENCE_MS", "1500")
	t.Setenv("MAX_ROLE_RETRIES", "5")
	cfg := Load()
	if cfg.HTTPAddress != ":9999" {
		t.Fatalf("http address: got %s", cfg.HTTPAddress)
	}
	if cfg.InterviewEndSilence != 1500*time.Millisecond {
		t.Fatalf("interview end silence: got %v", cfg.InterviewEndSilence)
	}
	if cfg.MaxRoleRetries != 5 {
		t.Fatalf("max role retries: got %d", cfg.MaxRoleRetries)
	}
}

func TestEnvInt_BadValueFallsBack(t *testing.T) {
	t.Setenv("MAX_ROLE_RETRIES", "not-a-number")
	if got := envInt("MAX_ROLE_RETRIES", 3); got != 3 {
		t.Fatalf("expected fallback 3, got %d", got)
	}
}
