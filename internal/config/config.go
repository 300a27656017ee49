package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress     string
	CallbackBaseURL string

	TwilioAccountSID string
	TwilioAuthToken  string

	OpenAIBaseURL string
	OpenAIKey     string
	OpenAIModel   string

	SupabaseURL            string
	SupabaseServiceRoleKey string
	SupabaseBucket         string

	VoiceName     string
	VoiceLanguage string

	// Silence timeouts per protocol phase; consent gets a longer
	// end-silence window than the steady-state interview.
	InitialSilence      time.Duration
	ConsentEndSilence   time.Duration
	InterviewEndSilence time.Duration
	MaxRoleRetries      int
}

// Load reads environment variables and returns Config with sane defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}

	cfg := Config{
		HTTPAddress:     getEnv("HTTP_ADDRESS", ":8080"),
		CallbackBaseURL: os.Getenv("CALLBACK_BASE_URL"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),

		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		SupabaseURL:            os.Getenv("SUPABASE_URL"),
		SupabaseServiceRoleKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseBucket:         getEnv("SUPABASE_BUCKET", "transcript"),

		VoiceName:     getEnv("VOICE_NAME", "Polly.Vicki"),
		VoiceLanguage: getEnv("VOICE_LANGUAGE", "en-US"),

		InitialSilence:      envMillis("INITIAL_SILENCE_MS", 10000),
		ConsentEndSilence:   envMillis("CONSENT_END_SILENCE_MS", 2000),
		InterviewEndSilence: envMillis("INTERVIEW_END_SILENCE_MS", 1000),
		MaxRoleRetries:      envInt("MAX_ROLE_RETRIES", 3),
	}

	if cfg.CallbackBaseURL == "" {
		log.Println("Warning: CALLBACK_BASE_URL not set - Twilio gather callbacks will not resolve")
	}
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		log.Println("Warning: TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN not set - call control will not work")
	}
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - model replies will not work")
	}
	if cfg.SupabaseURL == "" || cfg.SupabaseServiceRoleKey == "" {
		log.Println("Warning: SUPABASE_URL / SUPABASE_SERVICE_ROLE_KEY not set - transcripts will not be persisted")
	}

	log.Printf("config: HTTP_ADDRESS=%s", cfg.HTTPAddress)
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Warning: %s is not an integer, using %d", key, fallback)
	}
	return fallback
}

func envMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}
