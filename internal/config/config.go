package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the full environment surface of the service. API credentials
// are pass-through; no business logic hangs off defaults.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Groq (transcription + generation)
	GroqAPIKey  string `env:"GROQ_API_KEY"`
	GroqBaseURL string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`

	// ElevenLabs (speech synthesis)
	ElevenLabsAPIKey string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsVoice  string `env:"ELEVENLABS_VOICE_ID" envDefault:"21m00Tcm4TlvDq8ikWAM"`

	// Supabase storage (synthesized audio blobs)
	SupabaseURL    string `env:"SUPABASE_URL"`
	SupabaseKey    string `env:"SUPABASE_SERVICE_ROLE_KEY"`
	SupabaseBucket string `env:"SUPABASE_BUCKET" envDefault:"responses"`

	// Document store
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"compassdb"`

	// Per-conversation locking
	RedisURI string `env:"REDIS_URI" envDefault:"localhost:6379"`

	// CORS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
