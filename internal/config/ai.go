package config

import "os"

// GroqModels defines which Groq models to use for different tasks
type GroqModels struct {
	// Transcribe is the Whisper model for speech-to-text
	Transcribe string `json:"transcribe"`

	// Tracker is for per-utterance domain scoring (needs to be fast)
	Tracker string `json:"tracker"`

	// Responder is for generating the counselor's reply (needs to be fast)
	Responder string `json:"responder"`

	// Report is for post-conversation report passes (deep analysis, not blocking)
	Report string `json:"report"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string     `json:"-"` // Never serialize
	BaseURL   string     `json:"baseUrl"`
	Models    GroqModels `json:"models"`
	TimeoutMS int        `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GROQ_API_KEY"),
		BaseURL: getEnvOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		Models: GroqModels{
			Transcribe: getEnvOrDefault("GROQ_MODEL_TRANSCRIBE", "distil-whisper-large-v3-en"),

			// Fast models for the live turn path
			Tracker:   getEnvOrDefault("GROQ_MODEL_TRACKER", "llama-3.1-8b-instant"),
			Responder: getEnvOrDefault("GROQ_MODEL_RESPONDER", "llama-3.1-8b-instant"),

			// Quality model for report passes
			Report: getEnvOrDefault("GROQ_MODEL_REPORT", "llama-3.3-70b-versatile"),
		},
		TimeoutMS: 30000, // 30 second default timeout
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
