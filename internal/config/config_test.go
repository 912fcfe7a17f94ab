package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.GroqBaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("default groq base url = %q", cfg.GroqBaseURL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("default allowed origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadAllowedOriginsList(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("allowed origins = %v", cfg.AllowedOrigins)
	}
}

func TestDefaultAIConfig(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	cfg := DefaultAIConfig()
	if cfg.IsEnabled() {
		t.Error("expected disabled without api key")
	}
	if cfg.Models.Transcribe == "" || cfg.Models.Tracker == "" || cfg.Models.Report == "" {
		t.Errorf("model defaults missing: %+v", cfg.Models)
	}

	t.Setenv("GROQ_API_KEY", "k")
	if !DefaultAIConfig().IsEnabled() {
		t.Error("expected enabled with api key")
	}
}
