package llm

import (
	"errors"
	"testing"
	"time"

	contractx "triagebot/agent/contract"
)

func baseConfig() Config {
	return Config{
		BaseURL:            "https://generativelanguage.googleapis.com/v1beta/openai/",
		APIKey:             "key",
		Model:              "gemini-2.0-flash",
		MaxCompletionToken: 2000,
		Temperature:        0.5,
		Timeout:              30 * time.Second,
		TriageTemperature:    -1,
		BillingTemperature:   -1,
		TechnicalTemperature: -1,
		GeneralTemperature:   -1,
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.APIKey = "  "
	if err := cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGeminiForDefaults(t *testing.T) {
	t.Parallel()

	got := baseConfig().GeminiFor(contractx.ResponderGeneral)
	if got.Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected model: %s", got.Model)
	}
	if got.Temperature != 0.5 {
		t.Fatalf("unexpected temperature: %v", got.Temperature)
	}
}

func TestGeminiForOverrides(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.TriageModel = "gemini-2.0-flash-lite"
	cfg.TriageTemperature = 0

	got := cfg.GeminiFor(contractx.ResponderTriage)
	if got.Model != "gemini-2.0-flash-lite" {
		t.Fatalf("unexpected model: %s", got.Model)
	}
	if got.Temperature != 0 {
		t.Fatalf("temperature override of zero must apply, got %v", got.Temperature)
	}

	unchanged := cfg.GeminiFor(contractx.ResponderBilling)
	if unchanged.Model != "gemini-2.0-flash" || unchanged.Temperature != 0.5 {
		t.Fatalf("billing config must not inherit triage overrides: %+v", unchanged)
	}
}
