package llm

import (
	"errors"
	"testing"
	"time"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
)

func baseConfig() Config {
	return Config{
		BaseURL:             "https://openrouter.ai/api/v1",
		APIKey:              "sk-test",
		Model:               "x-ai/grok-4.1-fast",
		MaxCompletionToken:  4000,
		Temperature:         0.5,
		Timeout:             120 * time.Second,
		DecisionTemperature: -1, CompressionTemperature: -1, AssessmentTemperature: -1,
		CompressionMaxToken: 32000,
		AssessmentMaxToken:  64000,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := baseConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cfg := baseConfig()
	cfg.APIKey = " "
	if err := cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("missing api key error = %v, want ErrValidation", err)
	}

	cfg = baseConfig()
	cfg.Model = ""
	if err := cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("missing model error = %v, want ErrValidation", err)
	}
}

func TestOpenRouterForDefaults(t *testing.T) {
	t.Parallel()

	got := baseConfig().OpenRouterFor(contractx.ProfileDecision)
	if got.Model != "x-ai/grok-4.1-fast" {
		t.Fatalf("decision model = %q", got.Model)
	}
	if got.Temperature != 0.5 {
		t.Fatalf("decision temperature = %v", got.Temperature)
	}
	if got.MaxCompletionToken == nil || *got.MaxCompletionToken != 4000 {
		t.Fatalf("decision max tokens = %v", got.MaxCompletionToken)
	}
}

func TestOpenRouterForProfileOverrides(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.DecisionModel = "anthropic/claude-sonnet-4"
	cfg.DecisionTemperature = 0.2
	cfg.CompressionModel = "google/gemini-2.5-flash"
	cfg.AssessmentTemperature = 0

	decision := cfg.OpenRouterFor(contractx.ProfileDecision)
	if decision.Model != "anthropic/claude-sonnet-4" || decision.Temperature != 0.2 {
		t.Fatalf("decision override = %q/%v", decision.Model, decision.Temperature)
	}

	compression := cfg.OpenRouterFor(contractx.ProfileCompression)
	if compression.Model != "google/gemini-2.5-flash" {
		t.Fatalf("compression model = %q", compression.Model)
	}
	if compression.Temperature != 0.5 {
		t.Fatalf("compression should fall back to base temperature, got %v", compression.Temperature)
	}
	if compression.MaxCompletionToken == nil || *compression.MaxCompletionToken != 32000 {
		t.Fatalf("compression max tokens = %v", compression.MaxCompletionToken)
	}

	assessment := cfg.OpenRouterFor(contractx.ProfileAssessment)
	if assessment.Model != "x-ai/grok-4.1-fast" {
		t.Fatalf("assessment should fall back to base model, got %q", assessment.Model)
	}
	if assessment.Temperature != 0 {
		t.Fatalf("zero temperature override should apply, got %v", assessment.Temperature)
	}
	if assessment.MaxCompletionToken == nil || *assessment.MaxCompletionToken != 64000 {
		t.Fatalf("assessment max tokens = %v", assessment.MaxCompletionToken)
	}
}
