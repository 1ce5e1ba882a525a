package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
	openrouterx "github.com/nattavee/Fathom-Deep-Research-Agent/pkg/openrouter"
)

// Config carries one OpenRouter credential set plus per-profile overrides for
// the three model profiles a research session needs. A profile falls back to
// the base Model/Temperature when its override is unset.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"4000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"120s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	DecisionModel    string `envconfig:"DECISION_MODEL" split_words:"true"`
	CompressionModel string `envconfig:"COMPRESSION_MODEL" split_words:"true"`
	AssessmentModel  string `envconfig:"ASSESSMENT_MODEL" split_words:"true"`

	DecisionTemperature    float32 `envconfig:"DECISION_TEMPERATURE" split_words:"true" default:"-1"`
	CompressionTemperature float32 `envconfig:"COMPRESSION_TEMPERATURE" split_words:"true" default:"-1"`
	AssessmentTemperature  float32 `envconfig:"ASSESSMENT_TEMPERATURE" split_words:"true" default:"-1"`

	// Synthesis and review need much larger output budgets than the
	// decision loop.
	CompressionMaxToken int `envconfig:"COMPRESSION_MAX_TOKEN" split_words:"true" default:"32000"`
	AssessmentMaxToken  int `envconfig:"ASSESSMENT_MAX_TOKEN" split_words:"true" default:"64000"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor materializes the effective OpenRouter config for a profile.
func (c Config) OpenRouterFor(profile contractx.Profile) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature
	maxToken := c.MaxCompletionToken

	switch profile {
	case contractx.ProfileDecision:
		if v := strings.TrimSpace(c.DecisionModel); v != "" {
			modelName = v
		}
		if c.DecisionTemperature >= 0 {
			temp = c.DecisionTemperature
		}
	case contractx.ProfileCompression:
		if v := strings.TrimSpace(c.CompressionModel); v != "" {
			modelName = v
		}
		if c.CompressionTemperature >= 0 {
			temp = c.CompressionTemperature
		}
		if c.CompressionMaxToken > 0 {
			maxToken = c.CompressionMaxToken
		}
	case contractx.ProfileAssessment:
		if v := strings.TrimSpace(c.AssessmentModel); v != "" {
			modelName = v
		}
		if c.AssessmentTemperature >= 0 {
			temp = c.AssessmentTemperature
		}
		if c.AssessmentMaxToken > 0 {
			maxToken = c.AssessmentMaxToken
		}
	}

	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
