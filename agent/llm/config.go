package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "triagebot/agent/contract"
	geminix "triagebot/pkg/gemini"
)

// Config carries the shared Gemini settings plus optional per-responder
// overrides. A negative temperature override means "inherit the default".
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"gemini-2.0-flash"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`

	TriageModel          string  `envconfig:"TRIAGE_MODEL" split_words:"true"`
	BillingModel         string  `envconfig:"BILLING_MODEL" split_words:"true"`
	TechnicalModel       string  `envconfig:"TECHNICAL_MODEL" split_words:"true"`
	GeneralModel         string  `envconfig:"GENERAL_MODEL" split_words:"true"`
	TriageTemperature    float32 `envconfig:"TRIAGE_TEMPERATURE" split_words:"true" default:"-1"`
	BillingTemperature   float32 `envconfig:"BILLING_TEMPERATURE" split_words:"true" default:"-1"`
	TechnicalTemperature float32 `envconfig:"TECHNICAL_TEMPERATURE" split_words:"true" default:"-1"`
	GeneralTemperature   float32 `envconfig:"GENERAL_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: gemini api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) GeminiFor(rt contractx.ResponderType) geminix.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch rt {
	case contractx.ResponderTriage:
		if v := strings.TrimSpace(c.TriageModel); v != "" {
			modelName = v
		}
		if c.TriageTemperature >= 0 {
			temp = c.TriageTemperature
		}
	case contractx.ResponderBilling:
		if v := strings.TrimSpace(c.BillingModel); v != "" {
			modelName = v
		}
		if c.BillingTemperature >= 0 {
			temp = c.BillingTemperature
		}
	case contractx.ResponderTechnical:
		if v := strings.TrimSpace(c.TechnicalModel); v != "" {
			modelName = v
		}
		if c.TechnicalTemperature >= 0 {
			temp = c.TechnicalTemperature
		}
	case contractx.ResponderGeneral:
		if v := strings.TrimSpace(c.GeneralModel); v != "" {
			modelName = v
		}
		if c.GeneralTemperature >= 0 {
			temp = c.GeneralTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return geminix.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
	}
}
