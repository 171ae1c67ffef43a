// Package llm wraps the generative model used for résumé drafting and career chat.
package llm

// ModelTier represents the capability level a call needs
type ModelTier string

const (
	// TierLite is for short structured drafts: bullet lines, skill lists
	TierLite ModelTier = "lite"
	// TierStandard is for prose: summaries, project descriptions
	TierStandard ModelTier = "standard"
	// TierAdvanced is for open-ended conversation
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, the only one wired today
const ProviderGemini Provider = "gemini"

// DefaultTemperature keeps drafts close to the candidate's own wording
const DefaultTemperature float32 = 0.4

// Config holds the model configuration
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.0-flash-lite",
			TierStandard: "gemini-2.0-flash",
			TierAdvanced: "gemini-2.0-flash",
		},
		Temperature: DefaultTemperature,
	}
}

// GetModel returns the model name for a tier, falling back to standard then lite
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok && model != "" {
		return model
	}
	if model, ok := c.Models[TierLite]; ok && model != "" {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[tier] = model
	return next
}

// WithOverrides applies tier -> model overrides (keys "lite", "standard", "advanced"),
// ignoring empty values
func (c *Config) WithOverrides(overrides map[string]string) *Config {
	next := c
	for tier, model := range overrides {
		if model == "" {
			continue
		}
		next = next.WithModel(ModelTier(tier), model)
	}
	return next
}
