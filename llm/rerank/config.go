package rerank

import "time"

// CohereConfig configures the Cohere reranker provider.
type CohereConfig struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Model   string        `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// String masks the API key.
func (c CohereConfig) String() string {
	key := ""
	if c.APIKey != "" {
		key = "***"
	}
	return "CohereConfig{APIKey:" + key + ", BaseURL:" + c.BaseURL + ", Model:" + c.Model + ", Timeout:" + c.Timeout.String() + "}"
}

// DefaultCohereConfig returns default Cohere reranker config.
func DefaultCohereConfig() CohereConfig {
	return CohereConfig{
		BaseURL: "https://api.cohere.ai",
		Model:   DefaultModel,
		Timeout: 30 * time.Second,
	}
}
