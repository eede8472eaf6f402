package ai

import (
	"context"
	"os"
	"testing"
	"time"
)

// Live tests run against the real APIs and are skipped unless the
// provider's key is set.
func TestProvidersLive(t *testing.T) {
	tests := []struct {
		provider string
		keyEnv   string
		modelEnv string
		model    string
	}{
		{"openai", "OPENAI_API_KEY", "OPENAI_MODEL", "gpt-4o-mini"},
		{"claude", "CLAUDE_API_KEY", "CLAUDE_MODEL", "claude-sonnet-4-6"},
		{"gemini", "GEMINI_API_KEY", "GEMINI_MODEL", "gemini-2.5-flash"},
		{"mistral", "MISTRAL_API_KEY", "MISTRAL_MODEL", "mistral-small-latest"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			key := os.Getenv(tt.keyEnv)
			if key == "" {
				t.Skip(tt.keyEnv + " not set")
			}
			model := os.Getenv(tt.modelEnv)
			if model == "" {
				model = tt.model
			}

			reg := NewRegistry(tt.provider, map[string]ProviderConfig{
				tt.provider: {APIKey: key, Model: model},
			})

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			result, err := reg.Generate(ctx, Request{
				System:    `Reply with a JSON object {"answer": number}.`,
				Prompt:    "What is 2+2?",
				JSON:      true,
				MaxTokens: 100,
			})
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if result == "" {
				t.Fatal("Generate returned empty string")
			}
			t.Logf("%s response: %s", tt.provider, result)
		})
	}
}
