// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import "context"

const mistralBaseURL = "https://api.mistral.ai/v1"

// mistralProvider implements Provider on Mistral's OpenAI-compatible chat
// completions API. Mistral has no image model, so it does not implement
// ImageGenerator.
type mistralProvider struct {
	inner *openAIProvider
}

// newMistral creates a new Mistral provider.
func newMistral(cfg ProviderConfig) *mistralProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = mistralBaseURL
	}
	return &mistralProvider{inner: newOpenAICompatible("mistral", cfg)}
}

func (p *mistralProvider) Name() string { return "mistral" }

func (p *mistralProvider) Generate(ctx context.Context, req Request) (string, error) {
	return p.inner.Generate(ctx, req)
}
