// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ModerationResult contains the outcome of a prompt safety check.
type ModerationResult struct {
	Safe       bool     // true if the prompt passes moderation
	Categories []string // flagged category names, empty when safe
}

// Moderator checks user prompts for policy violations before sending
// them to AI generation endpoints.
type Moderator interface {
	CheckSafety(ctx context.Context, text string) (*ModerationResult, error)
}

// --- OpenAI Moderation (free endpoint) ---

type openAIModerator struct {
	client *openai.Client
}

func newOpenAIModerator(cfg ProviderConfig) *openAIModerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = cfg.httpClient()
	return &openAIModerator{client: openai.NewClientWithConfig(clientCfg)}
}

func (m *openAIModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	resp, err := m.client.Moderations(ctx, openai.ModerationRequest{Input: text})
	if err != nil {
		return nil, fmt.Errorf("moderation: %w", err)
	}
	if len(resp.Results) == 0 || !resp.Results[0].Flagged {
		return &ModerationResult{Safe: true}, nil
	}

	c := resp.Results[0].Categories
	flags := map[string]bool{
		"hate":                     c.Hate,
		"hate (threatening)":       c.HateThreatening,
		"harassment":               c.Harassment,
		"harassment (threatening)": c.HarassmentThreatening,
		"self-harm":                c.SelfHarm,
		"sexual":                   c.Sexual,
		"sexual (minors)":          c.SexualMinors,
		"violence":                 c.Violence,
		"violence (graphic)":       c.ViolenceGraphic,
	}
	return &ModerationResult{Safe: false, Categories: flagged(flags)}, nil
}

// --- Mistral Moderation (paid, fallback) ---

type mistralModerator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newMistralModerator(cfg ProviderConfig) *mistralModerator {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = mistralBaseURL
	}
	return &mistralModerator{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  cfg.httpClient(),
	}
}

func (m *mistralModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	payload, err := json.Marshal(mistralModRequest{
		Model: "mistral-moderation-latest",
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("mistral moderation marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/moderations", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("mistral moderation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mistral moderation http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mistral moderation read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mistral moderation API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result mistralModResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("mistral moderation unmarshal: %w", err)
	}
	if len(result.Results) == 0 {
		return &ModerationResult{Safe: true}, nil
	}

	// Mistral has no top-level flag; any flagged category fails the check.
	cats := flagged(result.Results[0].Categories)
	return &ModerationResult{Safe: len(cats) == 0, Categories: cats}, nil
}

type mistralModRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type mistralModResponse struct {
	Results []struct {
		Categories map[string]bool `json:"categories"`
	} `json:"results"`
}

// --- Fallback ---

// fallbackModerator asks each moderator in turn until one answers.
type fallbackModerator struct {
	chain []Moderator
}

func (f *fallbackModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	var errs []error
	for _, m := range f.chain {
		res, err := m.CheckSafety(ctx, text)
		if err == nil {
			return res, nil
		}
		slog.Warn("moderator failed, trying next", "error", err)
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// flagged returns the sorted, human-readable names of the set flags.
func flagged(flags map[string]bool) []string {
	var out []string
	for name, set := range flags {
		if set {
			out = append(out, strings.ReplaceAll(name, "_", " "))
		}
	}
	sort.Strings(out)
	return out
}
