package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// mockProvider is a test double implementing the Provider interface.
// It records calls and returns configurable responses.
type mockProvider struct {
	name      string
	response  string
	err       error
	callCount int
	last      Request
	mu        sync.Mutex
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.last = req
	return m.response, m.err
}

// ---------- Registry.Generate ----------

func TestRegistryGenerate(t *testing.T) {
	t.Run("delegates to active provider", func(t *testing.T) {
		mock := &mockProvider{name: "test", response: "Hello from mock"}
		reg := &Registry{providers: map[string]Provider{"test": mock}, active: "test"}

		req := Request{System: "system", Prompt: "user", JSON: true}
		result, err := reg.Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("Generate: unexpected error: %v", err)
		}
		if result != "Hello from mock" {
			t.Errorf("result: got %q, want %q", result, "Hello from mock")
		}

		mock.mu.Lock()
		defer mock.mu.Unlock()
		if mock.callCount != 1 {
			t.Errorf("callCount: got %d, want 1", mock.callCount)
		}
		if mock.last != req {
			t.Errorf("request: got %+v, want %+v", mock.last, req)
		}
	})

	t.Run("propagates provider error", func(t *testing.T) {
		boom := fmt.Errorf("api failure")
		mock := &mockProvider{name: "test", err: boom}
		reg := &Registry{providers: map[string]Provider{"test": mock}, active: "test"}

		if _, err := reg.Generate(context.Background(), Request{}); !errors.Is(err, boom) {
			t.Errorf("error: got %v, want %v", err, boom)
		}
	})

	t.Run("error when active provider is missing", func(t *testing.T) {
		reg := &Registry{
			providers: map[string]Provider{"openai": &mockProvider{name: "openai"}},
			active:    "gemini",
		}
		if _, err := reg.Generate(context.Background(), Request{}); err == nil {
			t.Fatal("expected error for unregistered active provider")
		}
	})
}

// ---------- Registry.SetActive ----------

func TestRegistrySetActive(t *testing.T) {
	a := &mockProvider{name: "a", response: "from a"}
	b := &mockProvider{name: "b", response: "from b"}
	reg := &Registry{providers: map[string]Provider{"a": a, "b": b}, active: "a"}

	if err := reg.SetActive("b"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if reg.ActiveName() != "b" {
		t.Errorf("ActiveName = %q, want b", reg.ActiveName())
	}
	got, _ := reg.Generate(context.Background(), Request{})
	if got != "from b" {
		t.Errorf("Generate = %q, want from b", got)
	}

	if err := reg.SetActive("missing"); err == nil {
		t.Error("expected error switching to an unconfigured provider")
	}
	if reg.ActiveName() != "b" {
		t.Error("failed SetActive changed the active provider")
	}
}

// ---------- NewRegistry ----------

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry("claude", map[string]ProviderConfig{
		"openai":  {APIKey: "o"},
		"gemini":  {APIKey: "g"},
		"claude":  {APIKey: "c"},
		"mistral": {APIKey: ""},
		"unknown": {APIKey: "u"},
	})

	want := []string{"claude", "gemini", "openai"}
	got := reg.Available()
	if len(got) != len(want) {
		t.Fatalf("Available = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Available[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	p, err := reg.Active()
	if err != nil || p.Name() != "claude" {
		t.Errorf("Active = %v, %v", p, err)
	}
	if reg.HasProvider("mistral") {
		t.Error("provider without an API key was registered")
	}
	if _, ok := reg.moderator.(*openAIModerator); !ok {
		t.Errorf("moderator = %T, want *openAIModerator", reg.moderator)
	}
}

func TestNewRegistryModeratorChain(t *testing.T) {
	both := NewRegistry("openai", map[string]ProviderConfig{
		"openai":  {APIKey: "o"},
		"mistral": {APIKey: "m"},
	})
	if f, ok := both.moderator.(*fallbackModerator); !ok || len(f.chain) != 2 {
		t.Errorf("moderator = %T, want a two-step fallback", both.moderator)
	}

	none := NewRegistry("claude", map[string]ProviderConfig{"claude": {APIKey: "c"}})
	res, err := none.CheckPrompt(context.Background(), "anything")
	if err != nil || !res.Safe {
		t.Errorf("CheckPrompt without moderator = %+v, %v; want safe", res, err)
	}
}

func TestRegistryCheckPrompt(t *testing.T) {
	reg := &Registry{providers: map[string]Provider{}}
	reg.SetModerator(stubModerator{res: &ModerationResult{Safe: false, Categories: []string{"violence"}}})

	res, err := reg.CheckPrompt(context.Background(), "x")
	if err != nil {
		t.Fatalf("CheckPrompt: %v", err)
	}
	if res.Safe {
		t.Error("moderator verdict ignored")
	}
}

// ---------- Image generation ----------

type mockImageProvider struct {
	mockProvider
}

func (m *mockImageProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	return []byte(prompt), "image/png", nil
}

func TestRegistryGenerateImage(t *testing.T) {
	reg := &Registry{providers: map[string]Provider{
		"text":  &mockProvider{name: "text"},
		"image": &mockImageProvider{mockProvider{name: "image"}},
	}, active: "text"}

	if reg.SupportsImageGeneration() {
		t.Error("text-only provider reported image support")
	}
	if _, _, err := reg.GenerateImage(context.Background(), "x"); !errors.Is(err, ErrNoImageSupport) {
		t.Errorf("text-only provider error = %v, want ErrNoImageSupport", err)
	}

	reg.SetActive("image")
	data, ct, err := reg.GenerateImage(context.Background(), "sunset")
	if err != nil || string(data) != "sunset" || ct != "image/png" {
		t.Errorf("GenerateImage = %q, %q, %v", data, ct, err)
	}
	if _, _, err := reg.GenerateImage(context.Background(), "   "); err == nil {
		t.Error("expected error for blank prompt")
	}
	if _, _, err := reg.GenerateImage(context.Background(), ""); err == nil {
		t.Error("expected error for empty prompt")
	}
}

// ---------- Concurrency ----------

func TestRegistryConcurrency(t *testing.T) {
	reg := &Registry{providers: map[string]Provider{
		"a": &mockProvider{name: "a", response: "a"},
		"b": &mockProvider{name: "b", response: "b"},
	}, active: "a"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			reg.Generate(context.Background(), Request{})
		}()
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				reg.SetActive("a")
			} else {
				reg.SetActive("b")
			}
		}(i)
		go func() {
			defer wg.Done()
			reg.Register("c", &mockProvider{name: "c"})
			_ = reg.Available()
		}()
	}
	wg.Wait()

	if !reg.HasProvider("c") {
		t.Error("registered provider missing")
	}
}
