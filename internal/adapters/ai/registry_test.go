package ai

import (
	"context"
	"fmt"
	"testing"

	"orquestra/pkg/errors"
)

type mockProvider struct {
	name   string
	models []ModelInfo
}

func (m *mockProvider) Name() string { return m.name }
func (m *mockProvider) GetModel(_ context.Context, model string) (ModelInfo, error) {
	for _, item := range m.models {
		if item.Name == model {
			return item, nil
		}
	}
	return ModelInfo{}, fmt.Errorf("not found")
}
func (m *mockProvider) ListModels(_ context.Context) ([]ModelInfo, error) { return m.models, nil }
func (m *mockProvider) SupportsTools() bool                               { return true }

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewProviderRegistry()

	if err := registry.Register(&mockProvider{name: "mock"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	err := registry.Register(&mockProvider{name: "mock"})
	if !errors.Is(err, errors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegistryGetMissingProvider(t *testing.T) {
	registry := NewProviderRegistry()

	if _, err := registry.Get("ghost"); !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetChatRequiresChatSupport(t *testing.T) {
	registry := NewProviderRegistry()
	if err := registry.Register(&mockProvider{name: "mock"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// mockProvider has metadata only, no Chat
	if _, err := registry.GetChat("mock"); !errors.Is(err, errors.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestResolveModel(t *testing.T) {
	registry := NewProviderRegistry()
	mock := &mockProvider{name: "mock", models: []ModelInfo{{Name: "alpha", MaxTokens: 100}}}
	if err := registry.Register(mock); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	info, err := registry.ResolveModel(context.Background(), "mock", "alpha")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if info.Name != "alpha" || info.MaxTokens != 100 {
		t.Fatalf("unexpected model info %+v", info)
	}

	if _, err := registry.ResolveModel(context.Background(), "missing", "alpha"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
