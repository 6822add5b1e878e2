package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewOllamaProvider_Defaults(t *testing.T) {
	provider := NewOllamaProvider()

	if provider.baseURL != DefaultOllamaURL {
		t.Errorf("baseURL = %s, want %s", provider.baseURL, DefaultOllamaURL)
	}
	if provider.model != DefaultOllamaModel {
		t.Errorf("model = %s, want %s", provider.model, DefaultOllamaModel)
	}
	if provider.dimensions != DefaultOllamaDimensions {
		t.Errorf("dimensions = %d, want %d", provider.dimensions, DefaultOllamaDimensions)
	}
	if provider.client == nil {
		t.Error("client should not be nil")
	}
}

func TestNewOllamaProvider_WithOptions(t *testing.T) {
	customURL := "http://custom:8080"
	customModel := "nomic-embed-text"
	customDimensions := 768
	customTimeout := 60 * time.Second

	provider := NewOllamaProvider(
		WithBaseURL(customURL),
		WithModel(customModel),
		WithDimensions(customDimensions),
		WithTimeout(customTimeout),
	)

	if provider.baseURL != customURL {
		t.Errorf("baseURL = %s, want %s", provider.baseURL, customURL)
	}
	if provider.model != customModel {
		t.Errorf("model = %s, want %s", provider.model, customModel)
	}
	if provider.dimensions != customDimensions {
		t.Errorf("dimensions = %d, want %d", provider.dimensions, customDimensions)
	}
	if provider.client.Timeout != customTimeout {
		t.Errorf("timeout = %v, want %v", provider.client.Timeout, customTimeout)
	}
}

func TestNewOllamaProvider_EmptyOptionsIgnored(t *testing.T) {
	provider := NewOllamaProvider(WithBaseURL(""), WithModel(""), WithDimensions(0))

	if provider.baseURL != DefaultOllamaURL {
		t.Errorf("empty URL should keep default, got %s", provider.baseURL)
	}
	if provider.model != DefaultOllamaModel {
		t.Errorf("empty model should keep default, got %s", provider.model)
	}
	if provider.dimensions != DefaultOllamaDimensions {
		t.Errorf("zero dimensions should keep default, got %d", provider.dimensions)
	}
}

func TestOllamaProvider_Embed(t *testing.T) {
	vector := make([]float32, 3)
	vector[0] = 0.1
	vector[1] = 0.2
	vector[2] = 0.3

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPathEmbeddings {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Prompt != "construction management" {
			t.Errorf("prompt = %q", req.Prompt)
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: vector})
	}))
	defer server.Close()

	provider := NewOllamaProvider(WithBaseURL(server.URL), WithDimensions(3))

	emb, err := provider.Embed(context.Background(), "construction management")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if emb.Dimensions() != 3 {
		t.Errorf("got %d dimensions, want 3", emb.Dimensions())
	}
	if emb.Vector[1] != 0.2 {
		t.Errorf("vector[1] = %v, want 0.2", emb.Vector[1])
	}
}

func TestOllamaProvider_EmbedDimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{1, 2}})
	}))
	defer server.Close()

	provider := NewOllamaProvider(WithBaseURL(server.URL), WithDimensions(3))

	if _, err := provider.Embed(context.Background(), "text"); err == nil {
		t.Error("expected error for dimension mismatch")
	}
}

func TestOllamaProvider_EmbedUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewOllamaProvider(WithBaseURL(server.URL))

	_, err := provider.Embed(context.Background(), "text")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestOllamaProvider_EmbedConnectionRefused(t *testing.T) {
	// Point at a closed server so the request fails at the transport level.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	provider := NewOllamaProvider(WithBaseURL(url))

	_, err := provider.Embed(context.Background(), "text")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestOllamaProvider_HasModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaTagsResponse{
			Models: []ollamaModel{{Name: "all-minilm:l6-v2"}, {Name: "llama3"}},
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(WithBaseURL(server.URL))

	has, err := provider.HasModel(context.Background())
	if err != nil {
		t.Fatalf("HasModel failed: %v", err)
	}
	if !has {
		t.Error("expected model to be present")
	}

	provider2 := NewOllamaProvider(WithBaseURL(server.URL), WithModel("missing"))
	has, err = provider2.HasModel(context.Background())
	if err != nil {
		t.Fatalf("HasModel failed: %v", err)
	}
	if has {
		t.Error("expected model to be absent")
	}
}

func TestFormatErrorBody(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple error message",
			input:    "error occurred",
			expected: "error occurred",
		},
		{
			name:     "empty body",
			input:    "",
			expected: "",
		},
		{
			name:     "json error",
			input:    `{"error": "not found"}`,
			expected: `{"error": "not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatErrorBody(strings.NewReader(tt.input))
			if result != tt.expected {
				t.Errorf("formatErrorBody() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestProviders_ImplementProvider(t *testing.T) {
	var _ Provider = (*OllamaProvider)(nil)
	var _ Provider = (*OpenAIProvider)(nil)
}
