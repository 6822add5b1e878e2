// Package config handles repository and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents repository configuration stored in .prospectus/config.json.
type Config struct {
	EmbedProvider   string  `json:"embed_provider"`        // "ollama" or "openai"
	EmbedModel      string  `json:"embed_model"`           // e.g. "all-minilm:l6-v2", "text-embedding-3-small"
	EmbedDimensions int     `json:"embed_dimensions"`      // Must match the index artifact
	TopK            int     `json:"top_k"`                 // Candidates retrieved per question
	Threshold       float32 `json:"threshold"`             // Minimum cosine similarity to keep a candidate
	FetchTimeoutSec int     `json:"fetch_timeout_sec"`     // Per-candidate live fetch timeout
	ChatModel       string  `json:"chat_model,omitempty"`  // Answer synthesis model
	AccessHash      string  `json:"access_hash,omitempty"` // bcrypt hash gating the chat surface
	LiveFetch       bool    `json:"live_fetch"`            // Disable to serve static data only
}

const (
	ProspectusDir = ".prospectus"
	ConfigFile    = "config.json"
	CatalogFile   = "catalog.jsonl"
	CacheDir      = "cache"
	DBFile        = "catalog.db"
	IndexFile     = "index.bin"
	IndexMetaFile = "index_meta.json"
)

// Defaults for a freshly initialized repository. K and the threshold are
// deliberately small: the corpus is a fixed handful of programmes and the
// bundle must stay within the synthesizer's context.
const (
	DefaultEmbedProvider   = "ollama"
	DefaultEmbedModel      = "all-minilm:l6-v2"
	DefaultEmbedDimensions = 384
	DefaultTopK            = 5
	DefaultThreshold       = 0.5
	DefaultFetchTimeoutSec = 10
	DefaultChatModel       = "gpt-4o-mini"
)

// ValidProviders lists the supported embed_provider values.
var ValidProviders = []string{"ollama", "openai"}

// ProspectusPath returns the path to the .prospectus directory from a root path.
func ProspectusPath(root string) string {
	return filepath.Join(root, ProspectusDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, ProspectusDir, ConfigFile)
}

// CatalogPath returns the path to catalog.jsonl from a root path.
func CatalogPath(root string) string {
	return filepath.Join(root, ProspectusDir, CatalogFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, ProspectusDir, CacheDir)
}

// DBPath returns the path to catalog.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, ProspectusDir, CacheDir, DBFile)
}

// IndexPath returns the path to the binary vector index from a root path.
func IndexPath(root string) string {
	return filepath.Join(root, ProspectusDir, CacheDir, IndexFile)
}

// IndexMetaPath returns the path to the index metadata file from a root path.
func IndexMetaPath(root string) string {
	return filepath.Join(root, ProspectusDir, CacheDir, IndexMetaFile)
}

// IsRepository checks if the given path contains a prospectus repository.
func IsRepository(root string) bool {
	info, err := os.Stat(ProspectusPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a prospectus repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a prospectus repository (no .prospectus directory found)")
		}
		abs = parent
	}
}

// Default returns a config populated with defaults.
func Default() *Config {
	return &Config{
		EmbedProvider:   DefaultEmbedProvider,
		EmbedModel:      DefaultEmbedModel,
		EmbedDimensions: DefaultEmbedDimensions,
		TopK:            DefaultTopK,
		Threshold:       DefaultThreshold,
		FetchTimeoutSec: DefaultFetchTimeoutSec,
		ChatModel:       DefaultChatModel,
		LiveFetch:       true,
	}
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks configuration invariants. Violations are boot-time
// fatal: the resolver must never be constructed from a bad config.
func (c *Config) Validate() error {
	validProvider := false
	for _, p := range ValidProviders {
		if c.EmbedProvider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid embed_provider: %s (valid: %v)", c.EmbedProvider, ValidProviders)
	}
	if c.EmbedModel == "" {
		return fmt.Errorf("embed_model must not be empty")
	}
	if c.EmbedDimensions <= 0 {
		return fmt.Errorf("embed_dimensions must be positive, got %d", c.EmbedDimensions)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", c.TopK)
	}
	if c.Threshold < -1 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be within [-1, 1], got %v", c.Threshold)
	}
	if c.FetchTimeoutSec < 1 {
		return fmt.Errorf("fetch_timeout_sec must be at least 1, got %d", c.FetchTimeoutSec)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
