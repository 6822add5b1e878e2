package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/prospectus/config.yml.
// It holds machine-level settings that should not live in a repository:
// API endpoints and key names.
type GlobalConfig struct {
	OllamaURL     string `yaml:"ollama_url,omitempty"`
	OpenAIBaseURL string `yaml:"openai_base_url,omitempty"`
	OpenAIKeyEnv  string `yaml:"openai_key_env,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "prospectus"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/prospectus/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetOllamaURL returns the Ollama endpoint override from global config.
func GetOllamaURL() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.OllamaURL
}

// GetOpenAIBaseURL returns the OpenAI-compatible endpoint override.
func GetOpenAIBaseURL() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.OpenAIBaseURL
}

// GetOpenAIKeyEnv returns the env var name holding the OpenAI API key.
// Defaults to OPENAI_API_KEY when unset.
func GetOpenAIKeyEnv() string {
	cfg, _ := LoadGlobalConfig()
	if cfg.OpenAIKeyEnv == "" {
		return "OPENAI_API_KEY"
	}
	return cfg.OpenAIKeyEnv
}
