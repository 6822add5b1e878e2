package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tanwee/prospectus/internal/catalog"
	"github.com/tanwee/prospectus/internal/config"
	"github.com/tanwee/prospectus/internal/embedding"
	"github.com/tanwee/prospectus/internal/livedata"
	"github.com/tanwee/prospectus/internal/resolver"
	"github.com/tanwee/prospectus/internal/synthesis"
	"github.com/tanwee/prospectus/internal/vecindex"
)

// mustFindRepository locates the repository root or exits.
func mustFindRepository() string {
	cwd, exitCode := getRepoRoot()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	root, err := config.FindRepository(cwd)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nRun 'prospectus init' to create one.", err)
	}
	return root
}

// mustLoadConfig loads and validates the repository config or exits.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "invalid config: %v", err)
	}
	return cfg
}

// mustOpenDatabase opens the catalog cache, rebuilding it from JSONL.
func mustOpenDatabase(root string) *catalog.DB {
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	db, err := catalog.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening catalog cache: %v", err)
	}

	if _, err := db.RebuildFromJSONL(config.CatalogPath(root)); err != nil {
		db.Close()
		exitWithError(ExitDataError, "rebuilding catalog cache: %v", err)
	}
	return db
}

// mustLoadIndex loads the vector index pair or exits.
func mustLoadIndex(root string) *vecindex.Index {
	idx, err := vecindex.Load(config.IndexPath(root), config.IndexMetaPath(root))
	if err != nil {
		if errors.Is(err, vecindex.ErrIndexNotFound) {
			exitWithError(ExitConfigError, "Vector index not found\n\nRun 'prospectus index build' to create the index.")
		}
		exitWithError(ExitError, "loading index: %v", err)
	}
	return idx
}

// buildProvider constructs the configured embedding provider.
func buildProvider(cfg *config.Config) (embedding.Provider, error) {
	switch cfg.EmbedProvider {
	case "openai":
		key := os.Getenv(config.GetOpenAIKeyEnv())
		if key == "" {
			return nil, fmt.Errorf("environment variable %s is not set", config.GetOpenAIKeyEnv())
		}
		return embedding.NewOpenAIProvider(key,
			embedding.WithOpenAIBaseURL(config.GetOpenAIBaseURL()),
			embedding.WithOpenAIModel(cfg.EmbedModel),
			embedding.WithOpenAIDimensions(cfg.EmbedDimensions),
		)
	default:
		return embedding.NewOllamaProvider(
			embedding.WithBaseURL(config.GetOllamaURL()),
			embedding.WithModel(cfg.EmbedModel),
			embedding.WithDimensions(cfg.EmbedDimensions),
		), nil
	}
}

// mustBuildProvider exits if the provider cannot be constructed.
func mustBuildProvider(cfg *config.Config) embedding.Provider {
	provider, err := buildProvider(cfg)
	if err != nil {
		exitWithError(ExitConfigError, "configuring embedding provider: %v", err)
	}
	return provider
}

// buildFetcher constructs the live fetcher, or nil when live fetch is
// disabled in config.
func buildFetcher(cfg *config.Config) livedata.Fetcher {
	if !cfg.LiveFetch {
		return nil
	}
	return livedata.NewPageFetcher(
		livedata.WithTimeout(time.Duration(cfg.FetchTimeoutSec) * time.Second),
	)
}

// buildResolver wires index, provider and fetcher per config.
func buildResolver(root string, cfg *config.Config) *resolver.Resolver {
	idx := mustLoadIndex(root)
	provider := mustBuildProvider(cfg)

	opts := resolver.Options{
		TopK:         cfg.TopK,
		Threshold:    &cfg.Threshold,
		FetchTimeout: time.Duration(cfg.FetchTimeoutSec) * time.Second,
	}
	if humanOutput {
		opts.DegradedFunc = func(courseID string, err error) {
			warnColor.Fprintf(os.Stderr, "live check failed for %s: %v\n", courseID, err)
		}
	}

	r, err := resolver.New(idx, provider, buildFetcher(cfg), opts)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nFix embed_model/embed_dimensions in config or rerun 'prospectus index build'.", err)
	}
	return r
}

// buildSynthesizer picks the chat synthesizer, falling back to the
// static rendering when no API key is configured.
func buildSynthesizer(cfg *config.Config) synthesis.Synthesizer {
	key := os.Getenv(config.GetOpenAIKeyEnv())
	if key == "" {
		return synthesis.NewStaticSynthesizer()
	}
	return synthesis.NewOpenAISynthesizer(key, synthesis.WithChatModel(cfg.ChatModel))
}
