package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tanwee/prospectus/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit repository configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the repository configuration",
	RunE:  runConfigGet,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	if humanOutput {
		fmt.Printf("embed_provider:    %s\n", cfg.EmbedProvider)
		fmt.Printf("embed_model:       %s\n", cfg.EmbedModel)
		fmt.Printf("embed_dimensions:  %d\n", cfg.EmbedDimensions)
		fmt.Printf("top_k:             %d\n", cfg.TopK)
		fmt.Printf("threshold:         %v\n", cfg.Threshold)
		fmt.Printf("fetch_timeout_sec: %d\n", cfg.FetchTimeoutSec)
		fmt.Printf("chat_model:        %s\n", cfg.ChatModel)
		fmt.Printf("live_fetch:        %v\n", cfg.LiveFetch)
		fmt.Printf("access_gate:       %v\n", cfg.AccessHash != "")
	} else {
		outputJSON(cfg)
	}
	return nil
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Keys: embed_provider, embed_model, embed_dimensions, top_k, threshold,
fetch_timeout_sec, chat_model, live_fetch`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	root := mustFindRepository()
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	key, value := args[0], args[1]
	if err := applyConfigValue(cfg, key, value); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitDataError, "invalid config: %v", err)
	}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		successColor.Printf("%s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "embed_provider":
		cfg.EmbedProvider = value
	case "embed_model":
		cfg.EmbedModel = value
	case "embed_dimensions":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("embed_dimensions must be an integer: %v", err)
		}
		cfg.EmbedDimensions = n
	case "top_k":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("top_k must be an integer: %v", err)
		}
		cfg.TopK = n
	case "threshold":
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return fmt.Errorf("threshold must be a number: %v", err)
		}
		cfg.Threshold = float32(f)
	case "fetch_timeout_sec":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("fetch_timeout_sec must be an integer: %v", err)
		}
		cfg.FetchTimeoutSec = n
	case "chat_model":
		cfg.ChatModel = value
	case "live_fetch":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("live_fetch must be true or false: %v", err)
		}
		cfg.LiveFetch = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
