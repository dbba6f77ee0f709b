// Package cli provides the linuxrag command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/linuxrag/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/linuxrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
	"github.com/custodia-labs/linuxrag/internal/core/services"
	"github.com/custodia-labs/linuxrag/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "linuxrag",
	Short: "Persian/English RAG answering service for Linux and free software",
	Long: `linuxrag answers natural-language questions (Persian or English) about a
fixed text corpus by retrieving relevant passages, reranking them, grounding
a generative model on the result, and returning an answer with citations.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "config.toml", "path to the TOML config file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// buildService loads settings and assembles the pipeline with its
// memoised handle container. The returned prompt store is nil unless a
// prompts directory is configured.
func buildService() (*configfile.Settings, *services.AskService, *ai.Deps, *configfile.PromptStore, error) {
	cfg, err := configfile.LoadSettings(configFlag)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	deps := ai.NewDeps(ai.Config{
		CohereAPIKey:  cfg.Cohere.APIKey,
		CohereBaseURL: cfg.Cohere.BaseURL,
		CohereTimeout: cfg.Cohere.Timeout(),
		ChatModel:     cfg.Cohere.ChatModel,
		EmbedModel:    cfg.Cohere.EmbedModel,
		RerankModel:   cfg.Cohere.RerankModel,
		StorePath:     cfg.Store.Path,
	})

	var prompts *configfile.PromptStore
	if cfg.PromptsDir != "" {
		prompts, err = configfile.NewPromptStore(cfg.PromptsDir)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}

	// A typed nil must not reach the service as a non-nil interface.
	var promptPort driven.PromptStore
	if prompts != nil {
		promptPort = prompts
	}

	svc := services.NewAskService(deps, promptPort, services.Params{
		Collection: cfg.Store.Collection,
		RetrieveK:  cfg.RAG.RetrieveK,
		FetchK:     cfg.RAG.FetchK,
		RerankTopN: cfg.RAG.RerankTopN,
		MMRLambda:  cfg.RAG.Lambda(),
		Policy:     cfg.Store.CollectionPolicy(),
	}, cfg.Mode)

	return cfg, svc, deps, prompts, nil
}
