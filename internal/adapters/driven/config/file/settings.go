package file

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
)

// Default settings values, matching the knobs the service was tuned with.
const (
	DefaultAppName    = "linuxrag"
	DefaultListenAddr = ":8000"
	DefaultStorePath  = "./collections/llm_corpus"
	DefaultCollection = "llm_corpus"
	DefaultRetrieveK  = 12
	DefaultFetchK     = 30
	DefaultRerankTopN = 6
	DefaultMMRLambda  = 0.5
)

// CohereSettings configure the Cohere API adapters. The API key is taken
// from the COHERE_API_KEY environment variable only, never from the file.
type CohereSettings struct {
	APIKey      string `toml:"-"`
	BaseURL     string `toml:"base_url"`
	ChatModel   string `toml:"chat_model"`
	EmbedModel  string `toml:"embed_model"`
	RerankModel string `toml:"rerank_model"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// Timeout returns the configured per-request timeout.
func (c CohereSettings) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// StoreSettings locate the vector store.
type StoreSettings struct {
	Path       string `toml:"path"`
	Collection string `toml:"collection"`

	// Policy is "strict" (fail on a missing collection) or "permissive"
	// (auto-create). Strict is the default so an accidentally-created empty
	// collection is never queried silently.
	Policy string `toml:"policy"`
}

// CollectionPolicy maps the configured policy string onto the port type.
func (s StoreSettings) CollectionPolicy() driven.CollectionPolicy {
	if s.Policy == "permissive" {
		return driven.CollectionPermissive
	}
	return driven.CollectionStrict
}

// RAGSettings are the retrieval tuning knobs. MMRLambda is a pointer
// because 0 is a meaningful extreme (maximum diversity), so absence, not
// the zero value, selects the default.
type RAGSettings struct {
	RetrieveK  int      `toml:"retrieve_k"`
	FetchK     int      `toml:"fetch_k"`
	RerankTopN int      `toml:"rerank_top_n"`
	MMRLambda  *float64 `toml:"mmr_lambda"`
}

// Lambda resolves the relevance/diversity trade-off, defaulting when unset.
func (r RAGSettings) Lambda() float64 {
	if r.MMRLambda == nil {
		return DefaultMMRLambda
	}
	return *r.MMRLambda
}

// Settings is the root process configuration, loaded once at startup.
// A missing live credential never aborts startup; the affected calls
// degrade to configuration errors instead.
type Settings struct {
	AppName    string `toml:"app_name"`
	Mode       string `toml:"mode"`
	ListenAddr string `toml:"listen_addr"`
	PromptsDir string `toml:"prompts_dir"`

	Cohere CohereSettings `toml:"cohere"`
	Store  StoreSettings  `toml:"store"`
	RAG    RAGSettings    `toml:"rag"`
}

// defaultSettings returns the configuration used when no file exists.
func defaultSettings() *Settings {
	return &Settings{
		AppName:    DefaultAppName,
		Mode:       domain.ModeMock,
		ListenAddr: DefaultListenAddr,
		Store: StoreSettings{
			Path:       DefaultStorePath,
			Collection: DefaultCollection,
			Policy:     "strict",
		},
		RAG: RAGSettings{
			RetrieveK:  DefaultRetrieveK,
			FetchK:     DefaultFetchK,
			RerankTopN: DefaultRerankTopN,
		},
	}
}

// LoadSettings reads settings from the given TOML path, falling back to
// defaults when the file does not exist, then applies .env and
// environment-variable overrides.
func LoadSettings(path string) (*Settings, error) {
	// Missing .env files are fine; real ones feed the overrides below.
	_ = godotenv.Load()

	cfg := defaultSettings()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// Defaults apply.
		default:
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	applyDefaults(cfg)
	applyEnv(cfg)

	if cfg.Mode != domain.ModeMock && cfg.Mode != domain.ModeLive {
		return nil, fmt.Errorf("mode must be %q or %q, got %q",
			domain.ModeMock, domain.ModeLive, cfg.Mode)
	}
	return cfg, nil
}

// applyDefaults fills zero values left by a partial file.
func applyDefaults(cfg *Settings) {
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}
	if cfg.Mode == "" {
		cfg.Mode = domain.ModeMock
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = DefaultCollection
	}
	if cfg.Store.Policy == "" {
		cfg.Store.Policy = "strict"
	}
	if cfg.RAG.RetrieveK == 0 {
		cfg.RAG.RetrieveK = DefaultRetrieveK
	}
	if cfg.RAG.FetchK == 0 {
		cfg.RAG.FetchK = DefaultFetchK
	}
	if cfg.RAG.RerankTopN == 0 {
		cfg.RAG.RerankTopN = DefaultRerankTopN
	}
}

// applyEnv lets the environment override any file value.
func applyEnv(cfg *Settings) {
	setString(&cfg.Mode, "MODE")
	setString(&cfg.AppName, "APP_NAME")
	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.PromptsDir, "PROMPTS_DIR")

	setString(&cfg.Cohere.APIKey, "COHERE_API_KEY")
	setString(&cfg.Cohere.BaseURL, "COHERE_BASE_URL")
	setString(&cfg.Cohere.ChatModel, "COHERE_CHAT_MODEL")
	setString(&cfg.Cohere.EmbedModel, "COHERE_EMBED_MODEL")
	setString(&cfg.Cohere.RerankModel, "COHERE_RERANK_MODEL")

	setString(&cfg.Store.Path, "STORE_PATH")
	setString(&cfg.Store.Collection, "STORE_COLLECTION")
	setString(&cfg.Store.Policy, "STORE_POLICY")

	setInt(&cfg.RAG.RetrieveK, "RETRIEVE_K")
	setInt(&cfg.RAG.FetchK, "FETCH_K")
	setInt(&cfg.RAG.RerankTopN, "RERANK_TOP_N")
	setFloat(&cfg.RAG.MMRLambda, "MMR_LAMBDA")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst **float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = &f
		}
	}
}
