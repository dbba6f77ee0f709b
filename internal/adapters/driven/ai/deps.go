// Package ai constructs and memoises the external service handles.
//
// Handles are expensive to build, so each is created at most once per
// process and reused across requests. Construction failures are memoised
// too: a handle that could not be built stays unavailable and every call
// site observes the same configuration error, with no per-request retry.
package ai

import (
	"sync"
	"time"

	"github.com/custodia-labs/linuxrag/internal/adapters/driven/cohere"
	"github.com/custodia-labs/linuxrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
	"github.com/custodia-labs/linuxrag/internal/core/services"
)

// Ensure Deps satisfies the pipeline's resolver interface.
var _ services.Deps = (*Deps)(nil)

// Config carries everything needed to build the external handles.
type Config struct {
	// CohereAPIKey authorises all Cohere calls. Empty means the embedding,
	// rerank and generation handles are unavailable.
	CohereAPIKey string

	// CohereBaseURL overrides the API endpoint (tests, proxies).
	CohereBaseURL string

	// CohereTimeout bounds each remote call.
	CohereTimeout time.Duration

	// Model identifiers; empty values select the adapter defaults.
	ChatModel   string
	EmbedModel  string
	RerankModel string

	// StorePath is the vector/feedback store directory.
	StorePath string
}

// Deps owns the shared external handles for the process.
type Deps struct {
	cfg Config

	clientOnce sync.Once
	client     *cohere.Client
	clientErr  error

	storeOnce sync.Once
	store     *sqlite.Store
	storeErr  error
}

// NewDeps creates the handle container. Nothing is constructed until the
// first use of each handle.
func NewDeps(cfg Config) *Deps {
	return &Deps{cfg: cfg}
}

// cohereClient builds the shared Cohere HTTP client once.
func (d *Deps) cohereClient() (*cohere.Client, error) {
	d.clientOnce.Do(func() {
		if d.cfg.CohereAPIKey == "" {
			d.clientErr = &domain.ConfigurationError{Setting: "COHERE_API_KEY"}
			return
		}
		client, err := cohere.NewClient(cohere.Config{
			APIKey:  d.cfg.CohereAPIKey,
			BaseURL: d.cfg.CohereBaseURL,
			Timeout: d.cfg.CohereTimeout,
		})
		if err != nil {
			d.clientErr = &domain.ConfigurationError{Setting: "COHERE_API_KEY", Err: err}
			return
		}
		d.client = client
	})
	return d.client, d.clientErr
}

// sqliteStore opens the storage handle once. A bad path is a configuration
// error carrying the configured location.
func (d *Deps) sqliteStore() (*sqlite.Store, error) {
	d.storeOnce.Do(func() {
		store, err := sqlite.NewStore(d.cfg.StorePath)
		if err != nil {
			d.storeErr = &domain.ConfigurationError{
				Setting: "STORE_PATH " + d.cfg.StorePath,
				Err:     err,
			}
			return
		}
		d.store = store
	})
	return d.store, d.storeErr
}

// Embedding returns the embedding handle.
func (d *Deps) Embedding() (driven.EmbeddingService, error) {
	client, err := d.cohereClient()
	if err != nil {
		return nil, err
	}
	return cohere.NewEmbeddingService(client, d.cfg.EmbedModel), nil
}

// VectorStore returns the vector store handle.
func (d *Deps) VectorStore() (driven.VectorStore, error) {
	store, err := d.sqliteStore()
	if err != nil {
		return nil, err
	}
	return store.VectorStore(), nil
}

// Reranker returns the rerank handle.
func (d *Deps) Reranker() (driven.Reranker, error) {
	client, err := d.cohereClient()
	if err != nil {
		return nil, err
	}
	return cohere.NewReranker(client, d.cfg.RerankModel), nil
}

// Generator returns the generation handle.
func (d *Deps) Generator() (driven.GenerationService, error) {
	client, err := d.cohereClient()
	if err != nil {
		return nil, err
	}
	return cohere.NewGenerationService(client, d.cfg.ChatModel), nil
}

// Feedback returns the feedback log handle.
func (d *Deps) Feedback() (driven.FeedbackStore, error) {
	store, err := d.sqliteStore()
	if err != nil {
		return nil, err
	}
	return store.FeedbackStore(), nil
}

// Close releases the storage handle if it was ever opened.
func (d *Deps) Close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
