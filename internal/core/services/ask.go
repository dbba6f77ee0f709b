package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driving"
	"github.com/custodia-labs/linuxrag/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// Deps resolves the shared external handles the pipeline depends on.
// Handles are expensive to construct; implementations build each one once
// per process and memoise the result, including construction failures,
// which every call observes as a configuration error.
type Deps interface {
	Embedding() (driven.EmbeddingService, error)
	VectorStore() (driven.VectorStore, error)
	Reranker() (driven.Reranker, error)
	Generator() (driven.GenerationService, error)
}

// Params are the retrieval tuning knobs, loaded once at startup.
type Params struct {
	// Collection is the vector-store collection to query.
	Collection string

	// RetrieveK is the number of documents requested from the store.
	RetrieveK int

	// FetchK is the candidate pool size for diversity selection.
	FetchK int

	// RerankTopN bounds the reranker output.
	RerankTopN int

	// MMRLambda trades relevance against diversity in [0,1].
	MMRLambda float64

	// Policy controls collection resolution (strict by default).
	Policy driven.CollectionPolicy
}

// pipelineState is the accumulator shared by all stages. Each stage reads
// the fields written by its predecessors and adds its own.
type pipelineState struct {
	question    string
	queryVector []float32
	retrieved   []domain.Document
	ranked      []domain.Document
	bundle      domain.PromptBundle
	answer      string
}

// stage is one step of the answering pipeline.
type stage interface {
	Name() string
	Run(ctx context.Context, st *pipelineState) error
}

// AskService sequences the answering pipeline. One invocation per inbound
// request; no shared mutable state between requests.
type AskService struct {
	deps    Deps
	prompts driven.PromptStore
	params  Params
	mode    string
}

// NewAskService creates the pipeline orchestrator. prompts may be nil, in
// which case the built-in system instruction is used.
func NewAskService(deps Deps, prompts driven.PromptStore, params Params, mode string) *AskService {
	return &AskService{
		deps:    deps,
		prompts: prompts,
		params:  params,
		mode:    mode,
	}
}

// stages returns the full pipeline in execution order.
func (s *AskService) stages() []stage {
	return []stage{
		&embedStage{deps: s.deps},
		&retrieveStage{deps: s.deps, params: s.params},
		&rerankStage{deps: s.deps, topN: s.params.RerankTopN},
		&assembleStage{prompts: s.prompts},
		&generateStage{deps: s.deps},
	}
}

// prepareStageCount is the number of leading stages Prepare runs:
// everything up to and including context assembly.
const prepareStageCount = 4

func (s *AskService) run(ctx context.Context, st *pipelineState, stages []stage) error {
	for _, stg := range stages {
		logger.Section(stg.Name())
		if err := stg.Run(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Ask runs the entire pipeline and returns the answer envelope.
func (s *AskService) Ask(ctx context.Context, question string, topK int) (domain.AskResponse, error) {
	if s.mode == domain.ModeMock {
		logger.Debug("mock mode, skipping pipeline")
		return mockAnswer(question, topK), nil
	}

	st := &pipelineState{question: question}
	if err := s.run(ctx, st, s.stages()); err != nil {
		return domain.AskResponse{}, err
	}

	citations := ExtractCitations(st.ranked, topK)
	return domain.AskResponse{
		Answer:    st.answer,
		Citations: citations,
		UsedK:     len(citations),
		Mode:      domain.ModeLive,
	}, nil
}

// Prepare runs embed, retrieve, rerank and assemble only, returning the
// prompt bundle for the caller to drive generation.
func (s *AskService) Prepare(ctx context.Context, question string) (domain.PromptBundle, error) {
	st := &pipelineState{question: question}
	if err := s.run(ctx, st, s.stages()[:prepareStageCount]); err != nil {
		return domain.PromptBundle{}, err
	}
	return st.bundle, nil
}

// --- Stages ---

type embedStage struct {
	deps Deps
}

func (e *embedStage) Name() string { return "Embed" }

func (e *embedStage) Run(ctx context.Context, st *pipelineState) error {
	svc, err := e.deps.Embedding()
	if err != nil {
		return err
	}
	vec, err := svc.EmbedQuery(ctx, st.question)
	if err != nil {
		return err
	}
	logger.Debug("query embedded, dim=%d model=%s", len(vec), svc.ModelName())
	st.queryVector = vec
	return nil
}

type retrieveStage struct {
	deps   Deps
	params Params
}

func (r *retrieveStage) Name() string { return "Retrieve" }

func (r *retrieveStage) Run(ctx context.Context, st *pipelineState) error {
	store, err := r.deps.VectorStore()
	if err != nil {
		return err
	}
	docs, err := store.Retrieve(ctx, st.queryVector, driven.RetrieveOptions{
		Collection: r.params.Collection,
		K:          r.params.RetrieveK,
		FetchK:     r.params.FetchK,
		Lambda:     r.params.MMRLambda,
		Policy:     r.params.Policy,
	})
	if err != nil {
		return err
	}
	logger.Debug("retrieved %d documents from %q", len(docs), r.params.Collection)
	st.retrieved = docs
	return nil
}

type rerankStage struct {
	deps Deps
	topN int
}

func (r *rerankStage) Name() string { return "Rerank" }

func (r *rerankStage) Run(ctx context.Context, st *pipelineState) error {
	// Empty retrieval degenerates to empty-context handling, not an error.
	if len(st.retrieved) == 0 {
		logger.Debug("nothing retrieved, skipping rerank")
		st.ranked = nil
		return nil
	}

	svc, err := r.deps.Reranker()
	if err != nil {
		return err
	}
	texts := make([]string, len(st.retrieved))
	for i, d := range st.retrieved {
		texts[i] = d.Content
	}
	items, err := svc.Rerank(ctx, st.question, texts, r.topN)
	if err != nil {
		return err
	}

	ranked := make([]domain.Document, 0, len(items))
	for _, item := range items {
		// Indices come from the remote response; never trust them blindly.
		if item.Index < 0 || item.Index >= len(st.retrieved) {
			return &domain.UpstreamError{
				Op:     "rerank",
				Detail: "model " + svc.ModelName(),
				Err: fmt.Errorf("result index %d out of range for %d candidates",
					item.Index, len(st.retrieved)),
			}
		}
		ranked = append(ranked, st.retrieved[item.Index])
	}
	logger.Debug("reranked to %d documents, model=%s", len(ranked), svc.ModelName())
	st.ranked = ranked
	return nil
}

type assembleStage struct {
	prompts driven.PromptStore
}

func (a *assembleStage) Name() string { return "Assemble" }

func (a *assembleStage) Run(_ context.Context, st *pipelineState) error {
	instruction := DefaultSystemInstruction
	if a.prompts != nil {
		if p, err := a.prompts.Load(driven.PromptAskSystem); err == nil {
			instruction = p
		}
	}
	st.bundle = AssembleBundle(st.question, st.ranked, instruction)
	logger.Debug("context assembled: %d documents, directive=%q",
		len(st.ranked), st.bundle.LangDirective)
	return nil
}

type generateStage struct {
	deps Deps
}

func (g *generateStage) Name() string { return "Generate" }

func (g *generateStage) Run(ctx context.Context, st *pipelineState) error {
	svc, err := g.deps.Generator()
	if err != nil {
		return err
	}
	answer, err := svc.Generate(ctx, BuildMessages(st.bundle))
	if err != nil {
		return err
	}
	logger.Debug("answer generated, %d bytes, model=%s", len(answer), svc.ModelName())
	st.answer = answer
	return nil
}
