package domain

// Metadata keys recognised on retrieved documents.
const (
	MetaSource = "source"
	MetaID     = "id"
	MetaURL    = "url"
	MetaDocID  = "doc_id"
)

// Document is a retrieved passage from the vector store.
// Immutable once created; Metadata always carries an "id" entry,
// back-filled from the store's row id when the source metadata lacks one.
type Document struct {
	// Content is the passage text.
	Content string

	// Metadata contains scalar key-value pairs from the store.
	// Recognised keys: source, id, url, doc_id.
	Metadata map[string]any
}

// MetaString returns the metadata value for key as a string,
// or "" when the key is absent or not a string.
func (d Document) MetaString(key string) string {
	v, ok := d.Metadata[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// Citation is a structured pointer justifying part of a generated answer.
type Citation struct {
	// Source is a short source name or id.
	Source string `json:"source"`

	// Snippet is a short excerpt supporting the answer (at most 220 characters).
	Snippet string `json:"snippet"`

	// URL optionally links to the source.
	URL *string `json:"url"`
}

// Operating modes for the answering pipeline.
const (
	ModeMock = "mock"
	ModeLive = "live"
)

// AskRequest is the inbound question payload.
type AskRequest struct {
	Question string `json:"question" binding:"required"`

	// TopK bounds the number of citations returned. Nil means the default (8).
	TopK *int `json:"top_k"`
}

// DefaultTopK is applied when a request omits top_k.
const DefaultTopK = 8

// EffectiveTopK resolves the requested citation bound.
func (r AskRequest) EffectiveTopK() int {
	if r.TopK == nil {
		return DefaultTopK
	}
	return *r.TopK
}

// AskResponse is the externally visible answer envelope.
// Created once per request and never mutated after construction.
type AskResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	UsedK     int        `json:"used_k"`
	Mode      string     `json:"mode"`
	Notes     *string    `json:"notes"`
}

// PromptBundle is the complete material needed to invoke generation.
// Produced once per request by the preparation stages and consumed by
// either the batch or the streaming generation path.
type PromptBundle struct {
	// SystemInstruction is the fixed assistant persona and grounding directive.
	SystemInstruction string

	// Question is the user's question, verbatim.
	Question string

	// ContextText is the numbered context block built from RankedDocuments.
	ContextText string

	// LangDirective tells the model which language to answer in.
	LangDirective string

	// RankedDocuments preserves rerank order for citation extraction.
	RankedDocuments []Document
}

// Feedback is a user rating of an answer. Logged, never processed.
type Feedback struct {
	ID       string  `json:"id,omitempty"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Rating   int     `json:"rating"`
	Comment  *string `json:"comment"`
}
